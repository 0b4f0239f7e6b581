package BlaneAPI

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"Blane/Constants"
)

func withTestAPI(t *testing.T, handler http.Handler) {
	t.Helper()
	server := httptest.NewServer(handler)
	previous := Constants.BlaneAPIURL
	Constants.BlaneAPIURL = server.URL
	t.Cleanup(func() {
		Constants.BlaneAPIURL = previous
		server.Close()
	})
}

func TestCollectVendorIDs(t *testing.T) {
	records := []map[string]any{
		{"vendor_id": float64(7)},
		{"vendor": map[string]any{"id": float64(9), "name": "Acme"}},
		{"vendor_id": float64(7)},
		{"vendor_id": float64(-2)},
		{"note": "no vendor at all"},
	}

	ids := CollectVendorIDs(records)

	if len(ids) != 2 || ids[0] != 7 || ids[1] != 9 {
		t.Errorf("CollectVendorIDs = %v, want [7 9]", ids)
	}
}

func TestBuildVendorNamesFromEmbeddedData(t *testing.T) {
	records := []map[string]any{
		{"vendor_id": float64(1), "vendor": map[string]any{"id": float64(1), "name": "Acme", "company_name": "  Acme SARL  "}},
		{"vendor_id": float64(2), "vendor": map[string]any{"id": float64(2), "name": "Beta"}},
		{"vendor_id": float64(3), "vendor_name": "Gamma Traiteur"},
		{"vendor_id": float64(4)},
	}

	names := BuildVendorNames(records, nil)

	if names[1] != "Acme SARL" {
		t.Errorf("vendor 1 = %q, want company_name preferred and trimmed", names[1])
	}
	if names[2] != "Beta" {
		t.Errorf("vendor 2 = %q, want name fallback", names[2])
	}
	if names[3] != "Gamma Traiteur" {
		t.Errorf("vendor 3 = %q, want scalar vendor_name fallback", names[3])
	}
	if _, ok := names[4]; ok {
		t.Error("vendor 4 has no name anywhere and should stay unresolved")
	}
}

func TestBuildVendorNamesDoesNotMutateExisting(t *testing.T) {
	existing := NameMap{5: "Old Name"}
	records := []map[string]any{
		{"vendor_id": float64(6), "vendor_name": "New Vendor"},
	}

	names := BuildVendorNames(records, existing)

	if len(existing) != 1 {
		t.Errorf("existing map was mutated: %v", existing)
	}
	if names[5] != "Old Name" || names[6] != "New Vendor" {
		t.Errorf("merged map wrong: %v", names)
	}
}

// A backend stuck reporting ever more pages must not drag the resolver
// past the page cap.
func TestFetchMissingVendorNamesBoundedPaging(t *testing.T) {
	requests := 0
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		page := r.URL.Query().Get("page")
		body := map[string]any{
			"data": []map[string]any{
				{"id": 100000 + requests, "name": fmt.Sprintf("Filler %s", page)},
			},
			"meta": map[string]any{
				"total": 100000, "current_page": requests, "last_page": 50, "per_page": 100,
			},
		}
		json.NewEncoder(w).Encode(body)
	}))

	names := FetchMissingVendorNames([]int{9999}, nil)

	if requests > 10 {
		t.Errorf("issued %d page requests, cap is 10", requests)
	}
	if _, ok := names[9999]; ok {
		t.Error("vendor 9999 was never served and must stay unresolved")
	}
}

func TestFetchMissingVendorNamesResolvesAndStopsEarly(t *testing.T) {
	requests := 0
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		body := map[string]any{
			"data": []map[string]any{
				{"id": 7, "name": "Acme", "company_name": "Acme SARL"},
			},
			"meta": map[string]any{
				"total": 1000, "current_page": 1, "last_page": 10, "per_page": 100,
			},
		}
		json.NewEncoder(w).Encode(body)
	}))

	names := FetchMissingVendorNames([]int{7}, nil)

	if requests != 1 {
		t.Errorf("expected 1 request once all ids resolved, got %d", requests)
	}
	if names[7] != "Acme SARL" {
		t.Errorf("vendor 7 = %q, want Acme SARL", names[7])
	}
}

func TestFetchMissingVendorNamesSwallowsNetworkFailure(t *testing.T) {
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	existing := NameMap{1: "Known"}
	names := FetchMissingVendorNames([]int{1, 2}, existing)

	if names[1] != "Known" {
		t.Error("existing names must survive a failed enrichment")
	}
	if _, ok := names[2]; ok {
		t.Error("id 2 should stay unresolved after a failed fetch")
	}
}

func TestFetchMissingVendorNamesSkipsWhenNothingMissing(t *testing.T) {
	requests := 0
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))

	FetchMissingVendorNames([]int{1}, NameMap{1: "Already Resolved"})

	if requests != 0 {
		t.Errorf("no fetch should be issued when all ids are resolved, got %d", requests)
	}
}

func TestVendorDisplayNamePlaceholder(t *testing.T) {
	names := NameMap{1: "Acme"}

	if got := VendorDisplayName(names, 1); got != "Acme" {
		t.Errorf("resolved name = %q", got)
	}
	if got := VendorDisplayName(names, 42); got != "Vendor #42" {
		t.Errorf("placeholder = %q, want Vendor #42", got)
	}
	if got := CategoryDisplayName(nil, 3); got != "Category #3" {
		t.Errorf("placeholder = %q, want Category #3", got)
	}
}
