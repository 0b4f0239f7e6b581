package BlaneAPI

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return v
}

func TestResolveEnvelopeLaravelShape(t *testing.T) {
	body := decode(t, `{
		"data": [{"id": 1, "vendor_id": 7}, {"id": 2, "vendor_id": 8}],
		"meta": {"total": 5, "current_page": 2, "last_page": 3, "per_page": 2, "from": 3, "to": 4}
	}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(env.Data))
	}
	if id, _ := toInt(env.Data[0]["id"]); id != 1 {
		t.Errorf("first record id = %v, want 1", env.Data[0]["id"])
	}
	want := PaginationMeta{Total: 5, CurrentPage: 2, LastPage: 3, PerPage: 2, From: 3, To: 4}
	if env.Meta != want {
		t.Errorf("meta = %+v, want %+v", env.Meta, want)
	}
}

func TestResolveEnvelopeLaravelWithoutMeta(t *testing.T) {
	body := decode(t, `{"data": [{"id": 1}, {"id": 2}, {"id": 3}]}`)

	env := ResolveEnvelope(body, 25)

	if len(env.Data) != 3 {
		t.Fatalf("expected 3 records, got %d", len(env.Data))
	}
	if env.Meta.Total != 3 || env.Meta.CurrentPage != 1 || env.Meta.LastPage != 1 {
		t.Errorf("synthesized meta wrong: %+v", env.Meta)
	}
	if env.Meta.PerPage != 25 {
		t.Errorf("per_page = %d, want requested size 25", env.Meta.PerPage)
	}
}

func TestResolveEnvelopeDirectArray(t *testing.T) {
	body := decode(t, `[{"id": 10}, {"id": 11}]`)

	env := ResolveEnvelope(body, 0)

	if len(env.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(env.Data))
	}
	if env.Meta.Total != 2 || env.Meta.From != 1 || env.Meta.To != 2 {
		t.Errorf("meta = %+v", env.Meta)
	}
}

func TestResolveEnvelopePaymentsKey(t *testing.T) {
	body := decode(t, `{
		"payments": [{"id": 1}],
		"total": 40,
		"page": 4,
		"totalPages": 8
	}`)

	env := ResolveEnvelope(body, 5)

	if len(env.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(env.Data))
	}
	if env.Meta.Total != 40 {
		t.Errorf("total = %d, want 40", env.Meta.Total)
	}
	if env.Meta.CurrentPage != 4 {
		t.Errorf("current_page = %d, want 4 (from page alias)", env.Meta.CurrentPage)
	}
	if env.Meta.LastPage != 8 {
		t.Errorf("last_page = %d, want 8 (from totalPages alias)", env.Meta.LastPage)
	}
	if env.Meta.PerPage != 5 {
		t.Errorf("per_page = %d, want requested size 5", env.Meta.PerPage)
	}
}

func TestResolveEnvelopeResultsKey(t *testing.T) {
	body := decode(t, `{"results": [{"id": 1}, {"id": 2}], "count": 17}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(env.Data))
	}
	if env.Meta.Total != 17 {
		t.Errorf("total = %d, want 17 (from count)", env.Meta.Total)
	}
}

func TestResolveEnvelopeRootPagination(t *testing.T) {
	body := decode(t, `{
		"current_page": 2,
		"last_page": 4,
		"total": 31,
		"per_page": 10,
		"items": [{"id": 9}]
	}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 1 {
		t.Fatalf("expected 1 record from the items key, got %d", len(env.Data))
	}
	if env.Meta.CurrentPage != 2 || env.Meta.LastPage != 4 || env.Meta.Total != 31 {
		t.Errorf("meta = %+v", env.Meta)
	}
}

func TestResolveEnvelopeNestedDataObject(t *testing.T) {
	body := decode(t, `{"data": {"payments": [{"id": 3}], "total": 3}}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(env.Data))
	}
	if env.Meta.Total != 3 {
		t.Errorf("total = %d, want 3", env.Meta.Total)
	}
}

func TestResolveEnvelopeDeepSearch(t *testing.T) {
	body := decode(t, `{"foo": {"bar": [{"id": 1}]}}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 1 {
		t.Fatalf("deep search should find the nested array, got %d records", len(env.Data))
	}
	if id, _ := toInt(env.Data[0]["id"]); id != 1 {
		t.Errorf("record id = %v, want 1", env.Data[0]["id"])
	}
}

// The resolver must return well-formed output for ANY input, no panics,
// no nil data.
func TestResolveEnvelopeTotality(t *testing.T) {
	inputs := []any{
		nil,
		"just a string",
		float64(42),
		true,
		map[string]any{},
		map[string]any{"message": "no lists here"},
		map[string]any{"data": "not an array"},
		map[string]any{"data": map[string]any{"note": "still no array"}},
		[]any{},
		[]any{"scalar", float64(1)},
		decode(t, `{"a": {"b": {"c": {"d": 1}}}}`),
	}

	for i, input := range inputs {
		env := ResolveEnvelope(input, 10)
		if env.Data == nil {
			t.Errorf("input %d: data is nil", i)
		}
		if env.Meta.CurrentPage < 1 || env.Meta.LastPage < 1 {
			t.Errorf("input %d: meta not fully populated: %+v", i, env.Meta)
		}
	}
}

// Shape ordering matters: a Laravel body also has root pagination fields,
// but shape 1 must win.
func TestResolveEnvelopeShapeOrdering(t *testing.T) {
	body := decode(t, `{
		"data": [{"id": 1}],
		"meta": {"total": 1, "current_page": 1, "last_page": 1, "per_page": 10, "from": 1, "to": 1},
		"current_page": 99,
		"last_page": 99
	}`)

	env := ResolveEnvelope(body, 10)

	if env.Meta.CurrentPage != 1 {
		t.Errorf("laravel shape should win over root pagination, got page %d", env.Meta.CurrentPage)
	}
}

func TestResolveEnvelopePreservesAmountStrings(t *testing.T) {
	body := decode(t, `{
		"data": [{"id": 1, "vendor_id": 7, "net_amount_ttc": "100.50"}],
		"meta": {"total": 1, "current_page": 1, "last_page": 1, "per_page": 10, "from": 1, "to": 1}
	}`)

	env := ResolveEnvelope(body, 10)

	if len(env.Data) != 1 {
		t.Fatalf("expected 1 record, got %d", len(env.Data))
	}
	if amount, ok := env.Data[0]["net_amount_ttc"].(string); !ok || amount != "100.50" {
		t.Errorf("net_amount_ttc = %v, want the string \"100.50\" untouched", env.Data[0]["net_amount_ttc"])
	}
}
