package BlaneAPI

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"Blane/Models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestRecordFromMap(t *testing.T) {
	record := decode(t, `{
		"id": 42,
		"vendor_id": 7,
		"category_id": 3,
		"total_amount": 120,
		"commission_amount": "15.00",
		"commission_vat": "3.00",
		"net_amount": "102.00",
		"net_amount_ttc": "100.50",
		"transfer_status": "pending",
		"payment_type": "full",
		"booking_date": "2026-08-20",
		"vendor": {"id": 7, "name": "Acme", "company_name": "Acme SARL", "bank_name": "CIH", "rib": "230 810 000"},
		"category": {"id": 3, "name": "Restaurants"}
	}`).(map[string]any)

	payment := RecordFromMap(record)

	if payment.ID != 42 {
		t.Errorf("ID = %d, want 42", payment.ID)
	}
	if payment.VendorID != 7 || payment.CategoryID != 3 {
		t.Errorf("relations = vendor %d category %d", payment.VendorID, payment.CategoryID)
	}
	if payment.TotalAmount != "120" {
		t.Errorf("numeric amount should be formatted to string, got %q", payment.TotalAmount)
	}
	if payment.NetAmountTTC != "100.50" {
		t.Errorf("string amount should be kept verbatim, got %q", payment.NetAmountTTC)
	}
	if payment.VendorName != "Acme" || payment.VendorCompany != "Acme SARL" {
		t.Errorf("vendor fields = %q / %q", payment.VendorName, payment.VendorCompany)
	}
	if payment.BankName != "CIH" || payment.RIB != "230 810 000" {
		t.Errorf("bank fields = %q / %q", payment.BankName, payment.RIB)
	}
	if payment.CategoryName != "Restaurants" {
		t.Errorf("category name = %q", payment.CategoryName)
	}
}

func TestFetchVendorPaymentsEndToEnd(t *testing.T) {
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/vendor-payments"):
			w.Write([]byte(`{
				"data": [{"id": 1, "vendor_id": 7, "net_amount_ttc": "100.50"}],
				"meta": {"total": 1, "current_page": 1, "last_page": 1, "per_page": 10, "from": 1, "to": 1}
			}`))
		case strings.HasPrefix(r.URL.Path, "/vendors"):
			w.Write([]byte(`{"data": [{"id": 7, "name": "Acme", "company_name": "Acme SARL"}],
				"meta": {"total": 1, "current_page": 1, "last_page": 1, "per_page": 100}}`))
		default:
			w.Write([]byte(`{"data": []}`))
		}
	}))

	listing, err := FetchVendorPayments(PaymentFilters{PaginationSize: "10"})
	if err != nil {
		t.Fatalf("FetchVendorPayments: %v", err)
	}

	if len(listing.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(listing.Records))
	}
	if amount := listing.Records[0]["net_amount_ttc"]; amount != "100.50" {
		t.Errorf("net_amount_ttc = %v, want \"100.50\" preserved", amount)
	}
	if listing.Meta.Total != 1 || listing.Meta.PerPage != 10 {
		t.Errorf("meta = %+v", listing.Meta)
	}
	if listing.VendorNames[7] != "Acme SARL" {
		t.Errorf("vendor 7 name = %q, want enriched Acme SARL", listing.VendorNames[7])
	}
}

func TestUpdateTransferStatusTranslatesBackendFault(t *testing.T) {
	withTestAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"message": "SQLSTATE[01000]: Warning: 1265 Data truncated for column 'transfer_status' at row 1",
		})
	}))

	_, err := UpdateTransferStatus(5, "complete")
	if err == nil {
		t.Fatal("expected an error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if !strings.Contains(apiErr.Message, "truncated column") {
		t.Errorf("quirk not translated: %q", apiErr.Message)
	}
}

func TestStoreUniqueVendorPaymentsSkipsDuplicates(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"))
	if err != nil {
		t.Fatalf("sqlite init error: %v", err)
	}
	db.AutoMigrate(&Models.VendorPayment{})
	Models.DB = db

	payments := []Models.VendorPayment{
		{Model: gorm.Model{ID: 1}, VendorID: 7, TransferStatus: Models.TransferPending},
		{Model: gorm.Model{ID: 2}, VendorID: 7, TransferStatus: Models.TransferPending},
	}

	stored, err := StoreUniqueVendorPayments(payments)
	if err != nil {
		t.Fatalf("first store: %v", err)
	}
	if stored != 2 {
		t.Errorf("first store = %d, want 2", stored)
	}

	stored, err = StoreUniqueVendorPayments(payments)
	if err != nil {
		t.Fatalf("second store: %v", err)
	}
	if stored != 0 {
		t.Errorf("second store = %d, want 0 (all duplicates)", stored)
	}

	var count int64
	db.Model(&Models.VendorPayment{}).Count(&count)
	if count != 2 {
		t.Errorf("row count = %d, want 2", count)
	}
}
