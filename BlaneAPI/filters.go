package BlaneAPI

import (
	"net/url"
	"strconv"
	"strings"
)

// PaymentFilters holds the user-facing filter state for the vendor-payment
// listing. Numeric filters arrive as strings from the admin UI and are only
// coerced at encode time.
type PaymentFilters struct {
	VendorID       string `json:"vendor_id"`
	TransferStatus string `json:"transfer_status"`
	PaymentType    string `json:"payment_type"`
	CategoryID     string `json:"category_id"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	WeekStart      string `json:"week_start"`
	WeekEnd        string `json:"week_end"`
	Search         string `json:"search"`
	SortBy         string `json:"sort_by"`
	SortOrder      string `json:"sort_order"`
	PaginationSize string `json:"pagination_size"`
	Page           int    `json:"page"`
}

// Encode serializes the filters into query parameters. Only defined fields
// are included; numeric-like fields that fail coercion are silently dropped
// rather than sent as garbage. Omission is the only failure signal.
func (f PaymentFilters) Encode() url.Values {
	params := url.Values{}

	if id, ok := parsePositiveInt(f.VendorID); ok {
		params.Set("vendor_id", strconv.Itoa(id))
	}
	if id, ok := parsePositiveInt(f.CategoryID); ok {
		params.Set("category_id", strconv.Itoa(id))
	}
	if size, ok := parsePositiveInt(f.PaginationSize); ok {
		params.Set("pagination_size", strconv.Itoa(size))
	}

	setIfPresent(params, "transfer_status", f.TransferStatus)
	setIfPresent(params, "payment_type", f.PaymentType)
	setIfPresent(params, "start_date", f.StartDate)
	setIfPresent(params, "end_date", f.EndDate)
	setIfPresent(params, "week_start", f.WeekStart)
	setIfPresent(params, "week_end", f.WeekEnd)
	setIfPresent(params, "search", f.Search)
	setIfPresent(params, "sort_by", f.SortBy)
	setIfPresent(params, "sort_order", f.SortOrder)

	if f.Page > 0 {
		params.Set("page", strconv.Itoa(f.Page))
	}

	return params
}

// RequestedSize returns the coerced pagination size, or the given default
// when the field is absent or invalid.
func (f PaymentFilters) RequestedSize(fallback int) int {
	if size, ok := parsePositiveInt(f.PaginationSize); ok {
		return size
	}
	return fallback
}

func parsePositiveInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// The admin UI occasionally sends "7.0" style values.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	n := int(v)
	if n <= 0 || float64(n) != v {
		return 0, false
	}
	return n, true
}

func setIfPresent(params url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		params.Set(key, v)
	}
}
