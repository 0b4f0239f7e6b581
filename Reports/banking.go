package Reports

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// BankingReportItem is a per-vendor rollup of payments due, used to build
// bulk bank transfer instructions. Recomputed on every report generation,
// never persisted.
type BankingReportItem struct {
	VendorID      int             `json:"vendor_id"`
	VendorName    string          `json:"vendor_name"`
	VendorCompany string          `json:"vendor_company"`
	BankName      string          `json:"bank_name"`
	RIB           string          `json:"rib"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentsCount int             `json:"payments_count"`
}

// AggregateBankingReport groups payment records by vendor id and sums the
// payable amount per vendor. Single pass, first-seen order. Records without
// an embedded vendor sub-object still aggregate under their vendor_id with
// placeholder names. Non-numeric amounts contribute zero to the sum.
func AggregateBankingReport(records []map[string]any) []BankingReportItem {
	groups := make(map[int]*BankingReportItem)
	order := make([]int, 0)

	for _, record := range records {
		vendorID := recordVendorID(record)

		item, seen := groups[vendorID]
		if !seen {
			item = &BankingReportItem{
				VendorID:    vendorID,
				VendorName:  fmt.Sprintf("Vendor #%d", vendorID),
				TotalAmount: decimal.Zero,
			}
			if vendor, ok := record["vendor"].(map[string]any); ok {
				if name := trimmedField(vendor, "name"); name != "" {
					item.VendorName = name
				}
				item.VendorCompany = trimmedField(vendor, "company_name")
				item.BankName = trimmedField(vendor, "bank_name")
				item.RIB = trimmedField(vendor, "rib")
			}
			groups[vendorID] = item
			order = append(order, vendorID)
		}

		item.TotalAmount = item.TotalAmount.Add(payableAmount(record))
		item.PaymentsCount++
	}

	report := make([]BankingReportItem, 0, len(order))
	for _, vendorID := range order {
		report = append(report, *groups[vendorID])
	}
	return report
}

func recordVendorID(record map[string]any) int {
	if id, ok := numericField(record["vendor_id"]); ok && id > 0 {
		return id
	}
	if vendor, ok := record["vendor"].(map[string]any); ok {
		if id, ok := numericField(vendor["id"]); ok && id > 0 {
			return id
		}
	}
	return 0
}

// payableAmount reads net_amount_ttc, falling back to total_amount_ttc,
// falling back to zero. Anything unparsable is zero, never NaN.
func payableAmount(record map[string]any) decimal.Decimal {
	if amount, ok := parseAmount(record["net_amount_ttc"]); ok {
		return amount
	}
	if amount, ok := parseAmount(record["total_amount_ttc"]); ok {
		return amount
	}
	return decimal.Zero
}

func parseAmount(v any) (decimal.Decimal, bool) {
	switch amount := v.(type) {
	case float64:
		return decimal.NewFromFloat(amount), true
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(amount))
		if err != nil {
			return decimal.Zero, false
		}
		return parsed, true
	default:
		return decimal.Zero, false
	}
}

func numericField(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case string:
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return int(parsed), true
		}
	}
	return 0, false
}

func trimmedField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
