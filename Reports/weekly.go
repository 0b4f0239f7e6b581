package Reports

import (
	"fmt"
	"sort"
	"time"

	"Blane/Models"

	"github.com/shopspring/decimal"
)

// WeeklySummaryItem rolls up locally synced payments for one ISO week.
type WeeklySummaryItem struct {
	Week           string          `json:"week"` // e.g. 2026-W35
	WeekStart      string          `json:"week_start"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentsCount  int             `json:"payments_count"`
	PendingCount   int             `json:"pending_count"`
	ProcessedCount int             `json:"processed_count"`
	CompleteCount  int             `json:"complete_count"`
}

// SummarizeByWeek groups payments by the ISO week of their booking date.
// Payments with unparsable dates are grouped under an "unknown" bucket so
// totals still reconcile with the record count. Output is sorted by week,
// newest first, with the unknown bucket last.
func SummarizeByWeek(payments []Models.VendorPayment) []WeeklySummaryItem {
	buckets := make(map[string]*WeeklySummaryItem)

	for _, payment := range payments {
		key, weekStart := weekOf(payment.BookingDate)

		item, ok := buckets[key]
		if !ok {
			item = &WeeklySummaryItem{
				Week:        key,
				WeekStart:   weekStart,
				TotalAmount: decimal.Zero,
			}
			buckets[key] = item
		}

		if amount, ok := parseAmount(payment.NetAmountTTC); ok {
			item.TotalAmount = item.TotalAmount.Add(amount)
		} else if amount, ok := parseAmount(payment.TotalAmountTTC); ok {
			item.TotalAmount = item.TotalAmount.Add(amount)
		}
		item.PaymentsCount++

		switch payment.TransferStatus {
		case Models.TransferPending:
			item.PendingCount++
		case Models.TransferProcessed:
			item.ProcessedCount++
		case Models.TransferComplete:
			item.CompleteCount++
		}
	}

	summary := make([]WeeklySummaryItem, 0, len(buckets))
	for _, item := range buckets {
		summary = append(summary, *item)
	}
	sort.Slice(summary, func(i, j int) bool {
		if summary[i].Week == "unknown" {
			return false
		}
		if summary[j].Week == "unknown" {
			return true
		}
		return summary[i].Week > summary[j].Week
	})
	return summary
}

func weekOf(date string) (key, weekStart string) {
	if len(date) > 10 {
		date = date[:10]
	}
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "unknown", ""
	}
	year, week := parsed.ISOWeek()

	// Back up to the Monday of that week.
	offset := (int(parsed.Weekday()) + 6) % 7
	monday := parsed.AddDate(0, 0, -offset)

	return fmt.Sprintf("%d-W%02d", year, week), monday.Format("2006-01-02")
}
