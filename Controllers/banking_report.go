package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"Blane/BlaneAPI"
	"Blane/Models"
	"Blane/Reports"
)

// BankingReportController builds the per-vendor transfer instruction
// report for a given week.
type BankingReportController struct {
	DB *gorm.DB
}

// NewBankingReportController creates a new BankingReportController
func NewBankingReportController(db *gorm.DB) *BankingReportController {
	return &BankingReportController{DB: db}
}

// GetBankingReport aggregates payments by vendor for the requested week.
// The live report payload comes from the Blane API; when the upstream is
// unreachable the locally synced payments are aggregated instead so the
// finance team still gets a (possibly stale) report.
func (c *BankingReportController) GetBankingReport(ctx *fiber.Ctx) error {
	weekStart := ctx.Query("week_start")
	weekEnd := ctx.Query("week_end")

	records, err := BlaneAPI.FetchBankingReport(weekStart, weekEnd)
	source := "live"
	if err != nil {
		logrus.WithError(err).Warn("Banking report fetch failed, falling back to local cache")
		records = c.cachedRecords(weekStart, weekEnd)
		source = "cache"
	}

	report := Reports.AggregateBankingReport(records)

	return ctx.JSON(fiber.Map{
		"report":     report,
		"week_start": weekStart,
		"week_end":   weekEnd,
		"source":     source,
		"vendors":    len(report),
	})
}

// cachedRecords converts locally synced rows back into the generic record
// form the aggregator consumes.
func (c *BankingReportController) cachedRecords(weekStart, weekEnd string) []map[string]any {
	query := c.DB.Model(&Models.VendorPayment{})
	if weekStart != "" {
		query = query.Where("booking_date >= ?", weekStart)
	}
	if weekEnd != "" {
		query = query.Where("booking_date <= ?", weekEnd)
	}

	var payments []Models.VendorPayment
	if err := query.Find(&payments).Error; err != nil {
		logrus.WithError(err).Error("Failed to load cached payments for banking report")
		return []map[string]any{}
	}

	records := make([]map[string]any, 0, len(payments))
	for _, payment := range payments {
		records = append(records, map[string]any{
			"id":               float64(payment.ID),
			"vendor_id":        float64(payment.VendorID),
			"net_amount_ttc":   payment.NetAmountTTC,
			"total_amount_ttc": payment.TotalAmountTTC,
			"vendor": map[string]any{
				"id":           float64(payment.VendorID),
				"name":         payment.VendorName,
				"company_name": payment.VendorCompany,
				"bank_name":    payment.BankName,
				"rib":          payment.RIB,
			},
		})
	}
	return records
}
