package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Blane/Models"
	"Blane/Reports"
)

// AnalyticsController handles the dashboard and weekly-summary endpoints,
// both computed from locally synced payments.
type AnalyticsController struct {
	DB *gorm.DB
}

// NewAnalyticsController creates a new AnalyticsController
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{DB: db}
}

// Dashboard returns payment counts per transfer status plus overall totals.
func (c *AnalyticsController) Dashboard(ctx *fiber.Ctx) error {
	var total, pending, processed, complete int64

	c.DB.Model(&Models.VendorPayment{}).Count(&total)
	c.DB.Model(&Models.VendorPayment{}).Where("transfer_status = ?", Models.TransferPending).Count(&pending)
	c.DB.Model(&Models.VendorPayment{}).Where("transfer_status = ?", Models.TransferProcessed).Count(&processed)
	c.DB.Model(&Models.VendorPayment{}).Where("transfer_status = ?", Models.TransferComplete).Count(&complete)

	var vendors int64
	c.DB.Model(&Models.VendorPayment{}).Distinct("vendor_id").Count(&vendors)

	return ctx.JSON(fiber.Map{
		"total_payments": total,
		"pending":        pending,
		"processed":      processed,
		"complete":       complete,
		"vendors":        vendors,
	})
}

// WeeklySummary rolls up locally synced payments by ISO week.
func (c *AnalyticsController) WeeklySummary(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.VendorPayment{})
	if start := ctx.Query("start_date"); start != "" {
		query = query.Where("booking_date >= ?", start)
	}
	if end := ctx.Query("end_date"); end != "" {
		query = query.Where("booking_date <= ?", end)
	}

	var payments []Models.VendorPayment
	if result := query.Find(&payments); result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	summary := Reports.SummarizeByWeek(payments)

	return ctx.JSON(fiber.Map{
		"weeks":          summary,
		"total_payments": len(payments),
	})
}
