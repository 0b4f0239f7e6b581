package Controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Blane/Models"
)

// LogController serves the status-change audit trail.
type LogController struct {
	DB *gorm.DB
}

// NewLogController creates a new LogController
func NewLogController(db *gorm.DB) *LogController {
	return &LogController{DB: db}
}

// GetPaymentLogs returns status transitions, newest first, optionally
// filtered by payment or action, paginated.
func (c *LogController) GetPaymentLogs(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.PaymentLog{})

	if id, err := strconv.Atoi(ctx.Query("payment_id")); err == nil && id > 0 {
		query = query.Where("payment_id = ?", id)
	}
	if action := ctx.Query("action"); action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	query.Count(&total)

	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(ctx.Query("page_size", "50"))
	if size < 1 {
		size = 50
	}

	var logs []Models.PaymentLog
	result := query.Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve logs"})
	}

	return ctx.JSON(fiber.Map{
		"logs":      logs,
		"total":     total,
		"page":      page,
		"page_size": size,
	})
}
