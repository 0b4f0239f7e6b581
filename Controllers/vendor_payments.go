package Controllers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"Blane/BlaneAPI"
	"Blane/Models"
)

var validate = validator.New()

// PaymentController handles the vendor-payment admin endpoints.
type PaymentController struct {
	DB *gorm.DB
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{DB: db}
}

// GetVendorPayments fetches a live page of payments from the Blane API,
// normalized and enriched with vendor/category names.
func (c *PaymentController) GetVendorPayments(ctx *fiber.Ctx) error {
	filters := filtersFromQuery(ctx)

	listing, err := BlaneAPI.FetchVendorPayments(filters)
	if err != nil {
		return renderAPIError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"data":           listing.Records,
		"meta":           listing.Meta,
		"vendor_names":   listing.VendorNames,
		"category_names": listing.CategoryNames,
	})
}

// GetCachedPayments serves locally synced payments with the same filter
// vocabulary as the live endpoint. Useful when the upstream is down.
func (c *PaymentController) GetCachedPayments(ctx *fiber.Ctx) error {
	query := c.DB.Model(&Models.VendorPayment{})

	if id, err := strconv.Atoi(ctx.Query("vendor_id")); err == nil && id > 0 {
		query = query.Where("vendor_id = ?", id)
	}
	if id, err := strconv.Atoi(ctx.Query("category_id")); err == nil && id > 0 {
		query = query.Where("category_id = ?", id)
	}
	if status := ctx.Query("transfer_status"); status != "" {
		query = query.Where("transfer_status = ?", status)
	}
	if paymentType := ctx.Query("payment_type"); paymentType != "" {
		query = query.Where("payment_type = ?", paymentType)
	}
	if start := ctx.Query("start_date"); start != "" {
		query = query.Where("booking_date >= ?", start)
	}
	if end := ctx.Query("end_date"); end != "" {
		query = query.Where("booking_date <= ?", end)
	}
	if search := ctx.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("vendor_name LIKE ? OR vendor_company LIKE ?", like, like)
	}

	var total int64
	query.Count(&total)

	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(ctx.Query("pagination_size", "25"))
	if size < 1 {
		size = 25
	}

	var payments []Models.VendorPayment
	result := query.Order("booking_date DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&payments)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	lastPage := int((total + int64(size) - 1) / int64(size))
	if lastPage < 1 {
		lastPage = 1
	}

	return ctx.JSON(fiber.Map{
		"data": payments,
		"meta": BlaneAPI.PaginationMeta{
			Total:       int(total),
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     size,
			From:        (page-1)*size + 1,
			To:          (page-1)*size + len(payments),
		},
	})
}

// GetVendorPayment retrieves a single payment from the Blane API with its
// vendor and category included.
func (c *PaymentController) GetVendorPayment(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	record, err := BlaneAPI.FetchVendorPayment(uint(id))
	if err != nil {
		return renderAPIError(ctx, err)
	}

	return ctx.JSON(record)
}

// MarkProcessedInput is the bulk mark-processed request body.
type MarkProcessedInput struct {
	PaymentIDs   []uint `json:"payment_ids" validate:"required,min=1,dive,gt=0"`
	TransferDate string `json:"transfer_date" validate:"required,datetime=2006-01-02"`
	Note         string `json:"note"`
}

// MarkProcessed flags a batch of payments as processed. The remote API is
// the authority; local rows only reflect what it accepted.
func (c *PaymentController) MarkProcessed(ctx *fiber.Ctx) error {
	var input MarkProcessedInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	if err := BlaneAPI.MarkProcessed(input.PaymentIDs, input.TransferDate, input.Note); err != nil {
		return renderAPIError(ctx, err)
	}

	for _, paymentID := range input.PaymentIDs {
		c.reflectStatus(paymentID, Models.TransferProcessed, "mark-processed", input.Note, input.TransferDate)
	}

	return ctx.JSON(fiber.Map{
		"message": "Payments marked as processed",
		"count":   len(input.PaymentIDs),
	})
}

// RevertPayment moves a processed payment back to pending with an optional
// note.
func (c *PaymentController) RevertPayment(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var input struct {
		Note string `json:"note"`
	}
	// The note is optional and so is the body itself.
	_ = ctx.BodyParser(&input)

	status, err := BlaneAPI.RevertPayment(uint(id), input.Note)
	if err != nil {
		return renderAPIError(ctx, err)
	}

	c.reflectStatus(uint(id), status, "revert", input.Note, "")

	return ctx.JSON(fiber.Map{
		"message":         "Payment reverted",
		"transfer_status": status,
	})
}

// UpdateTransferStatus sets an explicit transfer status on one payment.
func (c *PaymentController) UpdateTransferStatus(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var input struct {
		TransferStatus string `json:"transfer_status" validate:"required,oneof=pending processed complete"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationMessage(err)})
	}

	status, err := BlaneAPI.UpdateTransferStatus(uint(id), input.TransferStatus)
	if err != nil {
		return renderAPIError(ctx, err)
	}

	c.reflectStatus(uint(id), status, "status-update", "", "")

	return ctx.JSON(fiber.Map{
		"message":         "Transfer status updated",
		"transfer_status": status,
	})
}

// CorrectPaymentDates fixes payment/transfer dates on one payment.
func (c *PaymentController) CorrectPaymentDates(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid payment ID"})
	}

	var input struct {
		PaymentDate  string `json:"payment_date"`
		TransferDate string `json:"transfer_date"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.PaymentDate == "" && input.TransferDate == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "At least one of payment_date, transfer_date is required"})
	}

	if err := BlaneAPI.CorrectPaymentDates(uint(id), input.PaymentDate, input.TransferDate); err != nil {
		return renderAPIError(ctx, err)
	}

	updates := map[string]any{}
	if input.PaymentDate != "" {
		updates["payment_date"] = input.PaymentDate
	}
	if input.TransferDate != "" {
		updates["transfer_date"] = input.TransferDate
	}
	c.DB.Model(&Models.VendorPayment{}).Where("id = ?", id).Updates(updates)
	c.DB.Create(&Models.PaymentLog{
		PaymentID: uint(id),
		Action:    "date-correction",
	})

	return ctx.JSON(fiber.Map{"message": "Payment dates corrected"})
}

// SyncNow triggers an immediate sync from the Blane API.
func (c *PaymentController) SyncNow(ctx *fiber.Ctx) error {
	stored, err := BlaneAPI.SyncVendorPayments()
	if err != nil {
		return renderAPIError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"message": "Sync complete",
		"stored":  stored,
	})
}

// reflectStatus mirrors a server-confirmed status change onto the local
// cache and records the transition in the audit log. Local rows may be
// missing if the payment was never synced; that is not an error.
func (c *PaymentController) reflectStatus(paymentID uint, status, action, note, transferDate string) {
	var payment Models.VendorPayment
	fromStatus := ""
	if err := c.DB.First(&payment, paymentID).Error; err == nil {
		fromStatus = payment.TransferStatus
		updates := map[string]any{"transfer_status": status}
		if transferDate != "" {
			updates["transfer_date"] = transferDate
		}
		if err := c.DB.Model(&payment).Updates(updates).Error; err != nil {
			logrus.WithError(err).Warnf("Failed to reflect status on local payment %d", paymentID)
		}
	}

	if err := c.DB.Create(&Models.PaymentLog{
		PaymentID:  paymentID,
		FromStatus: fromStatus,
		ToStatus:   status,
		Action:     action,
		Note:       note,
	}).Error; err != nil {
		logrus.WithError(err).Warnf("Failed to write payment log for payment %d", paymentID)
	}
}

func filtersFromQuery(ctx *fiber.Ctx) BlaneAPI.PaymentFilters {
	page, _ := strconv.Atoi(ctx.Query("page"))
	return BlaneAPI.PaymentFilters{
		VendorID:       ctx.Query("vendor_id"),
		TransferStatus: ctx.Query("transfer_status"),
		PaymentType:    ctx.Query("payment_type"),
		CategoryID:     ctx.Query("category_id"),
		StartDate:      ctx.Query("start_date"),
		EndDate:        ctx.Query("end_date"),
		WeekStart:      ctx.Query("week_start"),
		WeekEnd:        ctx.Query("week_end"),
		Search:         ctx.Query("search"),
		SortBy:         ctx.Query("sort_by"),
		SortOrder:      ctx.Query("sort_order"),
		PaginationSize: ctx.Query("pagination_size"),
		Page:           page,
	}
}

// renderAPIError maps upstream failures onto admin responses. Validation
// errors keep their field messages; transport failures surface as 502 so
// the UI can tell "backend rejected it" from "backend unreachable".
func renderAPIError(ctx *fiber.Ctx, err error) error {
	var apiErr *BlaneAPI.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.Status
		if status < 400 {
			status = fiber.StatusBadGateway
		}
		payload := fiber.Map{"error": apiErr.Message}
		if len(apiErr.Fields) > 0 {
			payload["fields"] = apiErr.Fields
		}
		return ctx.Status(status).JSON(payload)
	}
	logrus.WithError(err).Error("Blane API request failed")
	return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}

func validationMessage(err error) string {
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		messages := make([]string, 0, len(invalid))
		for _, fieldErr := range invalid {
			messages = append(messages, fieldErr.Field()+" failed "+fieldErr.Tag()+" validation")
		}
		return strings.Join(messages, "; ")
	}
	return err.Error()
}
