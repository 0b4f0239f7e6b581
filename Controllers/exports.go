package Controllers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/phpdave11/gofpdf"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"Blane/BlaneAPI"
	"Blane/Models"
)

// ExportController produces downloadable payment exports. By default the
// files are generated from locally synced rows; ?source=remote proxies the
// upstream export blob instead.
type ExportController struct {
	DB *gorm.DB
}

// NewExportController creates a new ExportController
func NewExportController(db *gorm.DB) *ExportController {
	return &ExportController{DB: db}
}

// ExportExcel generates an xlsx workbook of the filtered payments.
func (c *ExportController) ExportExcel(ctx *fiber.Ctx) error {
	if ctx.Query("source") == "remote" {
		return c.proxyRemoteExport(ctx, "excel")
	}

	payments, err := c.filteredPayments(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	buf, err := paymentsToExcel(payments)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("vendor-payments-%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}

// ExportPDF generates a PDF table of the filtered payments.
func (c *ExportController) ExportPDF(ctx *fiber.Ctx) error {
	if ctx.Query("source") == "remote" {
		return c.proxyRemoteExport(ctx, "pdf")
	}

	payments, err := c.filteredPayments(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve payments"})
	}

	buf, err := paymentsToPDF(payments)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := fmt.Sprintf("vendor-payments-%s.pdf", time.Now().Format("2006-01-02"))
	ctx.Set("Content-Type", "application/pdf")
	ctx.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return ctx.Send(buf.Bytes())
}

func (c *ExportController) proxyRemoteExport(ctx *fiber.Ctx, format string) error {
	data, contentType, err := BlaneAPI.FetchExport(format, filtersFromQuery(ctx))
	if err != nil {
		return renderAPIError(ctx, err)
	}
	if contentType != "" {
		ctx.Set("Content-Type", contentType)
	}
	return ctx.Send(data)
}

func (c *ExportController) filteredPayments(ctx *fiber.Ctx) ([]Models.VendorPayment, error) {
	query := c.DB.Model(&Models.VendorPayment{})

	if status := ctx.Query("transfer_status"); status != "" {
		query = query.Where("transfer_status = ?", status)
	}
	if start := ctx.Query("start_date"); start != "" {
		query = query.Where("booking_date >= ?", start)
	}
	if end := ctx.Query("end_date"); end != "" {
		query = query.Where("booking_date <= ?", end)
	}

	var payments []Models.VendorPayment
	err := query.Order("booking_date DESC").Find(&payments).Error
	return payments, err
}

func paymentsToExcel(payments []Models.VendorPayment) (*bytes.Buffer, error) {
	f := excelize.NewFile()

	sheetName := "Payments"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Vendor", "Company", "Bank", "RIB", "Booking Date",
		"Payment Date", "Transfer Date", "Status", "Type",
		"Total", "Commission", "Commission VAT", "Net TTC",
	}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, payment := range payments {
		row := rowIndex + 2

		values := []interface{}{
			payment.ID,
			payment.VendorName,
			payment.VendorCompany,
			payment.BankName,
			payment.RIB,
			payment.BookingDate,
			payment.PaymentDate,
			payment.TransferDate,
			payment.TransferStatus,
			payment.PaymentType,
			payment.TotalAmount,
			payment.CommissionAmount,
			payment.CommissionVAT,
			payment.NetAmountTTC,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := 0; i < len(headers); i++ {
		f.SetColWidth(sheetName, string('A'+rune(i)), string('A'+rune(i)), 15)
	}

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %v", err)
	}
	return &buf, nil
}

func paymentsToPDF(payments []Models.VendorPayment) (*bytes.Buffer, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "Vendor Payments")
	pdf.Ln(12)

	headers := []string{"ID", "Vendor", "Booking", "Transfer", "Status", "Type", "Net TTC"}
	widths := []float64{15, 70, 30, 30, 28, 22, 30}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 250)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, payment := range payments {
		cells := []string{
			fmt.Sprintf("%d", payment.ID),
			payment.VendorName,
			payment.BookingDate,
			payment.TransferDate,
			payment.TransferStatus,
			payment.PaymentType,
			payment.NetAmountTTC,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("error writing PDF to buffer: %v", err)
	}
	return &buf, nil
}
