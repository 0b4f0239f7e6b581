package FiberConfig

import (
	"fmt"
	"log"

	"Blane/Constants"
	"Blane/Controllers"
	"Blane/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	paymentController := Controllers.NewPaymentController(db)
	bankingReportController := Controllers.NewBankingReportController(db)
	analyticsController := Controllers.NewAnalyticsController(db)
	exportController := Controllers.NewExportController(db)
	logController := Controllers.NewLogController(db)

	// API group
	api := app.Group("/api")

	// Vendor payment routes
	payments := api.Group("/vendor-payments")
	payments.Get("/", paymentController.GetVendorPayments)
	payments.Get("/cached", paymentController.GetCachedPayments)

	// Fixed-path routes BEFORE the :id routes to avoid conflicts
	payments.Put("/mark-processed", paymentController.MarkProcessed)
	payments.Get("/export/excel", exportController.ExportExcel)
	payments.Get("/export/pdf", exportController.ExportPDF)
	payments.Get("/banking-report", bankingReportController.GetBankingReport)
	payments.Get("/logs", logController.GetPaymentLogs)
	payments.Get("/dashboard", analyticsController.Dashboard)
	payments.Get("/weekly-summary", analyticsController.WeeklySummary)
	payments.Post("/sync", paymentController.SyncNow)

	// ID-based routes
	payments.Get("/:id", paymentController.GetVendorPayment)
	payments.Put("/:id/revert", paymentController.RevertPayment)
	payments.Put("/:id/status", paymentController.UpdateTransferStatus)
	payments.Put("/:id", paymentController.CorrectPaymentDates)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func FiberConfig(db *gorm.DB) {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*", // Allow all origins
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300, // Max age for preflight requests caching (5 minutes)
	}))

	SetupRoutes(app, db)

	if err := app.Listen(Constants.AppAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
