package BlaneAPI

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"Blane/Models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const paymentsPath = "/vendor-payments"

// PaymentListing is the fully enriched result of a live listing fetch:
// normalized records, pagination meta, and the name lookups built for them.
type PaymentListing struct {
	Records       []map[string]any `json:"records"`
	Meta          PaginationMeta   `json:"meta"`
	VendorNames   NameMap          `json:"vendor_names"`
	CategoryNames NameMap          `json:"category_names"`
}

// FetchVendorPayments pulls one page of payments through the shape resolver
// and enriches it with vendor and category names. Name enrichment is
// best-effort; a failed enrichment still returns the payment list.
func FetchVendorPayments(filters PaymentFilters) (*PaymentListing, error) {
	body, err := getJSON(paymentsPath, filters.Encode())
	if err != nil {
		return nil, err
	}

	env := ResolveEnvelope(body, filters.RequestedSize(10))

	vendorNames := BuildVendorNames(env.Data, nil)
	vendorNames = FetchMissingVendorNames(CollectVendorIDs(env.Data), vendorNames)

	categoryNames := BuildCategoryNames(env.Data, nil)
	categoryNames = FetchMissingCategoryNames(CollectCategoryIDs(env.Data), categoryNames)

	return &PaymentListing{
		Records:       env.Data,
		Meta:          env.Meta,
		VendorNames:   vendorNames,
		CategoryNames: categoryNames,
	}, nil
}

// FetchVendorPayment retrieves a single payment with its vendor and
// category included.
func FetchVendorPayment(id uint) (map[string]any, error) {
	params := url.Values{}
	params.Set("include", "vendor,category")

	body, err := getJSON(fmt.Sprintf("%s/%d", paymentsPath, id), params)
	if err != nil {
		return nil, err
	}
	return unwrapSingle(body), nil
}

// unwrapSingle handles the two shapes the backend uses for single records:
// the record itself, or the record nested under "data".
func unwrapSingle(body any) map[string]any {
	obj, ok := asObject(body)
	if !ok {
		return map[string]any{}
	}
	if inner, ok := asObject(obj["data"]); ok {
		return inner
	}
	return obj
}

// MarkProcessed flags a batch of payments as processed with the given
// transfer date. The server decides legality; we only relay.
func MarkProcessed(paymentIDs []uint, transferDate, note string) error {
	payload := map[string]any{
		"payment_ids":   paymentIDs,
		"transfer_date": transferDate,
	}
	if strings.TrimSpace(note) != "" {
		payload["note"] = note
	}

	_, err := putJSON(paymentsPath+"/mark-processed", payload)
	return err
}

// RevertPayment moves a processed payment back to pending.
func RevertPayment(id uint, note string) (string, error) {
	payload := map[string]any{}
	if strings.TrimSpace(note) != "" {
		payload["note"] = note
	}

	body, err := putJSON(fmt.Sprintf("%s/%d/revert", paymentsPath, id), payload)
	if err != nil {
		return "", err
	}
	return reportedStatus(body, Models.TransferPending), nil
}

// UpdateTransferStatus sets an explicit transfer status on one payment.
func UpdateTransferStatus(id uint, status string) (string, error) {
	body, err := putJSON(fmt.Sprintf("%s/%d/status", paymentsPath, id), map[string]any{
		"transfer_status": status,
	})
	if err != nil {
		return "", err
	}
	return reportedStatus(body, status), nil
}

// CorrectPaymentDates fixes the payment and transfer dates on one payment.
func CorrectPaymentDates(id uint, paymentDate, transferDate string) error {
	payload := map[string]any{}
	if strings.TrimSpace(paymentDate) != "" {
		payload["payment_date"] = paymentDate
	}
	if strings.TrimSpace(transferDate) != "" {
		payload["transfer_date"] = transferDate
	}

	_, err := putJSON(fmt.Sprintf("%s/%d", paymentsPath, id), payload)
	return err
}

// reportedStatus extracts the transfer status the server says the payment
// now has. The client reflects whatever comes back rather than assuming
// the transition happened.
func reportedStatus(body any, fallback string) string {
	record := unwrapSingle(body)
	if status := strings.TrimSpace(fieldString(record, "transfer_status")); status != "" {
		return status
	}
	return fallback
}

// FetchBankingReport pulls the per-week banking report payload.
func FetchBankingReport(weekStart, weekEnd string) ([]map[string]any, error) {
	params := url.Values{}
	if strings.TrimSpace(weekStart) != "" {
		params.Set("week_start", weekStart)
	}
	if strings.TrimSpace(weekEnd) != "" {
		params.Set("week_end", weekEnd)
	}

	body, err := getJSON(paymentsPath+"/banking-report", params)
	if err != nil {
		return nil, err
	}
	env := ResolveEnvelope(body, 0)
	return env.Data, nil
}

// FetchExport downloads a remote export blob (excel or pdf).
func FetchExport(format string, filters PaymentFilters) ([]byte, string, error) {
	return getBinary(paymentsPath+"/export/"+format, filters.Encode())
}

// SyncVendorPayments fetches the last week of payments and stores unseen
// ones locally, enriching each row with resolved names before storage.
func SyncVendorPayments() (int, error) {
	logrus.Info("Starting vendor payment sync")

	now := time.Now()
	filters := PaymentFilters{
		StartDate:      now.AddDate(0, 0, -7).Format("2006-01-02"),
		EndDate:        now.Format("2006-01-02"),
		PaginationSize: "1000",
	}

	listing, err := FetchVendorPayments(filters)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch payments for sync: %w", err)
	}

	logrus.Infof("Fetched %d payments from Blane API", len(listing.Records))

	payments := make([]Models.VendorPayment, 0, len(listing.Records))
	for _, record := range listing.Records {
		payment := RecordFromMap(record)
		if payment.ID == 0 {
			logrus.Debugf("Skipping payment record without an id: %v", record)
			continue
		}
		if payment.VendorName == "" {
			payment.VendorName = VendorDisplayName(listing.VendorNames, payment.VendorID)
		}
		if payment.CategoryName == "" && payment.CategoryID > 0 {
			payment.CategoryName = CategoryDisplayName(listing.CategoryNames, payment.CategoryID)
		}
		payments = append(payments, payment)
	}

	stored, err := StoreUniqueVendorPayments(payments)
	if err != nil {
		return 0, err
	}
	return stored, nil
}

// StoreUniqueVendorPayments stores payments that are not yet known locally,
// skipping duplicates by remote id. Runs in one transaction.
func StoreUniqueVendorPayments(payments []Models.VendorPayment) (int, error) {
	if len(payments) == 0 {
		logrus.Info("No payments to store")
		return 0, nil
	}

	stored := 0
	skipped := 0

	tx := Models.DB.Begin()
	if tx.Error != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logrus.Errorf("Payment sync transaction rolled back due to panic: %v", r)
		}
	}()

	for _, payment := range payments {
		var existing Models.VendorPayment
		err := tx.Where("id = ?", payment.ID).First(&existing).Error

		if err == nil {
			skipped++
			continue
		}
		if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			return 0, fmt.Errorf("database error for payment ID %d: %w", payment.ID, err)
		}

		payment.IsSynced = true
		if err := tx.Create(&payment).Error; err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to create payment ID %d: %w", payment.ID, err)
		}
		stored++
	}

	if err := tx.Commit().Error; err != nil {
		return 0, fmt.Errorf("failed to commit payment sync: %w", err)
	}

	logrus.Infof("Payment sync complete: %d stored, %d already known", stored, skipped)
	return stored, nil
}

// RecordFromMap converts one resolved record into the local model. Amounts
// stay as strings; numeric JSON values are formatted back into strings so
// both upstream encodings land in the same column type.
func RecordFromMap(record map[string]any) Models.VendorPayment {
	var payment Models.VendorPayment

	if id, ok := toInt(record["id"]); ok && id > 0 {
		payment.ID = uint(id)
	}
	if vendorID, ok := toInt(record["vendor_id"]); ok {
		payment.VendorID = vendorID
	}
	if categoryID, ok := toInt(record["category_id"]); ok {
		payment.CategoryID = categoryID
	}

	if sub, ok := asObject(record["vendor"]); ok {
		if id, ok := toInt(sub["id"]); ok && payment.VendorID == 0 {
			payment.VendorID = id
		}
		payment.VendorName = strings.TrimSpace(fieldString(sub, "name"))
		payment.VendorCompany = strings.TrimSpace(fieldString(sub, "company_name"))
		payment.BankName = strings.TrimSpace(fieldString(sub, "bank_name"))
		payment.RIB = strings.TrimSpace(fieldString(sub, "rib"))
	}
	if sub, ok := asObject(record["category"]); ok {
		if id, ok := toInt(sub["id"]); ok && payment.CategoryID == 0 {
			payment.CategoryID = id
		}
		payment.CategoryName = strings.TrimSpace(fieldString(sub, "name"))
	}

	payment.TotalAmount = amountString(record["total_amount"])
	payment.CommissionAmount = amountString(record["commission_amount"])
	payment.CommissionVAT = amountString(record["commission_vat"])
	payment.NetAmount = amountString(record["net_amount"])
	payment.NetAmountTTC = amountString(record["net_amount_ttc"])
	payment.TotalAmountTTC = amountString(record["total_amount_ttc"])

	payment.TransferStatus = fieldString(record, "transfer_status")
	payment.PaymentType = fieldString(record, "payment_type")
	payment.BookingDate = fieldString(record, "booking_date")
	payment.PaymentDate = fieldString(record, "payment_date")
	payment.TransferDate = fieldString(record, "transfer_date")
	payment.Note = fieldString(record, "note")

	return payment
}

func amountString(v any) string {
	switch amount := v.(type) {
	case string:
		return strings.TrimSpace(amount)
	case float64:
		return strconv.FormatFloat(amount, 'f', -1, 64)
	default:
		return ""
	}
}
