package Models

import "gorm.io/gorm"

// Transfer statuses as reported by the Blane backend.
const (
	TransferPending   = "pending"
	TransferProcessed = "processed"
	TransferComplete  = "complete"
)

// Payment types.
const (
	PaymentFull    = "full"
	PaymentPartial = "partial"
)

// VendorPayment is one vendor settlement line as synced from the Blane API.
// Monetary fields are kept as strings because the upstream serializes amounts
// inconsistently (sometimes numbers, sometimes quoted strings).
type VendorPayment struct {
	gorm.Model
	VendorID         int    `json:"vendor_id"`
	CategoryID       int    `json:"category_id"`
	TotalAmount      string `json:"total_amount"`
	CommissionAmount string `json:"commission_amount"`
	CommissionVAT    string `json:"commission_vat"`
	NetAmount        string `json:"net_amount"`
	NetAmountTTC     string `json:"net_amount_ttc"`
	TotalAmountTTC   string `json:"total_amount_ttc"`
	TransferStatus   string `json:"transfer_status"`
	PaymentType      string `json:"payment_type"`
	BookingDate      string `json:"booking_date"`
	PaymentDate      string `json:"payment_date"`
	TransferDate     string `json:"transfer_date"`
	VendorName       string `json:"vendor_name"`
	VendorCompany    string `json:"vendor_company"`
	CategoryName     string `json:"category_name"`
	BankName         string `json:"bank_name"`
	RIB              string `json:"rib"`
	Note             string `json:"note"`
	IsSynced         bool   `json:"is_synced"`
}

// IsRevertible reports whether the revert action should be offered for this
// payment. Only processed payments can be moved back to pending; the server
// remains the authority on whether the transition is actually legal.
func (p *VendorPayment) IsRevertible() bool {
	return p.TransferStatus == TransferProcessed
}
