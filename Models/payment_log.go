package Models

import "gorm.io/gorm"

// PaymentLog records one status transition applied to a vendor payment
// through this service. The trail backs the /vendor-payments/logs endpoint.
type PaymentLog struct {
	gorm.Model
	PaymentID  uint   `json:"payment_id"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	Action     string `json:"action"` // mark-processed, revert, status-update, date-correction
	Note       string `json:"note"`
}
