package model

import "github.com/shopspring/decimal"

// PaymentMethod enum constants
const (
	PaymentMethodCash   = "Cash"
	PaymentMethodBank   = "Bank Transfer"
	PaymentMethodCheque = "Cheque"
	PaymentMethodUPI    = "UPI"
)

// Payment mirrors a row of the payments collection. VendorBillID optionally
// links the payment to the bill it settles.
type Payment struct {
	ID            int64           `json:"id,omitempty"`
	PaymentNumber string          `json:"payment_number,omitempty"`
	VendorID      int64           `json:"vendor_id,omitempty"`
	VendorBillID  *int64          `json:"vendor_bill_id,omitempty"`
	PaymentDate   string          `json:"payment_date,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method,omitempty"`
	Reference     string          `json:"reference,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
}
