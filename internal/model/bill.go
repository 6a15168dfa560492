package model

import "github.com/shopspring/decimal"

// BillStatus enum constants
const (
	BillStatusUnpaid  = "Unpaid"
	BillStatusPaid    = "Paid"
	BillStatusOverdue = "Overdue"
)

// ValidBillStatus reports whether s is a known vendor-bill status.
func ValidBillStatus(s string) bool {
	switch s {
	case BillStatusUnpaid, BillStatusPaid, BillStatusOverdue:
		return true
	}
	return false
}

// VendorBill mirrors a row of the vendor_bills collection. PurchaseOrderID
// is a weak back-reference to the originating order: lookup only, no
// ownership. Amount is fixed from the order total at derivation time and
// evolves independently afterwards.
type VendorBill struct {
	ID              int64           `json:"id,omitempty"`
	BillNumber      string          `json:"bill_number,omitempty"`
	VendorID        int64           `json:"vendor_id,omitempty"`
	PurchaseOrderID *int64          `json:"purchase_order_id,omitempty"`
	BillDate        string          `json:"bill_date,omitempty"`
	DueDate         string          `json:"due_date,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Status          string          `json:"status,omitempty"`
	Description     string          `json:"description,omitempty"`
	CreatedAt       string          `json:"created_at,omitempty"`
}
