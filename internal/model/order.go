package model

import "github.com/shopspring/decimal"

// OrderStatus enum constants
const (
	OrderStatusDraft     = "Draft"
	OrderStatusConfirmed = "Confirmed"
	OrderStatusConverted = "Converted"
)

// ValidOrderStatus reports whether s is a known purchase-order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusConverted:
		return true
	}
	return false
}

// PurchaseOrder mirrors a row of the purchase_orders collection. The id is
// assigned by the store; optional fields carry omitempty so create payloads
// never send null values that would overwrite store defaults.
type PurchaseOrder struct {
	ID          int64           `json:"id,omitempty"`
	PONumber    string          `json:"po_number,omitempty"`
	VendorID    int64           `json:"vendor_id,omitempty"`
	PODate      string          `json:"po_date,omitempty"`
	Reference   string          `json:"reference,omitempty"`
	Status      string          `json:"status,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	CreatedAt   string          `json:"created_at,omitempty"`
}

// PurchaseOrderLine is owned by exactly one PurchaseOrder. Total is derived
// from quantity, unit price and tax percent and is never authoritative on
// its own. The store column for the unit price is named "price".
type PurchaseOrderLine struct {
	ID              int64           `json:"id,omitempty"`
	PurchaseOrderID int64           `json:"purchase_order_id,omitempty"`
	ProductID       int64           `json:"product_id,omitempty"`
	Quantity        int64           `json:"quantity,omitempty"`
	UnitPrice       decimal.Decimal `json:"price"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Total           decimal.Decimal `json:"total"`
	LineNumber      int             `json:"line_number,omitempty"`
}
