package model

import "github.com/shopspring/decimal"

// Product mirrors a row of the products collection. TaxPercent is the
// default tax applied to order lines when the caller does not override it.
type Product struct {
	ID            int64           `json:"id,omitempty"`
	Name          string          `json:"name,omitempty"`
	SKU           string          `json:"sku,omitempty"`
	HSNCode       string          `json:"hsn_code,omitempty"`
	Price         decimal.Decimal `json:"price"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	StockQuantity int64           `json:"stock_quantity,omitempty"`
	Status        string          `json:"status,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
}
