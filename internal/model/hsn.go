package model

import "github.com/shopspring/decimal"

// HSNRecord mirrors a row of the hsn_cache collection — HSN codes with
// their GST rates, used to suggest tax percentages on products.
type HSNRecord struct {
	ID          int64           `json:"id,omitempty"`
	HSNCode     string          `json:"hsn_code,omitempty"`
	Description string          `json:"description,omitempty"`
	GSTRate     decimal.Decimal `json:"gst_rate"`
	CreatedAt   string          `json:"created_at,omitempty"`
}
