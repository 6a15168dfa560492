package service

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// OrderTotals is the summed money view of an order's line items.
type OrderTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// LineAmounts is the normalized line shape the calculator works on. A nil
// TaxPercent falls back to the order-level default.
type LineAmounts struct {
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TaxPercent *decimal.Decimal
}

// ComputeLineTotal returns quantity*unitPrice*(1+taxPercent/100).
// Inputs are defensively normalized — quantity below 1 counts as 1, money
// below zero counts as zero — so the function never fails.
func ComputeLineTotal(quantity int64, unitPrice, taxPercent decimal.Decimal) decimal.Decimal {
	if quantity < 1 {
		quantity = 1
	}
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	if taxPercent.IsNegative() {
		taxPercent = decimal.Zero
	}
	subtotal := unitPrice.Mul(decimal.NewFromInt(quantity))
	tax := subtotal.Mul(taxPercent).Div(hundred)
	return subtotal.Add(tax)
}

// ComputeOrderTotals sums subtotal and tax over the lines, using each
// line's own tax percent or defaultTaxPercent when the line lacks one.
// An empty line list yields all-zero totals.
func ComputeOrderTotals(lines []LineAmounts, defaultTaxPercent decimal.Decimal) OrderTotals {
	if defaultTaxPercent.IsNegative() {
		defaultTaxPercent = decimal.Zero
	}

	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range lines {
		qty := line.Quantity
		if qty.IsNegative() {
			qty = decimal.Zero
		}
		price := line.UnitPrice
		if price.IsNegative() {
			price = decimal.Zero
		}
		taxPct := defaultTaxPercent
		if line.TaxPercent != nil {
			taxPct = *line.TaxPercent
			if taxPct.IsNegative() {
				taxPct = decimal.Zero
			}
		}

		lineSubtotal := qty.Mul(price)
		subtotal = subtotal.Add(lineSubtotal)
		tax = tax.Add(lineSubtotal.Mul(taxPct).Div(hundred))
	}

	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}
