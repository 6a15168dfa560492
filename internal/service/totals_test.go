package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineTotal(t *testing.T) {
	tests := []struct {
		name       string
		quantity   int64
		unitPrice  string
		taxPercent string
		want       string
	}{
		{"basic with tax", 2, "100", "10", "220"},
		{"no tax", 3, "50", "0", "150"},
		{"zero quantity coerced to one", 0, "100", "10", "110"},
		{"negative quantity coerced to one", -5, "100", "0", "100"},
		{"negative price coerced to zero", 2, "-10", "10", "0"},
		{"negative tax coerced to zero", 2, "100", "-5", "200"},
		{"fractional price", 4, "12.50", "18", "59"},
		{"fractional tax", 1, "99.99", "2.5", "102.489750"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeLineTotal(tt.quantity, dec(tt.unitPrice), dec(tt.taxPercent))
			assert.True(t, dec(tt.want).Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestComputeOrderTotals(t *testing.T) {
	t.Run("empty lines yield zeros", func(t *testing.T) {
		totals := ComputeOrderTotals(nil, dec("18"))
		assert.True(t, totals.Subtotal.IsZero())
		assert.True(t, totals.Tax.IsZero())
		assert.True(t, totals.Total.IsZero())
	})

	t.Run("line tax overrides default", func(t *testing.T) {
		five := dec("5")
		totals := ComputeOrderTotals([]LineAmounts{
			{Quantity: dec("2"), UnitPrice: dec("100"), TaxPercent: &five},
		}, dec("18"))
		assert.True(t, dec("200").Equal(totals.Subtotal), "subtotal %s", totals.Subtotal)
		assert.True(t, dec("10").Equal(totals.Tax), "tax %s", totals.Tax)
		assert.True(t, dec("210").Equal(totals.Total), "total %s", totals.Total)
	})

	t.Run("default tax applies when line has none", func(t *testing.T) {
		totals := ComputeOrderTotals([]LineAmounts{
			{Quantity: dec("4"), UnitPrice: dec("20")},
		}, dec("6"))
		assert.True(t, dec("80").Equal(totals.Subtotal))
		assert.True(t, dec("4.8").Equal(totals.Tax))
		assert.True(t, dec("84.8").Equal(totals.Total))
	})

	t.Run("mixed tax rates sum", func(t *testing.T) {
		zero := dec("0")
		twenty := dec("20")
		totals := ComputeOrderTotals([]LineAmounts{
			{Quantity: dec("1"), UnitPrice: dec("50"), TaxPercent: &zero},
			{Quantity: dec("3"), UnitPrice: dec("10"), TaxPercent: &twenty},
		}, dec("0"))
		assert.True(t, dec("80").Equal(totals.Subtotal))
		assert.True(t, dec("6").Equal(totals.Tax))
		assert.True(t, dec("86").Equal(totals.Total))
	})

	t.Run("mixed lines sum", func(t *testing.T) {
		zero := dec("0")
		totals := ComputeOrderTotals([]LineAmounts{
			{Quantity: dec("2"), UnitPrice: dec("100")},         // default 10% -> 220
			{Quantity: dec("1"), UnitPrice: dec("50"), TaxPercent: &zero}, // 50
		}, dec("10"))
		assert.True(t, dec("250").Equal(totals.Subtotal))
		assert.True(t, dec("20").Equal(totals.Tax))
		assert.True(t, dec("270").Equal(totals.Total))
	})

	t.Run("negative amounts clamp to zero", func(t *testing.T) {
		totals := ComputeOrderTotals([]LineAmounts{
			{Quantity: dec("-3"), UnitPrice: dec("100")},
			{Quantity: dec("2"), UnitPrice: dec("-50")},
		}, dec("-18"))
		assert.True(t, totals.Total.IsZero(), "total %s", totals.Total)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		ten := dec("10")
		lines := []LineAmounts{{Quantity: dec("2"), UnitPrice: dec("100"), TaxPercent: &ten}}
		_ = ComputeOrderTotals(lines, dec("18"))
		assert.True(t, dec("10").Equal(*lines[0].TaxPercent))
		assert.True(t, dec("2").Equal(lines[0].Quantity))
	})
}
