package cart

import (
	"github.com/shopspring/decimal"

	"github.com/fairyhunter13/pizzeria-storefront/internal/model"
)

// Pricing holds the constants used to derive totals.
type Pricing struct {
	DeliveryFee decimal.Decimal
	TaxRate     decimal.Decimal
}

// DefaultPricing is a flat 3.99 delivery fee and 10% tax.
func DefaultPricing() Pricing {
	return Pricing{
		DeliveryFee: decimal.RequireFromString("3.99"),
		TaxRate:     decimal.RequireFromString("0.10"),
	}
}

// Totals are the checkout amounts for a set of lines.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

func subtotal(lines []model.CartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

func (p Pricing) deliveryFee(lines []model.CartLine) decimal.Decimal {
	if len(lines) == 0 {
		return decimal.Zero
	}
	return p.DeliveryFee
}

// Compute derives totals for lines. Tax is rounded to cents.
func (p Pricing) Compute(lines []model.CartLine, withTax bool) Totals {
	t := Totals{
		Subtotal:    subtotal(lines),
		DeliveryFee: p.deliveryFee(lines),
		Tax:         decimal.Zero,
	}
	if withTax {
		t.Tax = t.Subtotal.Mul(p.TaxRate).Round(2)
	}
	t.Total = t.Subtotal.Add(t.DeliveryFee).Add(t.Tax)
	return t
}
