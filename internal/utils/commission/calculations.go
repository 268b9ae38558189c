// Package commission holds the pure commission computation used at ship time.
package commission

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MarginTotal sums the margin potential over the given sale lines:
// sum((sellPrice - costAtSale) * quantity). Free-text lines carry a zero
// cost snapshot, so their full sell value counts as margin.
func MarginTotal(lines []domain.SaleLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.SellPrice.Sub(l.CostPriceAtSale).Mul(l.Quantity))
	}
	return total
}

// Compute derives a commission amount from the per-line margins and a rate
// in percent. Results at or below zero mean no commission is owed; callers
// must not record a commission row for them.
func Compute(lines []domain.SaleLine, ratePercent decimal.Decimal) decimal.Decimal {
	return MarginTotal(lines).Mul(ratePercent).Div(decimal.NewFromInt(100))
}

// Scale returns the commission reduction for a returned amount:
// returnedAmount * ratePercent / 100. Used by the return path to shrink a
// previously recorded commission proportionally.
func Scale(returnedAmount, ratePercent decimal.Decimal) decimal.Decimal {
	return returnedAmount.Mul(ratePercent).Div(decimal.NewFromInt(100))
}
