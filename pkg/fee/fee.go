// Package fee computes payment amounts. Pure functions, no side
// effects, single currency.
package fee

import (
	"github.com/shopspring/decimal"
)

// AdminFeeRate is the platform surcharge, 2% of the subtotal.
var AdminFeeRate = decimal.NewFromFloat(0.02)

// AdminFeeCap bounds the surcharge at 5000 currency units. The cap
// makes the fee non-linear: amounts at or above 250000 all pay 5000.
var AdminFeeCap = decimal.NewFromInt(5000)

// LineItem is the input to Subtotal.
type LineItem struct {
	Quantity int
	Price    decimal.Decimal
}

// Subtotal sums quantity*price over all items. Rounding to 2 decimal
// places happens once on the final sum, not per item, so per-item
// accumulation drift cannot occur.
func Subtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return sum.Round(2)
}

// AdminFee returns round(min(amount*0.02, 5000), 2). Zero amount
// yields zero fee; the result is never negative.
func AdminFee(amount decimal.Decimal) decimal.Decimal {
	if amount.Sign() <= 0 {
		return decimal.Zero.Round(2)
	}
	f := amount.Mul(AdminFeeRate)
	if f.GreaterThan(AdminFeeCap) {
		f = AdminFeeCap
	}
	return f.Round(2)
}

// Total returns round(amount+fee, 2).
func Total(amount, adminFee decimal.Decimal) decimal.Decimal {
	return amount.Add(adminFee).Round(2)
}
