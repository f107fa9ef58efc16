package cart

import (
	"github.com/shopspring/decimal"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// Totals is the derived money summary of a cart. Every field carries two
// decimal places and rounding happens after summation, not per line.
type Totals struct {
	Subtotal           types.Money `json:"subtotal"`
	DiscountedSubtotal types.Money `json:"discounted_subtotal"`
	CouponDiscount     types.Money `json:"coupon_discount"`
	Total              types.Money `json:"total"`
	ItemCount          int         `json:"item_count"`
}

// CalculateTotals derives the money summary for a cart. It is a pure
// function: same cart in, same totals out, no mutation of the input.
// Lines with a non-positive quantity or negative prices contribute zero.
func CalculateTotals(c Cart) Totals {
	subtotal := decimal.Zero
	discounted := decimal.Zero
	count := 0

	for _, item := range c.Items {
		if item.Quantity < 1 {
			continue
		}
		qty := decimal.NewFromInt(int64(item.Quantity))

		base := item.BasePrice.Decimal()
		if base.IsNegative() {
			base = decimal.Zero
		}
		unit := item.DiscountedPrice.Decimal()
		if !item.DiscountedPrice.IsSet() || unit.IsNegative() {
			unit = base
		}

		subtotal = subtotal.Add(base.Mul(qty))
		discounted = discounted.Add(unit.Mul(qty))
		count += item.Quantity
	}

	subtotal = subtotal.Round(2)
	discounted = discounted.Round(2)

	couponCut := decimal.Zero
	if c.Coupon != nil && c.Coupon.Applied && discounted.IsPositive() {
		pct := decimal.NewFromFloat(c.Coupon.DiscountPercentage)
		if pct.IsNegative() {
			pct = decimal.Zero
		}
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		couponCut = discounted.Mul(pct).Div(hundred).Round(2)
	}

	total := discounted.Sub(couponCut)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal:           types.NewMoney(subtotal),
		DiscountedSubtotal: types.NewMoney(discounted),
		CouponDiscount:     types.NewMoney(couponCut),
		Total:              types.NewMoney(total),
		ItemCount:          count,
	}
}
