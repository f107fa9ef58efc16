package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

func line(price, discounted float64, qty int) LineItem {
	item := LineItem{
		ProductID: uuid.New(),
		Name:      "منتج",
		Quantity:  qty,
		BasePrice: types.MoneyFromFloat(price),
	}
	if discounted >= 0 {
		item.DiscountedPrice = types.MoneyFromFloat(discounted)
		item.IsDiscounted = discounted < price
	}
	return item
}

func TestCalculateTotals_EmptyCart(t *testing.T) {
	totals := CalculateTotals(Cart{})

	assert.Equal(t, "0.00", totals.Subtotal.String())
	assert.Equal(t, "0.00", totals.DiscountedSubtotal.String())
	assert.Equal(t, "0.00", totals.CouponDiscount.String())
	assert.Equal(t, "0.00", totals.Total.String())
	assert.Zero(t, totals.ItemCount)
}

func TestCalculateTotals_DiscountsAndCoupon(t *testing.T) {
	c := Cart{
		Items: []LineItem{
			line(500, 400, 2),
			line(100, -1, 1),
		},
		Coupon: &Coupon{Code: "SAVE10", DiscountPercentage: 10, Applied: true},
	}

	totals := CalculateTotals(c)

	assert.Equal(t, "1100.00", totals.Subtotal.String())
	assert.Equal(t, "900.00", totals.DiscountedSubtotal.String())
	assert.Equal(t, "90.00", totals.CouponDiscount.String())
	assert.Equal(t, "810.00", totals.Total.String())
	assert.Equal(t, 3, totals.ItemCount)
}

func TestCalculateTotals_RoundsAfterSummation(t *testing.T) {
	c := Cart{Items: []LineItem{
		line(19.99, 16.9915, 1),
		line(19.99, 16.9915, 1),
		line(19.99, 16.9915, 1),
	}}

	totals := CalculateTotals(c)

	// 3 * 16.9915 = 50.9745 rounds once at the end, not per line.
	assert.Equal(t, "50.97", totals.DiscountedSubtotal.String())
}

func TestCalculateTotals_CouponPercentageClampedToHundred(t *testing.T) {
	c := Cart{
		Items:  []LineItem{line(80, -1, 1)},
		Coupon: &Coupon{Code: "FREE", DiscountPercentage: 250, Applied: true},
	}

	totals := CalculateTotals(c)

	assert.Equal(t, "80.00", totals.CouponDiscount.String())
	assert.Equal(t, "0.00", totals.Total.String())
}

func TestCalculateTotals_NegativeCouponPercentageIgnored(t *testing.T) {
	c := Cart{
		Items:  []LineItem{line(50, -1, 1)},
		Coupon: &Coupon{Code: "ODD", DiscountPercentage: -10, Applied: true},
	}

	totals := CalculateTotals(c)

	assert.Equal(t, "0.00", totals.CouponDiscount.String())
	assert.Equal(t, "50.00", totals.Total.String())
}

func TestCalculateTotals_CouponOnEmptyCartDiscountsNothing(t *testing.T) {
	c := Cart{Coupon: &Coupon{Code: "SAVE10", DiscountPercentage: 10, Applied: true}}

	totals := CalculateTotals(c)

	assert.Equal(t, "0.00", totals.CouponDiscount.String())
	assert.Equal(t, "0.00", totals.Total.String())
}

func TestCalculateTotals_MalformedLinesContributeZero(t *testing.T) {
	negative := line(-20, -1, 2)
	zeroQty := line(100, -1, 0)
	c := Cart{Items: []LineItem{negative, zeroQty, line(10, -1, 1)}}

	totals := CalculateTotals(c)

	assert.Equal(t, "10.00", totals.Subtotal.String())
	assert.Equal(t, "10.00", totals.Total.String())
	assert.Equal(t, 3, totals.ItemCount)
}

func TestCalculateTotals_TotalNeverExceedsDiscountedSubtotal(t *testing.T) {
	c := Cart{
		Items:  []LineItem{line(120, 99.99, 3)},
		Coupon: &Coupon{Code: "SAVE15", DiscountPercentage: 15, Applied: true},
	}

	totals := CalculateTotals(c)

	assert.True(t, totals.Total.Decimal().LessThanOrEqual(totals.DiscountedSubtotal.Decimal()))
	assert.False(t, totals.Total.Decimal().IsNegative())
}

func TestCalculateTotals_Idempotent(t *testing.T) {
	c := Cart{
		Items:  []LineItem{line(75.5, 60.4, 2)},
		Coupon: &Coupon{Code: "SAVE5", DiscountPercentage: 5, Applied: true},
	}

	first := CalculateTotals(c)
	second := CalculateTotals(c)

	assert.Equal(t, first, second)
}
