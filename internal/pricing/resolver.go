package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// ProductInput is the loose product shape pricing resolution accepts. Any
// discount field may be absent; numeric strings and garbage coerce through
// types.Money instead of failing.
//
// Two price fields exist because legacy records store the discounted value in
// "price" and the pre-discount value in "originalPrice", while normalized
// records carry "price" plus explicit discount fields.
type ProductInput struct {
	Price              types.Money `json:"price"`
	OriginalPrice      types.Money `json:"originalPrice"`
	DiscountPercentage types.Money `json:"discountPercentage"`
	DiscountedPrice    types.Money `json:"discountedPrice"`
	IsDiscounted       bool        `json:"isDiscounted"`
}

// Resolved is the canonical pricing tuple every cart line is built from.
type Resolved struct {
	Price              decimal.Decimal
	DiscountedPrice    decimal.Decimal
	IsDiscounted       bool
	DiscountPercentage decimal.Decimal
}

// FromModel adapts a catalog row into resolver input.
func FromModel(p models.Product) ProductInput {
	in := ProductInput{
		Price:              p.Price,
		IsDiscounted:       p.IsDiscounted,
		DiscountPercentage: types.MoneyFromFloat(p.DiscountPercentage),
	}
	if p.OriginalPrice.IsSet() {
		in.OriginalPrice = p.OriginalPrice
	}
	if p.DiscountedPrice.IsSet() {
		in.DiscountedPrice = p.DiscountedPrice
	}
	return in
}

// Resolve reconciles the discount flag and numeric evidence into a canonical
// tuple. Deterministic and side-effect free; never fails, since malformed
// values have already been coerced to zero by types.Money.
func Resolve(in ProductInput) Resolved {
	price := in.Price.Decimal()
	if in.OriginalPrice.IsSet() {
		price = in.OriginalPrice.Decimal()
	}
	raw := in.DiscountPercentage.Decimal()

	var discounted decimal.Decimal
	switch {
	case in.DiscountedPrice.IsSet():
		discounted = in.DiscountedPrice.Decimal()
	case in.IsDiscounted && in.OriginalPrice.IsSet() && in.Price.IsSet():
		// Legacy shape: "price" already holds the discounted value.
		discounted = in.Price.Decimal()
	case in.IsDiscounted && raw.IsPositive():
		discounted = price.Sub(price.Mul(raw).Div(hundred)).Round(2)
	default:
		discounted = price
	}

	// Some sources send a discounted price without the percentage that
	// produced it; derive it so clients can render the badge.
	if price.IsPositive() && discounted.LessThan(price) && !raw.IsPositive() {
		raw = price.Sub(discounted).Div(price).Mul(hundred).Round(2)
	}

	if !price.IsPositive() {
		// Free (or malformed) products never carry a discount.
		return Resolved{
			Price:              price,
			DiscountedPrice:    decimal.Zero,
			IsDiscounted:       false,
			DiscountPercentage: decimal.Zero,
		}
	}

	isDiscounted := (in.IsDiscounted && raw.IsPositive()) || discounted.LessThan(price)
	if !isDiscounted {
		// No phantom discounts: flag and numbers must agree.
		raw = decimal.Zero
		discounted = price
	}

	return Resolved{
		Price:              price,
		DiscountedPrice:    discounted,
		IsDiscounted:       isDiscounted,
		DiscountPercentage: raw,
	}
}
