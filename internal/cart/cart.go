package cart

import (
	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

// LineItem is one product entry in the cart: the resolved pricing snapshot
// captured at add time plus the chosen quantity.
type LineItem struct {
	ProductID          uuid.UUID   `json:"product_id"`
	Name               string      `json:"name"`
	Image              string      `json:"image"`
	Quantity           int         `json:"quantity"`
	BasePrice          types.Money `json:"base_price"`
	DiscountedPrice    types.Money `json:"discounted_price"`
	IsDiscounted       bool        `json:"is_discounted"`
	DiscountPercentage float64     `json:"discount_percentage"`
}

// Coupon is the single optional percentage discount attached to a cart.
// Applied is only true while a validated code is currently set.
type Coupon struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Applied            bool    `json:"applied"`
}

// Cart is the aggregate: line items unique by product id, insertion order
// preserved, plus at most one coupon.
type Cart struct {
	Items  []LineItem `json:"items"`
	Coupon *Coupon    `json:"coupon,omitempty"`
}

// IsEmpty reports whether the cart holds no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) findLine(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// upsertLine merges quantity into an existing line and refreshes its snapshot
// fields, or appends a new line at the end.
func (c *Cart) upsertLine(line LineItem) {
	if idx := c.findLine(line.ProductID); idx >= 0 {
		existing := &c.Items[idx]
		existing.Quantity += line.Quantity
		existing.Name = line.Name
		existing.Image = line.Image
		existing.BasePrice = line.BasePrice
		existing.DiscountedPrice = line.DiscountedPrice
		existing.IsDiscounted = line.IsDiscounted
		existing.DiscountPercentage = line.DiscountPercentage
		return
	}
	c.Items = append(c.Items, line)
}

// removeLine deletes the line if present; absent is a no-op, not an error.
func (c *Cart) removeLine(productID uuid.UUID) bool {
	idx := c.findLine(productID)
	if idx < 0 {
		return false
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return true
}

// setQuantity replaces (not increments) the line quantity.
func (c *Cart) setQuantity(productID uuid.UUID, quantity int) bool {
	idx := c.findLine(productID)
	if idx < 0 {
		return false
	}
	c.Items[idx].Quantity = quantity
	return true
}
