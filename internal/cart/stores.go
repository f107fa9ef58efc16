package cart

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
)

// SessionStore is the device or session scoped key/value port backing every
// cart. The redis client satisfies it directly.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	GuestCartKey(sessionID string) string
	UserCartKey(userID string) string
}

// RecordStore is the server-side persistence port used only for
// authenticated carts.
type RecordStore interface {
	FindByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	Upsert(ctx context.Context, userID uuid.UUID, c Cart) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// recordFromCart flattens the aggregate into persistence rows. Position
// captures insertion order so reloads rebuild the same line ordering.
func recordFromCart(userID uuid.UUID, c Cart) models.CartRecord {
	record := models.CartRecord{UserID: userID}
	if c.Coupon != nil && c.Coupon.Applied {
		code := c.Coupon.Code
		pct := c.Coupon.DiscountPercentage
		record.CouponCode = &code
		record.CouponPercentage = &pct
	}
	for i, item := range c.Items {
		record.Items = append(record.Items, models.CartItem{
			ProductID:          item.ProductID,
			Name:               item.Name,
			Image:              item.Image,
			Quantity:           item.Quantity,
			BasePrice:          item.BasePrice,
			DiscountedPrice:    item.DiscountedPrice,
			IsDiscounted:       item.IsDiscounted,
			DiscountPercentage: item.DiscountPercentage,
			Position:           i,
		})
	}
	return record
}

func cartFromRecord(record *models.CartRecord) Cart {
	c := Cart{}
	if record == nil {
		return c
	}
	for _, item := range record.Items {
		c.Items = append(c.Items, LineItem{
			ProductID:          item.ProductID,
			Name:               item.Name,
			Image:              item.Image,
			Quantity:           item.Quantity,
			BasePrice:          item.BasePrice,
			DiscountedPrice:    item.DiscountedPrice,
			IsDiscounted:       item.IsDiscounted,
			DiscountPercentage: item.DiscountPercentage,
		})
	}
	if record.CouponCode != nil && *record.CouponCode != "" {
		pct := 0.0
		if record.CouponPercentage != nil {
			pct = *record.CouponPercentage
		}
		c.Coupon = &Coupon{Code: *record.CouponCode, DiscountPercentage: pct, Applied: true}
	}
	return c
}
