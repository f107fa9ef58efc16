package models

import (
	"time"

	"github.com/google/uuid"
)

// CartRecord is the server-side cart for an authenticated user: one active
// record per user, replaced wholesale on every sync from the cart engine.
type CartRecord struct {
	ID               uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID  `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	CouponCode       *string    `gorm:"column:coupon_code"`
	CouponPercentage *float64   `gorm:"column:coupon_percentage;type:numeric(5,2)"`
	Items            []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
