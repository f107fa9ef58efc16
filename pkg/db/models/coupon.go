package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a code-activated percentage discount. Codes are stored uppercase
// and unique; at most one coupon is attached to a cart at a time.
type Coupon struct {
	ID                 uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code               string     `gorm:"column:code;not null;uniqueIndex"`
	DiscountPercentage float64    `gorm:"column:discount_percentage;type:numeric(5,2);not null"`
	IsActive           bool       `gorm:"column:is_active;not null;default:true"`
	ExpiresAt          *time.Time `gorm:"column:expires_at"`
	UsageCount         int        `gorm:"column:usage_count;not null;default:0"`
	CreatedAt          time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
