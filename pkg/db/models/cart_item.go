package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

// CartItem persists one product snapshot tied to a CartRecord. Position
// preserves insertion order across replace-on-sync writes.
type CartItem struct {
	ID                 uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID             uuid.UUID   `gorm:"column:cart_id;type:uuid;not null"`
	ProductID          uuid.UUID   `gorm:"column:product_id;type:uuid;not null"`
	Name               string      `gorm:"column:name;not null"`
	Image              string      `gorm:"column:image"`
	Quantity           int         `gorm:"column:quantity;not null"`
	BasePrice          types.Money `gorm:"column:base_price;type:numeric(12,2);not null"`
	DiscountedPrice    types.Money `gorm:"column:discounted_price;type:numeric(12,2);not null"`
	IsDiscounted       bool        `gorm:"column:is_discounted;not null;default:false"`
	DiscountPercentage float64     `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	Position           int         `gorm:"column:position;not null;default:0"`
	CreatedAt          time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}
