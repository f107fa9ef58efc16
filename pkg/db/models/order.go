package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

// Order is the immutable snapshot produced at checkout. Totals are copied
// from the cart engine, never recomputed after the fact.
type Order struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID             *uuid.UUID        `gorm:"column:user_id;type:uuid"`
	CustomerName       string            `gorm:"column:customer_name;not null"`
	Phone              string            `gorm:"column:phone;not null"`
	Address            string            `gorm:"column:address;not null"`
	Note               *string           `gorm:"column:note"`
	Status             enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CouponCode         *string           `gorm:"column:coupon_code"`
	Subtotal           types.Money       `gorm:"column:subtotal;type:numeric(12,2);not null"`
	DiscountedSubtotal types.Money       `gorm:"column:discounted_subtotal;type:numeric(12,2);not null"`
	CouponDiscount     types.Money       `gorm:"column:coupon_discount;type:numeric(12,2);not null"`
	Total              types.Money       `gorm:"column:total;type:numeric(12,2);not null"`
	Items              []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderItem is one line of an order snapshot.
type OrderItem struct {
	ID              uuid.UUID   `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID   `gorm:"column:order_id;type:uuid;not null"`
	ProductID       uuid.UUID   `gorm:"column:product_id;type:uuid;not null"`
	Name            string      `gorm:"column:name;not null"`
	Image           string      `gorm:"column:image"`
	Quantity        int         `gorm:"column:quantity;not null"`
	BasePrice       types.Money `gorm:"column:base_price;type:numeric(12,2);not null"`
	DiscountedPrice types.Money `gorm:"column:discounted_price;type:numeric(12,2);not null"`
	LineTotal       types.Money `gorm:"column:line_total;type:numeric(12,2);not null"`
	Position        int         `gorm:"column:position;not null;default:0"`
	CreatedAt       time.Time   `gorm:"column:created_at;autoCreateTime"`
}
