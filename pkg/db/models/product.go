package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

// Product is the canonical catalog listing. Names and descriptions are
// bilingual, Arabic first. Discount fields mirror what clients and legacy
// imports may send; internal/pricing reconciles them into a canonical tuple.
type Product struct {
	ID                 uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID         *uuid.UUID     `gorm:"column:category_id;type:uuid"`
	SectionID          *uuid.UUID     `gorm:"column:section_id;type:uuid"`
	NameAr             string         `gorm:"column:name_ar;not null"`
	NameEn             string         `gorm:"column:name_en;not null"`
	DescriptionAr      *string        `gorm:"column:description_ar"`
	DescriptionEn      *string        `gorm:"column:description_en"`
	Price              types.Money    `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice      types.Money    `gorm:"column:original_price;type:numeric(12,2)"`
	DiscountPercentage float64        `gorm:"column:discount_percentage;type:numeric(5,2);not null;default:0"`
	DiscountedPrice    types.Money    `gorm:"column:discounted_price;type:numeric(12,2)"`
	IsDiscounted       bool           `gorm:"column:is_discounted;not null;default:false"`
	Images             pq.StringArray `gorm:"column:images;type:text[]"`
	IsActive           bool           `gorm:"column:is_active;not null;default:true"`
	IsFeatured         bool           `gorm:"column:is_featured;not null;default:false"`
	SortOrder          int            `gorm:"column:sort_order;not null;default:0"`
	CreatedAt          time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// FeaturedImage returns the first image, or empty when the listing has none.
func (p Product) FeaturedImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
