package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products on the storefront.
type Category struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	NameAr    string    `gorm:"column:name_ar;not null"`
	NameEn    string    `gorm:"column:name_en;not null"`
	Image     *string   `gorm:"column:image"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Section is a curated storefront row (e.g. "new arrivals") rendered on the
// home page, optionally scoped to a category.
type Section struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TitleAr    string     `gorm:"column:title_ar;not null"`
	TitleEn    string     `gorm:"column:title_en;not null"`
	CategoryID *uuid.UUID `gorm:"column:category_id;type:uuid"`
	SortOrder  int        `gorm:"column:sort_order;not null;default:0"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Slider is a hero banner on the storefront home page.
type Slider struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Image     string    `gorm:"column:image;not null"`
	Link      *string   `gorm:"column:link"`
	TitleAr   *string   `gorm:"column:title_ar"`
	TitleEn   *string   `gorm:"column:title_en"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
