package products

import (
	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/types"

	"github.com/dukkanhq/dukkan-backend/internal/pricing"
)

// View is the storefront product shape. Pricing fields always carry the
// canonical resolved tuple, never the raw row values.
type View struct {
	ID                 uuid.UUID   `json:"id"`
	CategoryID         *uuid.UUID  `json:"category_id,omitempty"`
	SectionID          *uuid.UUID  `json:"section_id,omitempty"`
	NameAr             string      `json:"name_ar"`
	NameEn             string      `json:"name_en"`
	DescriptionAr      *string     `json:"description_ar,omitempty"`
	DescriptionEn      *string     `json:"description_en,omitempty"`
	Price              types.Money `json:"price"`
	DiscountedPrice    types.Money `json:"discounted_price"`
	IsDiscounted       bool        `json:"is_discounted"`
	DiscountPercentage float64     `json:"discount_percentage"`
	Images             []string    `json:"images"`
	IsFeatured         bool        `json:"is_featured"`
	SortOrder          int         `json:"sort_order"`
}

func viewFromModel(p models.Product) View {
	resolved := pricing.Resolve(pricing.FromModel(p))
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return View{
		ID:                 p.ID,
		CategoryID:         p.CategoryID,
		SectionID:          p.SectionID,
		NameAr:             p.NameAr,
		NameEn:             p.NameEn,
		DescriptionAr:      p.DescriptionAr,
		DescriptionEn:      p.DescriptionEn,
		Price:              types.NewMoney(resolved.Price),
		DiscountedPrice:    types.NewMoney(resolved.DiscountedPrice),
		IsDiscounted:       resolved.IsDiscounted,
		DiscountPercentage: resolved.DiscountPercentage.InexactFloat64(),
		Images:             images,
		IsFeatured:         p.IsFeatured,
		SortOrder:          p.SortOrder,
	}
}

// Page is one page of storefront views.
type Page struct {
	Products   []View  `json:"products"`
	NextCursor *string `json:"next_cursor,omitempty"`
}
