package products

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/pagination"
	"github.com/dukkanhq/dukkan-backend/pkg/types"

	"github.com/dukkanhq/dukkan-backend/internal/pricing"
)

type productRepo interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
}

// Service backs the storefront browse endpoints and the admin catalog CRUD.
type Service struct {
	repo productRepo
}

func NewService(repo productRepo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("product service requires a repository")
	}
	return &Service{repo: repo}, nil
}

// ListInput captures the storefront browse knobs.
type ListInput struct {
	CategoryID *uuid.UUID
	SectionID  *uuid.UUID
	Featured   *bool
	Discounted *bool
	Query      string
	Pagination pagination.Params
}

// PublicList pages active products for the storefront.
func (s *Service) PublicList(ctx context.Context, in ListInput) (*Page, error) {
	result, err := s.repo.List(ctx, ListFilters{
		CategoryID: in.CategoryID,
		SectionID:  in.SectionID,
		Featured:   in.Featured,
		Discounted: in.Discounted,
		Query:      in.Query,
	}, in.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	page := &Page{Products: make([]View, 0, len(result.Products)), NextCursor: result.NextCursor}
	for _, p := range result.Products {
		page.Products = append(page.Products, viewFromModel(p))
	}
	return page, nil
}

// PublicGet returns one active product as a storefront view.
func (s *Service) PublicGet(ctx context.Context, id uuid.UUID) (*View, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil || !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	view := viewFromModel(*product)
	return &view, nil
}

// AdminList pages every product including inactive ones.
func (s *Service) AdminList(ctx context.Context, in ListInput) (*ListResult, error) {
	result, err := s.repo.List(ctx, ListFilters{
		CategoryID:      in.CategoryID,
		SectionID:       in.SectionID,
		Featured:        in.Featured,
		Discounted:      in.Discounted,
		Query:           in.Query,
		IncludeInactive: true,
	}, in.Pagination)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing products")
	}
	return result, nil
}

func (s *Service) AdminGet(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

// CreateInput is the admin payload for a new listing. Price fields ride
// through types.Money so numeric strings from imports do not fail decoding.
type CreateInput struct {
	CategoryID         *uuid.UUID  `json:"category_id"`
	SectionID          *uuid.UUID  `json:"section_id"`
	NameAr             string      `json:"name_ar" validate:"required,max=255"`
	NameEn             string      `json:"name_en" validate:"max=255"`
	DescriptionAr      *string     `json:"description_ar"`
	DescriptionEn      *string     `json:"description_en"`
	Price              types.Money `json:"price"`
	OriginalPrice      types.Money `json:"originalPrice"`
	DiscountPercentage types.Money `json:"discountPercentage"`
	DiscountedPrice    types.Money `json:"discountedPrice"`
	IsDiscounted       bool        `json:"isDiscounted"`
	Images             []string    `json:"images"`
	IsActive           *bool       `json:"is_active"`
	IsFeatured         bool        `json:"is_featured"`
	SortOrder          int         `json:"sort_order"`
}

// Create persists a new listing with its pricing already normalized, so the
// stored row carries the canonical tuple rather than whatever shape the
// payload used.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Product, error) {
	if strings.TrimSpace(in.NameAr) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic name is required")
	}
	if !in.Price.IsSet() && !in.OriginalPrice.IsSet() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price is required")
	}

	resolved := pricing.Resolve(pricing.ProductInput{
		Price:              in.Price,
		OriginalPrice:      in.OriginalPrice,
		DiscountPercentage: in.DiscountPercentage,
		DiscountedPrice:    in.DiscountedPrice,
		IsDiscounted:       in.IsDiscounted,
	})

	product := &models.Product{
		CategoryID:         in.CategoryID,
		SectionID:          in.SectionID,
		NameAr:             strings.TrimSpace(in.NameAr),
		NameEn:             strings.TrimSpace(in.NameEn),
		DescriptionAr:      in.DescriptionAr,
		DescriptionEn:      in.DescriptionEn,
		Price:              types.NewMoney(resolved.Price),
		DiscountPercentage: resolved.DiscountPercentage.InexactFloat64(),
		IsDiscounted:       resolved.IsDiscounted,
		Images:             pq.StringArray(in.Images),
		IsActive:           true,
		IsFeatured:         in.IsFeatured,
		SortOrder:          in.SortOrder,
	}
	if resolved.IsDiscounted {
		product.DiscountedPrice = types.NewMoney(resolved.DiscountedPrice)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating product")
	}
	return product, nil
}

// UpdateInput carries partial admin updates; nil fields are left unchanged.
// Sending any pricing field re-normalizes the whole pricing tuple.
type UpdateInput struct {
	CategoryID         *uuid.UUID  `json:"category_id"`
	SectionID          *uuid.UUID  `json:"section_id"`
	NameAr             *string     `json:"name_ar" validate:"omitempty,max=255"`
	NameEn             *string     `json:"name_en" validate:"omitempty,max=255"`
	DescriptionAr      *string     `json:"description_ar"`
	DescriptionEn      *string     `json:"description_en"`
	Price              types.Money `json:"price"`
	OriginalPrice      types.Money `json:"originalPrice"`
	DiscountPercentage types.Money `json:"discountPercentage"`
	DiscountedPrice    types.Money `json:"discountedPrice"`
	IsDiscounted       *bool       `json:"isDiscounted"`
	Images             *[]string   `json:"images"`
	IsActive           *bool       `json:"is_active"`
	IsFeatured         *bool       `json:"is_featured"`
	SortOrder          *int        `json:"sort_order"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	if in.NameAr != nil {
		if strings.TrimSpace(*in.NameAr) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic name is required")
		}
		product.NameAr = strings.TrimSpace(*in.NameAr)
	}
	if in.NameEn != nil {
		product.NameEn = strings.TrimSpace(*in.NameEn)
	}
	if in.DescriptionAr != nil {
		product.DescriptionAr = in.DescriptionAr
	}
	if in.DescriptionEn != nil {
		product.DescriptionEn = in.DescriptionEn
	}
	if in.CategoryID != nil {
		product.CategoryID = in.CategoryID
	}
	if in.SectionID != nil {
		product.SectionID = in.SectionID
	}
	if in.Images != nil {
		product.Images = pq.StringArray(*in.Images)
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	if in.SortOrder != nil {
		product.SortOrder = *in.SortOrder
	}

	if in.Price.IsSet() || in.OriginalPrice.IsSet() || in.DiscountedPrice.IsSet() ||
		in.DiscountPercentage.IsSet() || in.IsDiscounted != nil {
		next := pricing.ProductInput{
			Price:              product.Price,
			DiscountPercentage: types.MoneyFromFloat(product.DiscountPercentage),
			IsDiscounted:       product.IsDiscounted,
		}
		if product.IsDiscounted && product.DiscountedPrice.IsSet() {
			next.DiscountedPrice = product.DiscountedPrice
		}
		if in.Price.IsSet() {
			next.Price = in.Price
		}
		if in.OriginalPrice.IsSet() {
			next.OriginalPrice = in.OriginalPrice
		}
		if in.DiscountPercentage.IsSet() {
			next.DiscountPercentage = in.DiscountPercentage
		}
		if in.DiscountedPrice.IsSet() {
			next.DiscountedPrice = in.DiscountedPrice
		}
		if in.IsDiscounted != nil {
			next.IsDiscounted = *in.IsDiscounted
			if !*in.IsDiscounted {
				next.DiscountedPrice = types.Money{}
				next.DiscountPercentage = types.Money{}
			}
		}
		resolved := pricing.Resolve(next)
		product.Price = types.NewMoney(resolved.Price)
		product.OriginalPrice = types.Money{}
		product.DiscountPercentage = resolved.DiscountPercentage.InexactFloat64()
		product.IsDiscounted = resolved.IsDiscounted
		product.DiscountedPrice = types.Money{}
		if resolved.IsDiscounted {
			product.DiscountedPrice = types.NewMoney(resolved.DiscountedPrice)
		}
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating product")
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting product")
	}
	return nil
}
