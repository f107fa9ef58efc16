package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/pagination"
)

// Repository persists catalog listings.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("product repository requires a database handle")
	}
	return &Repository{db: db}, nil
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindByID returns (nil, nil) when no product exists.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding product: %w", err)
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

// ListFilters describe the filter knobs the browse and admin endpoints accept.
type ListFilters struct {
	CategoryID      *uuid.UUID
	SectionID       *uuid.UUID
	Featured        *bool
	Discounted      *bool
	Query           string
	IncludeInactive bool
}

// ListResult is one page of products plus the cursor for the next page.
type ListResult struct {
	Products   []models.Product
	NextCursor *string
}

// List pages products newest first with keyset pagination.
func (r *Repository) List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error) {
	limit := pagination.NormalizeLimit(page.Limit)
	qb := r.db.WithContext(ctx).Model(&models.Product{})

	if !filters.IncludeInactive {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.SectionID != nil {
		qb = qb.Where("section_id = ?", *filters.SectionID)
	}
	if filters.Featured != nil {
		qb = qb.Where("is_featured = ?", *filters.Featured)
	}
	if filters.Discounted != nil {
		qb = qb.Where("is_discounted = ?", *filters.Discounted)
	}
	if q := strings.TrimSpace(filters.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		qb = qb.Where("(LOWER(name_ar) LIKE ? OR LOWER(name_en) LIKE ?)", pattern, pattern)
	}

	cursor, err := pagination.ParseCursor(page.Cursor)
	if err != nil {
		return nil, fmt.Errorf("parsing product cursor: %w", err)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := qb.Order("created_at DESC").Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}

	result := &ListResult{}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		next := pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
		result.NextCursor = &next
	}
	result.Products = rows
	return result, nil
}
