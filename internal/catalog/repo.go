package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
)

// Repository persists the storefront merchandising entities: categories,
// sections and hero sliders.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("catalog repository requires a database handle")
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

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}

func (r *Repository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding category: %w", err)
	}
	return &category, nil
}

// ListCategories returns categories by sort order. activeOnly restricts to
// storefront-visible rows.
func (r *Repository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	qb := r.db.WithContext(ctx).Model(&models.Category{})
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Category
	if err := qb.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	return rows, nil
}

func (r *Repository) CreateSection(ctx context.Context, section *models.Section) error {
	if section.ID == uuid.Nil {
		section.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(section).Error
}

func (r *Repository) UpdateSection(ctx context.Context, section *models.Section) error {
	return r.db.WithContext(ctx).Save(section).Error
}

func (r *Repository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Section{}, "id = ?", id).Error
}

func (r *Repository) FindSection(ctx context.Context, id uuid.UUID) (*models.Section, error) {
	var section models.Section
	err := r.db.WithContext(ctx).First(&section, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding section: %w", err)
	}
	return &section, nil
}

func (r *Repository) ListSections(ctx context.Context, activeOnly bool) ([]models.Section, error) {
	qb := r.db.WithContext(ctx).Model(&models.Section{})
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Section
	if err := qb.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing sections: %w", err)
	}
	return rows, nil
}

func (r *Repository) CreateSlider(ctx context.Context, slider *models.Slider) error {
	if slider.ID == uuid.Nil {
		slider.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(slider).Error
}

func (r *Repository) UpdateSlider(ctx context.Context, slider *models.Slider) error {
	return r.db.WithContext(ctx).Save(slider).Error
}

func (r *Repository) DeleteSlider(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Slider{}, "id = ?", id).Error
}

func (r *Repository) FindSlider(ctx context.Context, id uuid.UUID) (*models.Slider, error) {
	var slider models.Slider
	err := r.db.WithContext(ctx).First(&slider, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding slider: %w", err)
	}
	return &slider, nil
}

func (r *Repository) ListSliders(ctx context.Context, activeOnly bool) ([]models.Slider, error) {
	qb := r.db.WithContext(ctx).Model(&models.Slider{})
	if activeOnly {
		qb = qb.Where("is_active = ?", true)
	}
	var rows []models.Slider
	if err := qb.Order("sort_order ASC").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing sliders: %w", err)
	}
	return rows, nil
}
