package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
)

// Repository persists authenticated cart records in Postgres. Writes replace
// the record wholesale: the session snapshot is the source of truth and the
// row is a mirror of it.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if db == nil {
		return nil, errors.New("cart repository requires a database handle")
	}
	return &Repository{db: db}, nil
}

// WithTx returns a repository bound to the given transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByUser loads the user's cart record with its items in insertion order.
// Returns (nil, nil) when the user has no record.
func (r *Repository) FindByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("finding cart record: %w", err)
	}
	return &record, nil
}

// Upsert replaces the user's cart record with the supplied aggregate state.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, c Cart) error {
	next := recordFromCart(userID, c)
	next.ID = uuid.New()
	for i := range next.Items {
		next.Items[i].ID = uuid.New()
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartRecord
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&next).Error; err != nil {
				return fmt.Errorf("creating cart record: %w", err)
			}
			return nil
		case err != nil:
			return fmt.Errorf("loading cart record: %w", err)
		}

		updates := map[string]any{
			"coupon_code":       next.CouponCode,
			"coupon_percentage": next.CouponPercentage,
		}
		if err := tx.Model(&models.CartRecord{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("updating cart record: %w", err)
		}
		if err := tx.Where("cart_id = ?", existing.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("clearing cart items: %w", err)
		}
		if len(next.Items) == 0 {
			return nil
		}
		for i := range next.Items {
			next.Items[i].CartID = existing.ID
		}
		if err := tx.Create(&next.Items).Error; err != nil {
			return fmt.Errorf("writing cart items: %w", err)
		}
		return nil
	})
}

// DeleteByUser removes the user's cart record. Missing record is not an error.
func (r *Repository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartRecord
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading cart record: %w", err)
		}
		if err := tx.Where("cart_id = ?", existing.ID).Delete(&models.CartItem{}).Error; err != nil {
			return fmt.Errorf("deleting cart items: %w", err)
		}
		if err := tx.Delete(&models.CartRecord{}, "id = ?", existing.ID).Error; err != nil {
			return fmt.Errorf("deleting cart record: %w", err)
		}
		return nil
	})
}
