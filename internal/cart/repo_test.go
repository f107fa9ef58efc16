package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	records := `
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  coupon_code TEXT,
  coupon_percentage NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  quantity INTEGER NOT NULL,
  base_price NUMERIC NOT NULL,
  discounted_price NUMERIC NOT NULL,
  is_discounted INTEGER NOT NULL DEFAULT 0,
  discount_percentage NUMERIC NOT NULL DEFAULT 0,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(records).Error)
	require.NoError(t, db.Exec(items).Error)
	return db
}

func sampleCart() Cart {
	return Cart{
		Items: []LineItem{
			{
				ProductID:       uuid.New(),
				Name:            "تمر سكري",
				Quantity:        2,
				BasePrice:       types.MoneyFromFloat(45),
				DiscountedPrice: types.MoneyFromFloat(45),
			},
			{
				ProductID:          uuid.New(),
				Name:               "قهوة عربية",
				Quantity:           1,
				BasePrice:          types.MoneyFromFloat(80),
				DiscountedPrice:    types.MoneyFromFloat(60),
				IsDiscounted:       true,
				DiscountPercentage: 25,
			},
		},
		Coupon: &Coupon{Code: "SAVE10", DiscountPercentage: 10, Applied: true},
	}
}

func TestRepository_UpsertAndFindRoundTrip(t *testing.T) {
	db := setupCartTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, userID, sampleCart()))

	record, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Len(t, record.Items, 2)
	assert.Equal(t, "تمر سكري", record.Items[0].Name)
	assert.Equal(t, "قهوة عربية", record.Items[1].Name)
	assert.Equal(t, "60.00", record.Items[1].DiscountedPrice.String())
	require.NotNil(t, record.CouponCode)
	assert.Equal(t, "SAVE10", *record.CouponCode)
}

func TestRepository_UpsertReplacesExistingRecord(t *testing.T) {
	db := setupCartTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, userID, sampleCart()))

	replacement := Cart{Items: []LineItem{{
		ProductID:       uuid.New(),
		Name:            "زعتر بلدي",
		Quantity:        5,
		BasePrice:       types.MoneyFromFloat(12),
		DiscountedPrice: types.MoneyFromFloat(12),
	}}}
	require.NoError(t, repo.Upsert(ctx, userID, replacement))

	record, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, record)
	require.Len(t, record.Items, 1)
	assert.Equal(t, "زعتر بلدي", record.Items[0].Name)
	assert.Nil(t, record.CouponCode)

	var count int64
	require.NoError(t, db.Table("cart_records").Where("user_id = ?", userID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRepository_FindByUserMissing(t *testing.T) {
	db := setupCartTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)

	record, err := repo.FindByUser(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestRepository_DeleteByUser(t *testing.T) {
	db := setupCartTestDB(t)
	repo, err := NewRepository(db)
	require.NoError(t, err)
	userID := uuid.New()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, userID, sampleCart()))
	require.NoError(t, repo.DeleteByUser(ctx, userID))

	record, err := repo.FindByUser(ctx, userID)
	require.NoError(t, err)
	assert.Nil(t, record)

	var items int64
	require.NoError(t, db.Table("cart_items").Count(&items).Error)
	assert.Zero(t, items)

	// Deleting again is a no-op.
	require.NoError(t, repo.DeleteByUser(ctx, userID))
}
