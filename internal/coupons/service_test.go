package coupons

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
)

func setupCouponService(t *testing.T) (*Service, *Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_percentage NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  expires_at DATETIME,
  usage_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)

	repo, err := NewRepository(db)
	require.NoError(t, err)
	svc, err := NewService(repo)
	require.NoError(t, err)
	return svc, repo
}

func TestService_CreateNormalizesCode(t *testing.T) {
	svc, _ := setupCouponService(t)

	coupon, err := svc.Create(context.Background(), CreateInput{Code: "  save10 ", DiscountPercentage: 10})

	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.True(t, coupon.IsActive)
}

func TestService_CreateDuplicateCode(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "SAVE10", DiscountPercentage: 10})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateInput{Code: "save10", DiscountPercentage: 15})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestService_CreateRejectsBadPercentage(t *testing.T) {
	svc, _ := setupCouponService(t)

	for _, pct := range []float64{0, -5, 150} {
		_, err := svc.Create(context.Background(), CreateInput{Code: "X2", DiscountPercentage: pct})
		require.Error(t, err, "pct %v", pct)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestService_ValidateHappyPath(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()
	_, err := svc.Create(ctx, CreateInput{Code: "SAVE25", DiscountPercentage: 25})
	require.NoError(t, err)

	coupon, err := svc.Validate(ctx, " save25 ")

	require.NoError(t, err)
	assert.Equal(t, "SAVE25", coupon.Code)
	assert.InDelta(t, 25.0, coupon.DiscountPercentage, 0.001)
}

func TestService_ValidateUnknownCode(t *testing.T) {
	svc, _ := setupCouponService(t)

	_, err := svc.Validate(context.Background(), "NOPE")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_ValidateInactiveCode(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()
	inactive := false
	_, err := svc.Create(ctx, CreateInput{Code: "OLD", DiscountPercentage: 10, IsActive: &inactive})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "OLD")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestService_ValidateExpiredCode(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()
	yesterday := time.Now().Add(-24 * time.Hour)
	_, err := svc.Create(ctx, CreateInput{Code: "GONE", DiscountPercentage: 10, ExpiresAt: &yesterday})
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "GONE")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestService_UpdatePartialFields(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateInput{Code: "SAVE10", DiscountPercentage: 10})
	require.NoError(t, err)

	pct := 30.0
	updated, err := svc.Update(ctx, created.ID, UpdateInput{DiscountPercentage: &pct})

	require.NoError(t, err)
	assert.InDelta(t, 30.0, updated.DiscountPercentage, 0.001)
	assert.Equal(t, "SAVE10", updated.Code)
	assert.True(t, updated.IsActive)
}

func TestService_UpdateUnknownCoupon(t *testing.T) {
	svc, _ := setupCouponService(t)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_DeleteThenValidateFails(t *testing.T) {
	svc, _ := setupCouponService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateInput{Code: "TEMP", DiscountPercentage: 5})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Validate(ctx, "TEMP")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_MarkUsedIncrementsCounter(t *testing.T) {
	svc, repo := setupCouponService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateInput{Code: "SAVE10", DiscountPercentage: 10})
	require.NoError(t, err)

	require.NoError(t, svc.MarkUsed(ctx, "save10"))
	require.NoError(t, svc.MarkUsed(ctx, "SAVE10"))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded)
	assert.Equal(t, 2, reloaded.UsageCount)
}
