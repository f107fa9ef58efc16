package analytics

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

func setupAnalyticsDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT,
  customer_name TEXT NOT NULL,
  phone TEXT NOT NULL,
  address TEXT NOT NULL,
  note TEXT,
  status TEXT NOT NULL DEFAULT 'pending',
  coupon_code TEXT,
  subtotal NUMERIC NOT NULL,
  discounted_subtotal NUMERIC NOT NULL,
  coupon_discount NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone TEXT,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'customer',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  category_id TEXT,
  section_id TEXT,
  name_ar TEXT NOT NULL,
  name_en TEXT NOT NULL,
  description_ar TEXT,
  description_en TEXT,
  price NUMERIC NOT NULL,
  original_price NUMERIC,
  discount_percentage NUMERIC NOT NULL DEFAULT 0,
  discounted_price NUMERIC,
  is_discounted INTEGER NOT NULL DEFAULT 0,
  images TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  is_featured INTEGER NOT NULL DEFAULT 0,
  sort_order INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS coupons (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  discount_percentage NUMERIC NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  expires_at DATETIME,
  usage_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
	} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

func insertOrder(t *testing.T, db *gorm.DB, status enums.OrderStatus, total float64) {
	t.Helper()
	order := models.Order{
		ID:                 uuid.New(),
		CustomerName:       "أحمد",
		Phone:              "+9665",
		Address:            "الرياض",
		Status:             status,
		Subtotal:           types.MoneyFromFloat(total),
		DiscountedSubtotal: types.MoneyFromFloat(total),
		CouponDiscount:     types.MoneyFromFloat(0),
		Total:              types.MoneyFromFloat(total),
	}
	require.NoError(t, db.Create(&order).Error)
}

func TestService_SummaryAggregates(t *testing.T) {
	db := setupAnalyticsDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)
	ctx := context.Background()

	insertOrder(t, db, enums.OrderStatusDelivered, 150)
	insertOrder(t, db, enums.OrderStatusDelivered, 50)
	insertOrder(t, db, enums.OrderStatusPending, 80)
	insertOrder(t, db, enums.OrderStatusCanceled, 999)

	require.NoError(t, db.Create(&models.User{
		ID: uuid.New(), Name: "أحمد", Email: "a@example.com", PasswordHash: "x",
		Role: enums.UserRoleCustomer,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		ID: uuid.New(), Name: "مشرف", Email: "admin@example.com", PasswordHash: "x",
		Role: enums.UserRoleAdmin,
	}).Error)

	require.NoError(t, db.Create(&models.Product{
		ID: uuid.New(), NameAr: "منتج", NameEn: "Product",
		Price: types.MoneyFromFloat(10), IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.Coupon{
		ID: uuid.New(), Code: "SAVE10", DiscountPercentage: 10, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.Coupon{
		ID: uuid.New(), Code: "OLD", DiscountPercentage: 5, IsActive: false,
	}).Error)

	summary, err := svc.Summary(ctx)

	require.NoError(t, err)
	assert.EqualValues(t, 4, summary.TotalOrders)
	assert.EqualValues(t, 2, summary.OrdersByStatus["delivered"])
	assert.EqualValues(t, 1, summary.OrdersByStatus["pending"])
	assert.Equal(t, "200.00", summary.DeliveredRevenue.String())
	assert.Equal(t, "80.00", summary.PendingRevenue.String())
	assert.EqualValues(t, 1, summary.TotalCustomers)
	assert.EqualValues(t, 1, summary.TotalProducts)
	assert.EqualValues(t, 1, summary.ActiveCoupons)
	assert.Len(t, summary.RecentOrders, 4)
}

func TestService_SummaryEmptyDatabase(t *testing.T) {
	db := setupAnalyticsDB(t)
	svc, err := NewService(db)
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())

	require.NoError(t, err)
	assert.Zero(t, summary.TotalOrders)
	assert.Equal(t, "0.00", summary.DeliveredRevenue.String())
	assert.Empty(t, summary.RecentOrders)
}
