package orders

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/logger"
	"github.com/dukkanhq/dukkan-backend/pkg/pagination"
	"github.com/dukkanhq/dukkan-backend/pkg/types"

	"github.com/dukkanhq/dukkan-backend/internal/cart"
)

type stubCartEngine struct {
	snapshot   *cart.Snapshot
	clearCalls int
}

func (s *stubCartEngine) Get(_ context.Context, _ cart.Scope) (*cart.Snapshot, error) {
	return s.snapshot, nil
}

func (s *stubCartEngine) Clear(_ context.Context, _ cart.Scope) (*cart.Snapshot, error) {
	s.clearCalls++
	s.snapshot = &cart.Snapshot{Totals: cart.CalculateTotals(cart.Cart{}), RemoteSynced: true}
	return s.snapshot, nil
}

type stubCouponMarker struct {
	used []string
}

func (s *stubCouponMarker) MarkUsed(_ context.Context, code string) error {
	s.used = append(s.used, code)
	return nil
}

func setupOrderService(t *testing.T) (*Service, *stubCartEngine, *stubCouponMarker, *Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ordersDDL := `
CREATE TABLE IF NOT EXISTS orders (
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
);`
	itemsDDL := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  quantity INTEGER NOT NULL,
  base_price NUMERIC NOT NULL,
  discounted_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  position INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersDDL).Error)
	require.NoError(t, db.Exec(itemsDDL).Error)

	repo, err := NewRepository(db)
	require.NoError(t, err)

	engine := &stubCartEngine{}
	marker := &stubCouponMarker{}
	log := logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
	svc, err := NewService(repo, engine, marker, log)
	require.NoError(t, err)
	return svc, engine, marker, repo
}

func filledSnapshot() *cart.Snapshot {
	c := cart.Cart{
		Items: []cart.LineItem{
			{
				ProductID:       uuid.New(),
				Name:            "عسل جبلي",
				Quantity:        2,
				BasePrice:       types.MoneyFromFloat(500),
				DiscountedPrice: types.MoneyFromFloat(400),
				IsDiscounted:    true,
			},
			{
				ProductID:       uuid.New(),
				Name:            "تمر سكري",
				Quantity:        1,
				BasePrice:       types.MoneyFromFloat(100),
				DiscountedPrice: types.MoneyFromFloat(100),
			},
		},
		Coupon: &cart.Coupon{Code: "SAVE10", DiscountPercentage: 10, Applied: true},
	}
	return &cart.Snapshot{
		Items:        c.Items,
		Coupon:       c.Coupon,
		Totals:       cart.CalculateTotals(c),
		RemoteSynced: true,
	}
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		CustomerName: "أحمد",
		Phone:        "+96650000000",
		Address:      "الرياض، حي النرجس",
	}
}

func TestService_CheckoutSnapshotsCartAndClearsIt(t *testing.T) {
	svc, engine, marker, repo := setupOrderService(t)
	engine.snapshot = filledSnapshot()
	userID := uuid.New()
	scope := cart.Scope{SessionID: "sess-1", UserID: &userID}

	order, err := svc.Checkout(context.Background(), scope, checkoutInput())

	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Equal(t, "900.00", order.DiscountedSubtotal.String())
	assert.Equal(t, "90.00", order.CouponDiscount.String())
	assert.Equal(t, "810.00", order.Total.String())
	require.NotNil(t, order.CouponCode)
	assert.Equal(t, "SAVE10", *order.CouponCode)
	assert.Equal(t, []string{"SAVE10"}, marker.used)
	assert.Equal(t, 1, engine.clearCalls)

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "عسل جبلي", stored.Items[0].Name)
	assert.Equal(t, "800.00", stored.Items[0].LineTotal.String())
}

func TestService_CheckoutRejectsEmptyCart(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	engine.snapshot = &cart.Snapshot{Totals: cart.CalculateTotals(cart.Cart{}), RemoteSynced: true}

	_, err := svc.Checkout(context.Background(), cart.Scope{SessionID: "sess-1"}, checkoutInput())

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestService_CheckoutRequiresContactFields(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	engine.snapshot = filledSnapshot()

	for _, in := range []CheckoutInput{
		{Phone: "+9665", Address: "الرياض"},
		{CustomerName: "أحمد", Address: "الرياض"},
		{CustomerName: "أحمد", Phone: "+9665"},
	} {
		_, err := svc.Checkout(context.Background(), cart.Scope{SessionID: "sess-1"}, in)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	}
}

func TestService_GuestCheckoutHasNoUser(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	engine.snapshot = filledSnapshot()

	order, err := svc.Checkout(context.Background(), cart.Scope{SessionID: "sess-1"}, checkoutInput())

	require.NoError(t, err)
	assert.Nil(t, order.UserID)
}

func TestService_GetMineEnforcesOwnership(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	engine.snapshot = filledSnapshot()
	userID := uuid.New()
	scope := cart.Scope{SessionID: "sess-1", UserID: &userID}

	order, err := svc.Checkout(context.Background(), scope, checkoutInput())
	require.NoError(t, err)

	got, err := svc.GetMine(context.Background(), userID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	_, err = svc.GetMine(context.Background(), uuid.New(), order.ID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_AdminStatusTransitions(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	engine.snapshot = filledSnapshot()

	order, err := svc.Checkout(context.Background(), cart.Scope{SessionID: "sess-1"}, checkoutInput())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusConfirmed, updated.Status)

	// Confirmed orders cannot jump straight to delivered.
	_, err = svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusCanceled)
	require.NoError(t, err)
}

func TestService_AdminListFiltersByStatus(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	ctx := context.Background()

	engine.snapshot = filledSnapshot()
	first, err := svc.Checkout(ctx, cart.Scope{SessionID: "sess-1"}, checkoutInput())
	require.NoError(t, err)
	engine.snapshot = filledSnapshot()
	_, err = svc.Checkout(ctx, cart.Scope{SessionID: "sess-2"}, checkoutInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, first.ID, enums.OrderStatusConfirmed)
	require.NoError(t, err)

	confirmed := enums.OrderStatusConfirmed
	page, err := svc.AdminList(ctx, &confirmed, pagination.Params{})

	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, first.ID, page.Orders[0].ID)
}

func TestService_ListMineOnlyReturnsOwnOrders(t *testing.T) {
	svc, engine, _, _ := setupOrderService(t)
	ctx := context.Background()
	mine := uuid.New()
	other := uuid.New()

	engine.snapshot = filledSnapshot()
	_, err := svc.Checkout(ctx, cart.Scope{SessionID: "s1", UserID: &mine}, checkoutInput())
	require.NoError(t, err)
	engine.snapshot = filledSnapshot()
	_, err = svc.Checkout(ctx, cart.Scope{SessionID: "s2", UserID: &other}, checkoutInput())
	require.NoError(t, err)

	page, err := svc.ListMine(ctx, mine, pagination.Params{})

	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	require.NotNil(t, page.Orders[0].UserID)
	assert.Equal(t, mine, *page.Orders[0].UserID)
}
