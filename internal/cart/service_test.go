package cart

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/logger"
	redisclient "github.com/dukkanhq/dukkan-backend/pkg/redis"
	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

type stubSessionStore struct {
	data     map[string]string
	getErr   error
	setErr   error
	delErr   error
	setCalls int
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{data: map[string]string{}}
}

func (s *stubSessionStore) Get(_ context.Context, key string) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	value, ok := s.data[key]
	if !ok {
		return "", redisclient.Nil
	}
	return value, nil
}

func (s *stubSessionStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.setCalls++
	if s.setErr != nil {
		return s.setErr
	}
	switch v := value.(type) {
	case []byte:
		s.data[key] = string(v)
	case string:
		s.data[key] = v
	}
	return nil
}

func (s *stubSessionStore) Del(_ context.Context, keys ...string) error {
	if s.delErr != nil {
		return s.delErr
	}
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

func (s *stubSessionStore) GuestCartKey(sessionID string) string { return "cart:guest:" + sessionID }
func (s *stubSessionStore) UserCartKey(userID string) string     { return "cart:user:" + userID }

type stubRecordStore struct {
	record      *models.CartRecord
	upsertErr   error
	deleteErr   error
	upsertCalls int
	deleted     bool
}

func (s *stubRecordStore) FindByUser(_ context.Context, _ uuid.UUID) (*models.CartRecord, error) {
	return s.record, nil
}

func (s *stubRecordStore) Upsert(_ context.Context, userID uuid.UUID, c Cart) error {
	s.upsertCalls++
	if s.upsertErr != nil {
		return s.upsertErr
	}
	record := recordFromCart(userID, c)
	s.record = &record
	return nil
}

func (s *stubRecordStore) DeleteByUser(_ context.Context, _ uuid.UUID) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.record = nil
	s.deleted = true
	return nil
}

type stubProducts struct {
	byID map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	return s.byID[id], nil
}

type stubCoupons struct {
	coupon *models.Coupon
	err    error
	calls  int
}

func (s *stubCoupons) Validate(_ context.Context, _ string) (*models.Coupon, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.coupon, nil
}

func activeProduct(price float64) *models.Product {
	return &models.Product{
		ID:       uuid.New(),
		NameAr:   "عسل جبلي",
		NameEn:   "Mountain Honey",
		Price:    types.MoneyFromFloat(price),
		IsActive: true,
	}
}

func discountedProduct(price float64, pct float64) *models.Product {
	p := activeProduct(price)
	p.IsDiscounted = true
	p.DiscountPercentage = pct
	return p
}

type serviceFixture struct {
	svc      *Service
	sessions *stubSessionStore
	records  *stubRecordStore
	products *stubProducts
	coupons  *stubCoupons
}

func newServiceFixture(t *testing.T, products ...*models.Product) *serviceFixture {
	t.Helper()
	fixture := &serviceFixture{
		sessions: newStubSessionStore(),
		records:  &stubRecordStore{},
		products: &stubProducts{byID: map[uuid.UUID]*models.Product{}},
		coupons:  &stubCoupons{coupon: &models.Coupon{Code: "SAVE10", DiscountPercentage: 10, IsActive: true}},
	}
	for _, p := range products {
		fixture.products.byID[p.ID] = p
	}
	log := logger.New(logger.Options{ServiceName: "cart-test", Output: io.Discard})
	svc, err := NewService(fixture.sessions, fixture.records, fixture.products, fixture.coupons, log, time.Hour)
	require.NoError(t, err)
	fixture.svc = svc
	return fixture
}

func guestScope() Scope { return Scope{SessionID: "sess-123"} }

func userScope() Scope {
	id := uuid.New()
	return Scope{SessionID: "sess-123", UserID: &id}
}

func TestService_AddCreatesLineForGuest(t *testing.T) {
	product := discountedProduct(1000, 20)
	fixture := newServiceFixture(t, product)

	snap, err := fixture.svc.Add(context.Background(), guestScope(), product.ID, 2)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "عسل جبلي", snap.Items[0].Name)
	assert.Equal(t, 2, snap.Items[0].Quantity)
	assert.Equal(t, "1000.00", snap.Items[0].BasePrice.String())
	assert.Equal(t, "800.00", snap.Items[0].DiscountedPrice.String())
	assert.True(t, snap.Items[0].IsDiscounted)
	assert.Equal(t, "1600.00", snap.Totals.Total.String())
	assert.True(t, snap.RemoteSynced)
	assert.Zero(t, fixture.records.upsertCalls)
}

func TestService_AddNormalizesQuantityToOne(t *testing.T) {
	product := activeProduct(50)
	fixture := newServiceFixture(t, product)

	snap, err := fixture.svc.Add(context.Background(), guestScope(), product.ID, -3)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestService_AddMergesAndRefreshesSnapshot(t *testing.T) {
	product := activeProduct(100)
	fixture := newServiceFixture(t, product)
	scope := guestScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 1)
	require.NoError(t, err)

	// Catalog price changed between adds; the merged line picks it up.
	product.Price = types.MoneyFromFloat(120)
	snap, err := fixture.svc.Add(context.Background(), scope, product.ID, 2)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, "120.00", snap.Items[0].BasePrice.String())
}

func TestService_AddUnknownProduct(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.svc.Add(context.Background(), guestScope(), uuid.New(), 1)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_AddInactiveProduct(t *testing.T) {
	product := activeProduct(10)
	product.IsActive = false
	fixture := newServiceFixture(t, product)

	_, err := fixture.svc.Add(context.Background(), guestScope(), product.ID, 1)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_AddThenRemoveLeavesEmptyCart(t *testing.T) {
	product := activeProduct(75)
	fixture := newServiceFixture(t, product)
	scope := guestScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 2)
	require.NoError(t, err)

	snap, err := fixture.svc.Remove(context.Background(), scope, product.ID)

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Equal(t, "0.00", snap.Totals.Total.String())
}

func TestService_RemoveAbsentProductIsNoOp(t *testing.T) {
	fixture := newServiceFixture(t)

	snap, err := fixture.svc.Remove(context.Background(), guestScope(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Zero(t, fixture.sessions.setCalls)
}

func TestService_UpdateQuantityZeroRemovesLine(t *testing.T) {
	product := activeProduct(30)
	fixture := newServiceFixture(t, product)
	scope := guestScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 4)
	require.NoError(t, err)

	snap, err := fixture.svc.UpdateQuantity(context.Background(), scope, product.ID, 0)

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestService_UpdateQuantityNegativeClampsToOne(t *testing.T) {
	product := activeProduct(30)
	fixture := newServiceFixture(t, product)
	scope := guestScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 4)
	require.NoError(t, err)

	snap, err := fixture.svc.UpdateQuantity(context.Background(), scope, product.ID, -5)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 1, snap.Items[0].Quantity)
}

func TestService_UpdateQuantityUnknownLine(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.svc.UpdateQuantity(context.Background(), guestScope(), uuid.New(), 2)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_ApplyCouponRequiresAuthentication(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.svc.ApplyCoupon(context.Background(), guestScope(), "SAVE10")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
	assert.Zero(t, fixture.coupons.calls, "validator should not run for guests")
}

func TestService_ApplyCouponAttachesAndDiscounts(t *testing.T) {
	product := activeProduct(500)
	fixture := newServiceFixture(t, product)
	scope := userScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 2)
	require.NoError(t, err)

	snap, err := fixture.svc.ApplyCoupon(context.Background(), scope, "  save10 ")

	require.NoError(t, err)
	require.NotNil(t, snap.Coupon)
	assert.Equal(t, "SAVE10", snap.Coupon.Code)
	assert.True(t, snap.Coupon.Applied)
	assert.Equal(t, "100.00", snap.Totals.CouponDiscount.String())
	assert.Equal(t, "900.00", snap.Totals.Total.String())
}

func TestService_ApplyCouponLastWriteWins(t *testing.T) {
	product := activeProduct(200)
	fixture := newServiceFixture(t, product)
	scope := userScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 1)
	require.NoError(t, err)
	_, err = fixture.svc.ApplyCoupon(context.Background(), scope, "SAVE10")
	require.NoError(t, err)

	fixture.coupons.coupon = &models.Coupon{Code: "SAVE25", DiscountPercentage: 25, IsActive: true}
	snap, err := fixture.svc.ApplyCoupon(context.Background(), scope, "SAVE25")

	require.NoError(t, err)
	require.NotNil(t, snap.Coupon)
	assert.Equal(t, "SAVE25", snap.Coupon.Code)
	assert.Equal(t, "50.00", snap.Totals.CouponDiscount.String())
}

func TestService_ApplyCouponEmptyCode(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.svc.ApplyCoupon(context.Background(), userScope(), "   ")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestService_ApplyCouponValidatorRejection(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.coupons.err = pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")

	_, err := fixture.svc.ApplyCoupon(context.Background(), userScope(), "NOPE")

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestService_RemoveCouponIsNoOpWithoutCoupon(t *testing.T) {
	fixture := newServiceFixture(t)

	snap, err := fixture.svc.RemoveCoupon(context.Background(), userScope())

	require.NoError(t, err)
	assert.Nil(t, snap.Coupon)
	assert.Zero(t, fixture.sessions.setCalls)
}

func TestService_RemoveCouponKeepsItems(t *testing.T) {
	product := activeProduct(40)
	fixture := newServiceFixture(t, product)
	scope := userScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 1)
	require.NoError(t, err)
	_, err = fixture.svc.ApplyCoupon(context.Background(), scope, "SAVE10")
	require.NoError(t, err)

	snap, err := fixture.svc.RemoveCoupon(context.Background(), scope)

	require.NoError(t, err)
	assert.Nil(t, snap.Coupon)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "40.00", snap.Totals.Total.String())
}

func TestService_ClearEmptiesBothStores(t *testing.T) {
	product := activeProduct(60)
	fixture := newServiceFixture(t, product)
	scope := userScope()

	_, err := fixture.svc.Add(context.Background(), scope, product.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, fixture.records.record)

	snap, err := fixture.svc.Clear(context.Background(), scope)

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.Nil(t, snap.Coupon)
	assert.True(t, fixture.records.deleted)
	assert.True(t, snap.RemoteSynced)
}

func TestService_ClearSurvivesRemoteFailure(t *testing.T) {
	fixture := newServiceFixture(t)
	fixture.records.deleteErr = errors.New("connection refused")

	snap, err := fixture.svc.Clear(context.Background(), userScope())

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
	assert.False(t, snap.RemoteSynced)
}

func TestService_AuthenticatedAddMirrorsToRecordStore(t *testing.T) {
	product := activeProduct(90)
	fixture := newServiceFixture(t, product)

	snap, err := fixture.svc.Add(context.Background(), userScope(), product.ID, 2)

	require.NoError(t, err)
	assert.True(t, snap.RemoteSynced)
	require.NotNil(t, fixture.records.record)
	require.Len(t, fixture.records.record.Items, 1)
	assert.Equal(t, 2, fixture.records.record.Items[0].Quantity)
}

func TestService_RecordUpsertFailureDoesNotFailOperation(t *testing.T) {
	product := activeProduct(90)
	fixture := newServiceFixture(t, product)
	fixture.records.upsertErr = errors.New("connection refused")

	snap, err := fixture.svc.Add(context.Background(), userScope(), product.ID, 1)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.False(t, snap.RemoteSynced)
}

func TestService_LoadFallsBackToRecordStore(t *testing.T) {
	fixture := newServiceFixture(t)
	scope := userScope()
	fixture.records.record = &models.CartRecord{
		UserID: *scope.UserID,
		Items: []models.CartItem{{
			ProductID:       uuid.New(),
			Name:            "زيت زيتون",
			Quantity:        2,
			BasePrice:       types.MoneyFromFloat(35),
			DiscountedPrice: types.MoneyFromFloat(35),
		}},
	}

	snap, err := fixture.svc.Get(context.Background(), scope)

	require.NoError(t, err)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "زيت زيتون", snap.Items[0].Name)
	assert.Equal(t, "70.00", snap.Totals.Total.String())
}

func TestService_GuestAndUserCartsAreIsolated(t *testing.T) {
	product := activeProduct(10)
	fixture := newServiceFixture(t, product)

	_, err := fixture.svc.Add(context.Background(), guestScope(), product.ID, 1)
	require.NoError(t, err)

	snap, err := fixture.svc.Get(context.Background(), userScope())

	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestService_RequiresScope(t *testing.T) {
	fixture := newServiceFixture(t)

	_, err := fixture.svc.Get(context.Background(), Scope{})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
