package cart

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/logger"
	redisclient "github.com/dukkanhq/dukkan-backend/pkg/redis"
	"github.com/dukkanhq/dukkan-backend/pkg/types"

	"github.com/dukkanhq/dukkan-backend/internal/pricing"
)

// Scope identifies whose cart an operation targets. Guests carry a device
// session id; authenticated callers carry a user id. Evaluated fresh on every
// call so a login mid-session switches stores without restarts.
type Scope struct {
	SessionID string
	UserID    *uuid.UUID
}

func (s Scope) Authenticated() bool {
	return s.UserID != nil && *s.UserID != uuid.Nil
}

// Snapshot is what every cart operation returns: the current aggregate plus
// derived totals. RemoteSynced is false when the server-side record write
// failed and the session copy is ahead of the database.
type Snapshot struct {
	Items        []LineItem `json:"items"`
	Coupon       *Coupon    `json:"coupon,omitempty"`
	Totals       Totals     `json:"totals"`
	RemoteSynced bool       `json:"remote_synced"`
}

// ProductLoader supplies live catalog rows for snapshot refreshes.
type ProductLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// CouponValidator checks a code and returns the active coupon it names.
type CouponValidator interface {
	Validate(ctx context.Context, code string) (*models.Coupon, error)
}

// Service runs every cart mutation. Operations are serialized with a mutex so
// concurrent requests against the same snapshot cannot interleave a
// read-modify-write; the session store write inside the critical section is
// what makes each operation land whole.
type Service struct {
	sessions SessionStore
	records  RecordStore
	products ProductLoader
	coupons  CouponValidator
	log      *logger.Logger
	guestTTL time.Duration

	mu sync.Mutex
}

func NewService(sessions SessionStore, records RecordStore, products ProductLoader, coupons CouponValidator, log *logger.Logger, guestTTL time.Duration) (*Service, error) {
	if sessions == nil {
		return nil, errors.New("cart service requires a session store")
	}
	if records == nil {
		return nil, errors.New("cart service requires a record store")
	}
	if products == nil {
		return nil, errors.New("cart service requires a product loader")
	}
	if coupons == nil {
		return nil, errors.New("cart service requires a coupon validator")
	}
	if log == nil {
		return nil, errors.New("cart service requires a logger")
	}
	if guestTTL <= 0 {
		return nil, errors.New("cart service requires a positive guest ttl")
	}
	return &Service{
		sessions: sessions,
		records:  records,
		products: products,
		coupons:  coupons,
		log:      log,
		guestTTL: guestTTL,
	}, nil
}

// Get returns the current cart with freshly derived totals.
func (s *Service) Get(ctx context.Context, scope Scope) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	return s.snapshot(c, true), nil
}

// Add puts quantity units of a product into the cart. An existing line for
// the same product has its quantity incremented and its pricing snapshot
// refreshed from the catalog. Quantities below one are normalized to one.
func (s *Service) Add(ctx context.Context, scope Scope, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		quantity = 1
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product for cart")
	}
	if product == nil || !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	c.upsertLine(lineFromProduct(*product, quantity))
	synced := s.persist(ctx, scope, c)
	return s.snapshot(c, synced), nil
}

// UpdateQuantity sets a line to an exact quantity. Zero removes the line,
// negative values clamp to one.
func (s *Service) UpdateQuantity(ctx context.Context, scope Scope, productID uuid.UUID, quantity int) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	if quantity == 0 {
		return s.Remove(ctx, scope, productID)
	}
	if quantity < 0 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	if !c.setQuantity(productID, quantity) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	synced := s.persist(ctx, scope, c)
	return s.snapshot(c, synced), nil
}

// Remove deletes a line. Removing a product that is not in the cart is a
// no-op and does not persist anything.
func (s *Service) Remove(ctx context.Context, scope Scope, productID uuid.UUID) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	if !c.removeLine(productID) {
		return s.snapshot(c, true), nil
	}
	synced := s.persist(ctx, scope, c)
	return s.snapshot(c, synced), nil
}

// Clear drops every line and detaches the coupon. Store failures are
// collected and logged but the caller still gets the empty cart back; the
// next write will reconcile a missed delete.
func (s *Service) Clear(ctx context.Context, scope Scope) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs error
	if err := s.sessions.Del(ctx, s.key(scope)); err != nil {
		errs = multierr.Append(errs, err)
	}
	synced := true
	if scope.Authenticated() {
		if err := s.records.DeleteByUser(ctx, *scope.UserID); err != nil {
			errs = multierr.Append(errs, err)
			synced = false
		}
	}
	if errs != nil {
		s.log.Error(ctx, "clearing cart stores", errs)
	}
	return s.snapshot(Cart{}, synced), nil
}

// ApplyCoupon validates a code and attaches it to the cart. Only
// authenticated users may hold a coupon; applying a second code replaces the
// first.
func (s *Service) ApplyCoupon(ctx context.Context, scope Scope, code string) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if !scope.Authenticated() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to apply a coupon")
	}

	coupon, err := s.coupons.Validate(ctx, code)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	c.Coupon = &Coupon{
		Code:               coupon.Code,
		DiscountPercentage: coupon.DiscountPercentage,
		Applied:            true,
	}
	synced := s.persist(ctx, scope, c)
	return s.snapshot(c, synced), nil
}

// RemoveCoupon detaches the coupon, leaving items untouched. Removing when no
// coupon is set is a no-op.
func (s *Service) RemoveCoupon(ctx context.Context, scope Scope) (*Snapshot, error) {
	if err := requireScope(scope); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.load(ctx, scope)
	if c.Coupon == nil {
		return s.snapshot(c, true), nil
	}
	c.Coupon = nil
	synced := s.persist(ctx, scope, c)
	return s.snapshot(c, synced), nil
}

func requireScope(scope Scope) error {
	if scope.Authenticated() || strings.TrimSpace(scope.SessionID) != "" {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "cart scope requires a session id or an authenticated user")
}

func (s *Service) key(scope Scope) string {
	if scope.Authenticated() {
		return s.sessions.UserCartKey(scope.UserID.String())
	}
	return s.sessions.GuestCartKey(scope.SessionID)
}

// load reads the session snapshot, falling back to the server record for
// authenticated users. Read failures degrade to an empty cart rather than
// failing the operation.
func (s *Service) load(ctx context.Context, scope Scope) Cart {
	raw, err := s.sessions.Get(ctx, s.key(scope))
	switch {
	case err == nil:
		var c Cart
		if jsonErr := json.Unmarshal([]byte(raw), &c); jsonErr == nil {
			return c
		}
		s.log.Warn(ctx, "discarding unreadable cart snapshot")
	case !errors.Is(err, redisclient.Nil):
		s.log.Error(ctx, "reading cart snapshot", err)
	}

	if scope.Authenticated() {
		record, recErr := s.records.FindByUser(ctx, *scope.UserID)
		if recErr != nil {
			s.log.Error(ctx, "loading cart record", recErr)
		} else if record != nil {
			return cartFromRecord(record)
		}
	}
	return Cart{}
}

// persist writes the session snapshot, then mirrors authenticated carts to
// the database. The record write is best effort: a failure is logged and
// reported through RemoteSynced, never surfaced as an operation error.
func (s *Service) persist(ctx context.Context, scope Scope, c Cart) bool {
	payload, err := json.Marshal(c)
	if err != nil {
		s.log.Error(ctx, "encoding cart snapshot", err)
		return false
	}
	if err := s.sessions.Set(ctx, s.key(scope), payload, s.guestTTL); err != nil {
		s.log.Error(ctx, "writing cart snapshot", err)
	}
	if !scope.Authenticated() {
		return true
	}
	if err := s.records.Upsert(ctx, *scope.UserID, c); err != nil {
		s.log.Error(ctx, "syncing cart record", err)
		return false
	}
	return true
}

func (s *Service) snapshot(c Cart, synced bool) *Snapshot {
	return &Snapshot{
		Items:        c.Items,
		Coupon:       c.Coupon,
		Totals:       CalculateTotals(c),
		RemoteSynced: synced,
	}
}

func lineFromProduct(p models.Product, quantity int) LineItem {
	resolved := pricing.Resolve(pricing.FromModel(p))
	name := p.NameAr
	if name == "" {
		name = p.NameEn
	}
	return LineItem{
		ProductID:          p.ID,
		Name:               name,
		Image:              p.FeaturedImage(),
		Quantity:           quantity,
		BasePrice:          types.NewMoney(resolved.Price),
		DiscountedPrice:    types.NewMoney(resolved.DiscountedPrice),
		IsDiscounted:       resolved.IsDiscounted,
		DiscountPercentage: resolved.DiscountPercentage.InexactFloat64(),
	}
}
