package orders

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/logger"
	"github.com/dukkanhq/dukkan-backend/pkg/pagination"
	"github.com/dukkanhq/dukkan-backend/pkg/types"

	"github.com/dukkanhq/dukkan-backend/internal/cart"
)

type orderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	List(ctx context.Context, filters ListFilters, page pagination.Params) (*ListResult, error)
}

type cartEngine interface {
	Get(ctx context.Context, scope cart.Scope) (*cart.Snapshot, error)
	Clear(ctx context.Context, scope cart.Scope) (*cart.Snapshot, error)
}

type couponMarker interface {
	MarkUsed(ctx context.Context, code string) error
}

// Service turns carts into orders and backs the admin order console.
type Service struct {
	repo    orderRepo
	carts   cartEngine
	coupons couponMarker
	log     *logger.Logger
}

func NewService(repo orderRepo, carts cartEngine, coupons couponMarker, log *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, errors.New("order service requires a repository")
	}
	if carts == nil {
		return nil, errors.New("order service requires a cart engine")
	}
	if coupons == nil {
		return nil, errors.New("order service requires a coupon marker")
	}
	if log == nil {
		return nil, errors.New("order service requires a logger")
	}
	return &Service{repo: repo, carts: carts, coupons: coupons, log: log}, nil
}

// CheckoutInput is the contact payload delivery needs. Orders are settled on
// delivery, so no payment fields exist here.
type CheckoutInput struct {
	CustomerName string  `json:"customer_name" validate:"required,max=255"`
	Phone        string  `json:"phone" validate:"required,max=32"`
	Address      string  `json:"address" validate:"required,max=1024"`
	Note         *string `json:"note" validate:"omitempty,max=2048"`
}

// Checkout snapshots the caller's cart into an immutable order and then
// empties the cart. Totals are copied from the cart engine verbatim; nothing
// is recomputed after this point.
func (s *Service) Checkout(ctx context.Context, scope cart.Scope, in CheckoutInput) (*models.Order, error) {
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(in.Phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	if strings.TrimSpace(in.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}

	snap, err := s.carts.Get(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(snap.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := orderFromSnapshot(scope, in, snap)
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}

	if order.CouponCode != nil {
		if err := s.coupons.MarkUsed(ctx, *order.CouponCode); err != nil {
			s.log.Warn(ctx, "recording coupon redemption failed")
		}
	}
	if _, err := s.carts.Clear(ctx, scope); err != nil {
		s.log.Error(ctx, "clearing cart after checkout", err)
	}
	return order, nil
}

func orderFromSnapshot(scope cart.Scope, in CheckoutInput, snap *cart.Snapshot) *models.Order {
	order := &models.Order{
		UserID:             scope.UserID,
		CustomerName:       strings.TrimSpace(in.CustomerName),
		Phone:              strings.TrimSpace(in.Phone),
		Address:            strings.TrimSpace(in.Address),
		Note:               in.Note,
		Status:             enums.OrderStatusPending,
		Subtotal:           snap.Totals.Subtotal,
		DiscountedSubtotal: snap.Totals.DiscountedSubtotal,
		CouponDiscount:     snap.Totals.CouponDiscount,
		Total:              snap.Totals.Total,
	}
	if snap.Coupon != nil && snap.Coupon.Applied {
		code := snap.Coupon.Code
		order.CouponCode = &code
	}
	for i, item := range snap.Items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		unit := item.DiscountedPrice
		if !unit.IsSet() {
			unit = item.BasePrice
		}
		lineTotal := unit.Decimal().Mul(decimal.NewFromInt(int64(quantity))).Round(2)
		order.Items = append(order.Items, models.OrderItem{
			ProductID:       item.ProductID,
			Name:            item.Name,
			Image:           item.Image,
			Quantity:        quantity,
			BasePrice:       item.BasePrice,
			DiscountedPrice: unit,
			LineTotal:       types.NewMoney(lineTotal),
			Position:        i,
		})
	}
	return order
}

// ListMine pages the authenticated user's own orders.
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, page pagination.Params) (*ListResult, error) {
	result, err := s.repo.List(ctx, ListFilters{UserID: &userID}, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return result, nil
}

// GetMine loads one order and enforces ownership.
func (s *Service) GetMine(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil || order.UserID == nil || *order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// AdminList pages all orders, optionally narrowed to one status.
func (s *Service) AdminList(ctx context.Context, status *enums.OrderStatus, page pagination.Params) (*ListResult, error) {
	if status != nil && !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	result, err := s.repo.List(ctx, ListFilters{Status: status}, page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return result, nil
}

func (s *Service) AdminGet(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	if order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

// UpdateStatus moves an order along its lifecycle, rejecting transitions the
// state machine does not allow.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	order, err := s.AdminGet(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status transition").
			WithDetails(map[string]string{"from": string(order.Status), "to": string(next)})
	}
	if err := s.repo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating order status")
	}
	order.Status = next
	return order, nil
}
