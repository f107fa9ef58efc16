package analytics

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	"github.com/dukkanhq/dukkan-backend/pkg/enums"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/types"
)

const recentOrderLimit = 10

// Summary is the console dashboard payload: order and revenue aggregates
// computed straight from the operational tables.
type Summary struct {
	TotalOrders      int64            `json:"total_orders"`
	OrdersByStatus   map[string]int64 `json:"orders_by_status"`
	DeliveredRevenue types.Money      `json:"delivered_revenue"`
	PendingRevenue   types.Money      `json:"pending_revenue"`
	TotalCustomers   int64            `json:"total_customers"`
	TotalProducts    int64            `json:"total_products"`
	ActiveCoupons    int64            `json:"active_coupons"`
	RecentOrders     []models.Order   `json:"recent_orders"`
}

// Service computes console dashboard aggregates.
type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) (*Service, error) {
	if db == nil {
		return nil, errors.New("analytics service requires a database handle")
	}
	return &Service{db: db}, nil
}

// Summary aggregates order counts, revenue and catalog size in one pass over
// the operational tables.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{OrdersByStatus: map[string]int64{}}
	qb := s.db.WithContext(ctx)

	if err := qb.Model(&models.Order{}).Count(&summary.TotalOrders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting orders")
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := qb.Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "grouping orders by status")
	}
	for _, row := range statusRows {
		summary.OrdersByStatus[row.Status] = row.Count
	}

	delivered, err := s.sumTotals(ctx, enums.OrderStatusDelivered)
	if err != nil {
		return nil, err
	}
	summary.DeliveredRevenue = delivered

	pending, err := s.sumTotals(ctx, enums.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	summary.PendingRevenue = pending

	if err := qb.Model(&models.User{}).
		Where("role = ?", enums.UserRoleCustomer).
		Count(&summary.TotalCustomers).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting customers")
	}
	if err := qb.Model(&models.Product{}).
		Where("is_active = ?", true).
		Count(&summary.TotalProducts).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting products")
	}
	if err := qb.Model(&models.Coupon{}).
		Where("is_active = ?", true).
		Count(&summary.ActiveCoupons).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting coupons")
	}

	if err := qb.Model(&models.Order{}).
		Order("created_at DESC").
		Limit(recentOrderLimit).
		Find(&summary.RecentOrders).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading recent orders")
	}
	return summary, nil
}

func (s *Service) sumTotals(ctx context.Context, status enums.OrderStatus) (types.Money, error) {
	var row struct {
		Total types.Money
	}
	err := s.db.WithContext(ctx).Model(&models.Order{}).
		Select("COALESCE(SUM(total), 0) AS total").
		Where("status = ?", status).
		Scan(&row).Error
	if err != nil {
		return types.Money{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "summing order totals")
	}
	return row.Total.Round2(), nil
}
