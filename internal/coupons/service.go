package coupons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/db"
	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
)

type couponRepo interface {
	Create(ctx context.Context, coupon *models.Coupon) error
	Update(ctx context.Context, coupon *models.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Coupon, error)
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	IncrementUsage(ctx context.Context, code string) error
}

// Service validates coupon codes for the cart engine and backs the admin
// console CRUD.
type Service struct {
	repo couponRepo
	now  func() time.Time
}

func NewService(repo couponRepo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("coupon service requires a repository")
	}
	return &Service{repo: repo, now: time.Now}, nil
}

// NormalizeCode uppercases and trims a raw coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate resolves a code to an applicable coupon. Unknown, disabled and
// expired codes each come back as typed errors the transport layer maps to
// client responses.
func (s *Service) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	coupon, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if !coupon.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon is no longer active")
	}
	if coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon has expired")
	}
	return coupon, nil
}

// CreateInput is the admin payload for a new coupon.
type CreateInput struct {
	Code               string     `json:"code" validate:"required,min=2,max=32"`
	DiscountPercentage float64    `json:"discount_percentage" validate:"required,gt=0,lte=100"`
	IsActive           *bool      `json:"is_active"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Coupon, error) {
	code := NormalizeCode(in.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}
	if in.DiscountPercentage <= 0 || in.DiscountPercentage > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
	}
	coupon := &models.Coupon{
		Code:               code,
		DiscountPercentage: in.DiscountPercentage,
		IsActive:           true,
		ExpiresAt:          in.ExpiresAt,
	}
	if in.IsActive != nil {
		coupon.IsActive = *in.IsActive
	}
	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "coupon code already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating coupon")
	}
	return coupon, nil
}

// UpdateInput carries partial admin updates; nil fields are left unchanged.
type UpdateInput struct {
	DiscountPercentage *float64   `json:"discount_percentage" validate:"omitempty,gt=0,lte=100"`
	IsActive           *bool      `json:"is_active"`
	ExpiresAt          *time.Time `json:"expires_at"`
	ClearExpiry        bool       `json:"clear_expiry"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if in.DiscountPercentage != nil {
		if *in.DiscountPercentage <= 0 || *in.DiscountPercentage > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount percentage must be between 0 and 100")
		}
		coupon.DiscountPercentage = *in.DiscountPercentage
	}
	if in.IsActive != nil {
		coupon.IsActive = *in.IsActive
	}
	if in.ClearExpiry {
		coupon.ExpiresAt = nil
	} else if in.ExpiresAt != nil {
		coupon.ExpiresAt = in.ExpiresAt
	}
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating coupon")
	}
	return coupon, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if coupon == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting coupon")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading coupon")
	}
	if coupon == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return coupon, nil
}

func (s *Service) List(ctx context.Context) ([]models.Coupon, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing coupons")
	}
	return rows, nil
}

// MarkUsed records one redemption of the code. Called after checkout; a
// failed bump is not worth failing the order for, so callers log and move on.
func (s *Service) MarkUsed(ctx context.Context, code string) error {
	return s.repo.IncrementUsage(ctx, NormalizeCode(code))
}
