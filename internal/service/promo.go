package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gorm.io/gorm"
)

// Clock returns the current time. Services default to time.Now.
type Clock func() time.Time

func orNow(clock Clock) Clock {
	if clock == nil {
		return time.Now
	}
	return clock
}

type PromoService interface {
	// Validate previews a code against subtotal. It never consumes a use.
	Validate(ctx context.Context, code string, subtotal decimal.Decimal) (model.Discount, error)
	Create(ctx context.Context, req *dto.CreatePromoCodeRequest) (*model.PromoCode, error)
	List(ctx context.Context) ([]*model.PromoCode, error)
	Toggle(ctx context.Context, promoID string) (*model.PromoCode, error)
}

type promoServiceImpl struct {
	db        *gorm.DB
	promoRepo repository.PromoCodeRepository
	clock     Clock
	log       *logrus.Logger
}

func NewPromoService(
	db *gorm.DB,
	promoRepo repository.PromoCodeRepository,
	clock Clock,
	log *logrus.Logger,
) PromoService {
	return &promoServiceImpl{
		db:        db,
		promoRepo: promoRepo,
		clock:     orNow(clock),
		log:       log,
	}
}

func (s *promoServiceImpl) Validate(ctx context.Context, code string, subtotal decimal.Decimal) (model.Discount, error) {
	if model.NormalizePromoCode(code) == "" {
		return model.Discount{}, model.NewValidationError("code", "must not be empty")
	}

	promo, err := s.promoRepo.FindByCode(ctx, s.db, code)
	if err != nil {
		return model.Discount{}, err
	}

	return pricing.EvaluatePromo(promo, subtotal, s.clock())
}

func (s *promoServiceImpl) Create(ctx context.Context, req *dto.CreatePromoCodeRequest) (*model.PromoCode, error) {
	discountType := model.DiscountType(req.DiscountType)
	switch discountType {
	case model.DiscountPercentage:
		if req.DiscountValue.GreaterThan(decimal.NewFromInt(100)) {
			return nil, model.NewValidationError("discountValue", "percentage must not exceed 100")
		}
	case model.DiscountFixed:
		if req.MaxDiscount != nil {
			return nil, model.NewValidationError("maxDiscount", "only applies to percentage discounts")
		}
	default:
		return nil, model.NewValidationError("discountType", "must be percentage or fixed")
	}
	if !req.DiscountValue.IsPositive() {
		return nil, model.NewValidationError("discountValue", "must be positive")
	}
	if req.MinPurchase.IsNegative() {
		return nil, model.NewValidationError("minPurchase", "must not be negative")
	}
	if req.MaxDiscount != nil && !req.MaxDiscount.IsPositive() {
		return nil, model.NewValidationError("maxDiscount", "must be positive")
	}
	if req.UsageLimit < 1 {
		return nil, model.NewValidationError("usageLimit", "must be at least 1")
	}
	if !req.ValidUntil.After(req.ValidFrom) {
		return nil, model.NewValidationError("validUntil", "must be after validFrom")
	}

	promo := &model.PromoCode{
		ID:            uuid.NewString(),
		Code:          model.NormalizePromoCode(req.Code),
		Description:   req.Description,
		DiscountType:  discountType,
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		MaxDiscount:   req.MaxDiscount,
		UsageLimit:    req.UsageLimit,
		ValidFrom:     req.ValidFrom,
		ValidUntil:    req.ValidUntil,
		IsActive:      true,
	}
	if promo.Code == "" {
		return nil, model.NewValidationError("code", "must not be empty")
	}

	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, fmt.Errorf("create promo code: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"promo_code": promo.Code,
		"type":       promo.DiscountType,
		"limit":      promo.UsageLimit,
	}).Info("promo code created")

	return promo, nil
}

func (s *promoServiceImpl) List(ctx context.Context) ([]*model.PromoCode, error) {
	return s.promoRepo.List(ctx)
}

func (s *promoServiceImpl) Toggle(ctx context.Context, promoID string) (*model.PromoCode, error) {
	promo, err := s.promoRepo.Toggle(ctx, promoID)
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"promo_code": promo.Code,
		"is_active":  promo.IsActive,
	}).Info("promo code toggled")

	return promo, nil
}
