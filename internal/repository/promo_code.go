package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromoCodeRepository interface {
	Seed(ctx context.Context, now time.Time) error
	Create(ctx context.Context, promo *model.PromoCode) error
	FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.PromoCode, error)
	FindByID(ctx context.Context, tx *gorm.DB, promoID string) (*model.PromoCode, error)
	List(ctx context.Context) ([]*model.PromoCode, error)
	IncrementUsage(ctx context.Context, tx *gorm.DB, promoID string) error
	Toggle(ctx context.Context, promoID string) (*model.PromoCode, error)
}

type promoCodeRepoImpl struct {
	db *gorm.DB
}

func NewPromoCodeRepository(db *gorm.DB) PromoCodeRepository {
	return &promoCodeRepoImpl{
		db: db,
	}
}

func (r *promoCodeRepoImpl) Seed(ctx context.Context, now time.Time) error {
	maxDiscount := decimal.NewFromInt(20000)
	promos := []model.PromoCode{
		{ID: "7c1e4f10-0000-4000-8000-000000000001", Code: "WELCOME10", Description: "Rp 10.000 off your first order", DiscountType: model.DiscountFixed, DiscountValue: decimal.NewFromInt(10000), MinPurchase: decimal.Zero, UsageLimit: 100, ValidFrom: now, ValidUntil: now.AddDate(1, 0, 0), IsActive: true},
		{ID: "7c1e4f10-0000-4000-8000-000000000002", Code: "DISC10", Description: "10% off, up to Rp 20.000", DiscountType: model.DiscountPercentage, DiscountValue: decimal.NewFromInt(10), MinPurchase: decimal.NewFromInt(50000), MaxDiscount: &maxDiscount, UsageLimit: 500, ValidFrom: now, ValidUntil: now.AddDate(0, 3, 0), IsActive: true},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&promos).Error
}

func (r *promoCodeRepoImpl) Create(ctx context.Context, promo *model.PromoCode) error {
	err := r.db.WithContext(ctx).Create(promo).Error
	if err != nil {
		return classify("create promo code "+promo.Code, err)
	}
	return nil
}

func (r *promoCodeRepoImpl) FindByCode(ctx context.Context, tx *gorm.DB, code string) (*model.PromoCode, error) {
	var promo model.PromoCode
	err := tx.WithContext(ctx).
		Where("code = ?", model.NormalizePromoCode(code)).
		First(&promo).Error
	if err != nil {
		return nil, classify(fmt.Sprintf("find promo code %q", code), err)
	}

	return &promo, nil
}

func (r *promoCodeRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, promoID string) (*model.PromoCode, error) {
	var promo model.PromoCode
	err := tx.WithContext(ctx).
		Where("id = ?", promoID).
		First(&promo).Error
	if err != nil {
		return nil, classify("find promo code "+promoID, err)
	}

	return &promo, nil
}

func (r *promoCodeRepoImpl) List(ctx context.Context) ([]*model.PromoCode, error) {
	var promos []*model.PromoCode
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&promos).Error
	if err != nil {
		return nil, classify("list promo codes", err)
	}

	return promos, nil
}

// IncrementUsage consumes one use. The guard in the WHERE clause makes the limit hold under concurrent checkouts.
func (r *promoCodeRepoImpl) IncrementUsage(ctx context.Context, tx *gorm.DB, promoID string) error {
	result := tx.WithContext(ctx).
		Model(&model.PromoCode{}).
		Where("id = ? AND used_count < usage_limit AND is_active = ?", promoID, true).
		Updates(map[string]interface{}{
			"used_count": gorm.Expr("used_count + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify("increment promo usage", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("promo code %s: %w", promoID, model.ErrUsageExceeded)
	}

	return nil
}

func (r *promoCodeRepoImpl) Toggle(ctx context.Context, promoID string) (*model.PromoCode, error) {
	var promo model.PromoCode
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.PromoCode{}).
			Where("id = ?", promoID).
			Updates(map[string]interface{}{
				"is_active":  gorm.Expr("NOT is_active"),
				"updated_at": time.Now(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Where("id = ?", promoID).First(&promo).Error
	})
	if err != nil {
		return nil, classify("toggle promo code "+promoID, err)
	}

	return &promo, nil
}
