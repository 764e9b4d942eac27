// Package pricing holds the pure checkout arithmetic: promo evaluation and order totals.
// Nothing here touches storage, so preview and commit share exactly the same rules.
package pricing

import (
	"fmt"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// EvaluatePromo checks a promo code against subtotal at time now and computes the discount.
func EvaluatePromo(promo *model.PromoCode, subtotal decimal.Decimal, now time.Time) (model.Discount, error) {
	if subtotal.IsNegative() {
		return model.Discount{}, model.NewValidationError("subtotal", "must not be negative")
	}
	if !promo.IsActive {
		return model.Discount{}, fmt.Errorf("promo code %s: %w", promo.Code, model.ErrInactive)
	}
	if now.Before(promo.ValidFrom) || now.After(promo.ValidUntil) {
		return model.Discount{}, fmt.Errorf("promo code %s: %w", promo.Code, model.ErrExpired)
	}
	if promo.UsedCount >= promo.UsageLimit {
		return model.Discount{}, fmt.Errorf("promo code %s: %w", promo.Code, model.ErrUsageExceeded)
	}
	if subtotal.LessThan(promo.MinPurchase) {
		return model.Discount{}, &model.BelowMinimumError{MinPurchase: promo.MinPurchase, Subtotal: subtotal}
	}

	var amount decimal.Decimal
	switch promo.DiscountType {
	case model.DiscountPercentage:
		amount = subtotal.Mul(promo.DiscountValue).Div(hundred).Round(2)
		if promo.MaxDiscount != nil && amount.GreaterThan(*promo.MaxDiscount) {
			amount = *promo.MaxDiscount
		}
	case model.DiscountFixed:
		amount = promo.DiscountValue
	default:
		return model.Discount{}, model.NewValidationError("discountType", "unknown discount type "+string(promo.DiscountType))
	}

	// a discount never exceeds what is being bought
	amount = decimal.Min(amount, subtotal)

	return model.Discount{
		Amount:      amount,
		PromoCodeID: promo.ID,
		Code:        promo.Code,
	}, nil
}
