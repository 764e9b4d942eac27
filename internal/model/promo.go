package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type PromoCode struct {
	ID            string           `gorm:"primaryKey;size:36;not null" json:"id"`
	Code          string           `gorm:"size:32;uniqueIndex;not null" json:"code"` // always uppercase
	Description   string           `gorm:"size:255" json:"description,omitempty"`
	DiscountType  DiscountType     `gorm:"size:16;not null" json:"discountType"`
	DiscountValue decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"discountValue"`
	MinPurchase   decimal.Decimal  `gorm:"type:decimal(20,2);not null;default:0" json:"minPurchase"`
	MaxDiscount   *decimal.Decimal `gorm:"type:decimal(20,2)" json:"maxDiscount,omitempty"`
	UsageLimit    int              `gorm:"not null" json:"usageLimit"`
	UsedCount     int              `gorm:"not null;default:0" json:"usedCount"`
	ValidFrom     time.Time        `gorm:"not null" json:"validFrom"`
	ValidUntil    time.Time        `gorm:"not null" json:"validUntil"`
	IsActive      bool             `gorm:"not null;default:true" json:"isActive"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount is the outcome of a successful promo evaluation.
type Discount struct {
	Amount      decimal.Decimal `json:"amount"`
	PromoCodeID string          `json:"promoCodeId"`
	Code        string          `json:"code"`
}
