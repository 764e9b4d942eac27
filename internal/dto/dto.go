package dto

import (
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/shopspring/decimal"
)

type Page struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type CreateBookRequest struct {
	Title         string          `json:"title" validate:"required,max=255"`
	Author        string          `json:"author" validate:"required,max=128"`
	Description   string          `json:"description"`
	Image         string          `json:"image" validate:"omitempty,max=255"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Condition     string          `json:"condition" validate:"required,oneof=new excellent good fair poor"`
	Category      string          `json:"category" validate:"required,max=64"`
	Stock         int             `json:"stock" validate:"min=1"`
}

type UpdateBookRequest struct {
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	Status      *string          `json:"status" validate:"omitempty,oneof=available sold pending"`
	Description *string          `json:"description"`
}

type BookList struct {
	Books []*model.Book `json:"books"`
	Page
}

type ReviewList struct {
	Reviews []*model.Review `json:"reviews"`
	Page
}

type AddCartItemRequest struct {
	BookID   string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1,max=1000"`
}

type SetCartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0,max=1000"`
}

type ValidatePromoRequest struct {
	Code     string          `json:"code" validate:"required,max=32"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ValidatePromoResponse struct {
	Valid     bool             `json:"valid"`
	Discount  decimal.Decimal  `json:"discount"`
	Message   string           `json:"message"`
	Shortfall *decimal.Decimal `json:"shortfall,omitempty"`
}

type CheckoutItem struct {
	BookID   string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1,max=1000"`
}

type ShippingAddress struct {
	RecipientName string `json:"recipientName" validate:"required,max=128"`
	Phone         string `json:"phone" validate:"required,max=32"`
	Street        string `json:"street" validate:"required,max=255"`
	City          string `json:"city" validate:"required,max=64"`
	Province      string `json:"province" validate:"max=64"`
	PostalCode    string `json:"postalCode" validate:"max=16"`
}

func (a ShippingAddress) ToModel() model.ShippingAddress {
	return model.ShippingAddress{
		RecipientName: a.RecipientName,
		Phone:         a.Phone,
		Street:        a.Street,
		City:          a.City,
		Province:      a.Province,
		PostalCode:    a.PostalCode,
	}
}

// CheckoutRequest places an order for Items, or for the caller's cart when Items is empty.
type CheckoutRequest struct {
	Items           []*CheckoutItem `json:"items" validate:"omitempty,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	ShippingOption  string          `json:"shippingOption" validate:"required,oneof=regular express same_day"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required,oneof=bank_transfer e_wallet cod"`
	PromoCode       string          `json:"promoCode" validate:"omitempty,max=32"`
}

type CheckoutResponse struct {
	TransactionID string              `json:"transactionId"`
	Status        string              `json:"status"`
	StatusLabel   string              `json:"statusLabel"`
	Totals        pricing.OrderTotals `json:"totals"`
	Transaction   *model.Transaction  `json:"transaction"`
}

type TransactionList struct {
	Transactions []*model.Transaction `json:"transactions"`
	Page
}

type UpdateStatusRequest struct {
	Status            string     `json:"status" validate:"required"`
	TrackingNumber    string     `json:"trackingNumber" validate:"max=64"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
	Reason            string     `json:"reason" validate:"max=255"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"max=255"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type CreatePromoCodeRequest struct {
	Code          string           `json:"code" validate:"required,alphanum,max=32"`
	Description   string           `json:"description" validate:"max=255"`
	DiscountType  string           `json:"discountType" validate:"required,oneof=percentage fixed"`
	DiscountValue decimal.Decimal  `json:"discountValue"`
	MinPurchase   decimal.Decimal  `json:"minPurchase"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount"`
	UsageLimit    int              `json:"usageLimit" validate:"min=1"`
	ValidFrom     time.Time        `json:"validFrom" validate:"required"`
	ValidUntil    time.Time        `json:"validUntil" validate:"required"`
}

type ToggleResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	IsActive bool   `json:"isActive"`
}
