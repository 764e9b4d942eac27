package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusShipped    TransactionStatus = "shipped"
	StatusDelivered  TransactionStatus = "delivered"
	StatusCancelled  TransactionStatus = "cancelled"
)

var transitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  nil,
	StatusCancelled:  nil,
}

func ParseTransactionStatus(s string) (TransactionStatus, error) {
	status := TransactionStatus(s)
	if _, ok := transitions[status]; !ok {
		return "", NewValidationError("status", "unknown order status "+s)
	}
	return status, nil
}

// Label is the single source of user-facing status names.
func (s TransactionStatus) Label() string {
	switch s {
	case StatusPending:
		return "Awaiting confirmation"
	case StatusProcessing:
		return "Being processed"
	case StatusShipped:
		return "Shipped"
	case StatusDelivered:
		return "Delivered"
	case StatusCancelled:
		return "Cancelled"
	}
	return "Unknown"
}

func (s TransactionStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Restockable reports whether cancelling from s returns the items to stock.
func (s TransactionStatus) Restockable() bool {
	return s == StatusPending || s == StatusProcessing
}

type ShippingAddress struct {
	RecipientName string `gorm:"size:128" json:"recipientName"`
	Phone         string `gorm:"size:32" json:"phone"`
	Street        string `gorm:"size:255" json:"street"`
	City          string `gorm:"size:64" json:"city"`
	Province      string `gorm:"size:64" json:"province"`
	PostalCode    string `gorm:"size:16" json:"postalCode"`
}

type Transaction struct {
	ID               string            `gorm:"primaryKey;size:36;not null" json:"id"`
	TransactionID    string            `gorm:"size:32;uniqueIndex;not null" json:"transactionId"`
	BuyerID          string            `gorm:"size:64;index;not null" json:"buyerId"`
	Items            []TransactionItem `gorm:"foreignKey:OrderID;references:ID" json:"items"`
	Subtotal         decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"subtotal"`
	ShippingOption   ShippingOption    `gorm:"size:16;not null" json:"shippingOption"`
	ShippingFee      decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"shippingFee"`
	PaymentMethod    PaymentMethod     `gorm:"size:16;not null" json:"paymentMethod"`
	PaymentFee       decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"paymentFee"`
	Discount         decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"discount"`
	FinalAmount      decimal.Decimal   `gorm:"type:decimal(20,2);not null" json:"finalAmount"`
	AppliedPromoCode *string           `gorm:"size:32;index" json:"appliedPromoCode"`
	ShippingAddress  ShippingAddress   `gorm:"embedded;embeddedPrefix:ship_" json:"shippingAddress"`
	Status           TransactionStatus `gorm:"size:16;index;not null" json:"status"`

	TrackingNumber    string     `gorm:"size:64" json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	CancelReason      string     `gorm:"size:255" json:"cancelReason,omitempty"`

	ProcessedAt *time.Time `json:"processedAt,omitempty"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type TransactionItem struct {
	ID uint `gorm:"primaryKey" json:"-"`
	// FK -> transactions.id
	OrderID   string          `gorm:"size:36;index;not null" json:"-"`
	BookID    string          `gorm:"size:36;index;not null" json:"bookId"`
	Title     string          `gorm:"size:255;not null" json:"title"`
	SellerID  string          `gorm:"size:64;index" json:"sellerId"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"unitPrice"`
	LineTotal decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"lineTotal"`
}

// MarshalJSON adds the status label so every view renders the same text.
func (t Transaction) MarshalJSON() ([]byte, error) {
	type alias Transaction
	return json.Marshal(struct {
		alias
		StatusLabel string `json:"statusLabel"`
	}{alias(t), t.Status.Label()})
}
