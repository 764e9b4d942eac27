package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	BuyerID  string          `gorm:"primaryKey;size:64;not null" json:"-"`
	BookID   string          `gorm:"primaryKey;size:36;not null" json:"bookId"`
	Title    string          `gorm:"size:255;not null" json:"title"`
	Price    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	Image    string          `gorm:"size:255" json:"image,omitempty"`
	SellerID string          `gorm:"size:64" json:"sellerId"`
	Quantity int             `gorm:"not null" json:"quantity"`
	AddedAt  time.Time       `gorm:"autoCreateTime" json:"addedAt"`
}

type Cart struct {
	Items    []*CartItem     `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
