package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookCondition string

const (
	ConditionNew       BookCondition = "new"
	ConditionExcellent BookCondition = "excellent"
	ConditionGood      BookCondition = "good"
	ConditionFair      BookCondition = "fair"
	ConditionPoor      BookCondition = "poor"
)

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookSold      BookStatus = "sold"
	BookPending   BookStatus = "pending" // delisted or awaiting review
)

type Book struct {
	ID            string          `gorm:"primaryKey;size:36;not null" json:"id"`
	Title         string          `gorm:"size:255;index;not null" json:"title"`
	Author        string          `gorm:"size:128;index" json:"author"`
	Description   string          `gorm:"type:text" json:"description,omitempty"`
	Image         string          `gorm:"size:255" json:"image,omitempty"`
	Price         decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"originalPrice"`
	Condition     BookCondition   `gorm:"size:16;not null" json:"condition"`
	Category      string          `gorm:"size:64;index" json:"category"`
	Stock         int             `gorm:"not null;default:0" json:"stock"`
	SellerID      string          `gorm:"size:64;index;not null" json:"sellerId"`
	Status        BookStatus      `gorm:"size:16;index;not null" json:"status"`
	AverageRating float64         `gorm:"not null;default:0" json:"averageRating"`
	ReviewCount   int             `gorm:"not null;default:0" json:"reviewCount"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func ValidCondition(c BookCondition) bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

func ValidBookStatus(s BookStatus) bool {
	switch s {
	case BookAvailable, BookSold, BookPending:
		return true
	}
	return false
}

type BookFilter struct {
	Query     string
	Category  string
	Condition BookCondition
	SellerID  string
	// IncludeUnavailable lists sold and delisted books too.
	IncludeUnavailable bool
	Page               int
	Limit              int
}

type Review struct {
	ID            string    `gorm:"primaryKey;size:36;not null" json:"id"`
	BookID        string    `gorm:"size:36;uniqueIndex:idx_reviews_book_buyer;not null" json:"bookId"`
	BuyerID       string    `gorm:"size:64;uniqueIndex:idx_reviews_book_buyer;not null" json:"buyerId"`
	TransactionID string    `gorm:"size:36;index" json:"transactionId"`
	Rating        int       `gorm:"not null" json:"rating"`
	Comment       string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}
