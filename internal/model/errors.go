package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInactive          = errors.New("promo code is not active")
	ErrExpired           = errors.New("promo code is expired")
	ErrUsageExceeded     = errors.New("promo code usage limit reached")
	ErrBelowMinimum      = errors.New("subtotal below minimum purchase")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrInfrastructure    = errors.New("infrastructure failure")
)

// BelowMinimumError carries the amount the buyer still has to add.
type BelowMinimumError struct {
	MinPurchase decimal.Decimal
	Subtotal    decimal.Decimal
}

func (e *BelowMinimumError) Shortfall() decimal.Decimal {
	return e.MinPurchase.Sub(e.Subtotal)
}

func (e *BelowMinimumError) Error() string {
	return fmt.Sprintf("subtotal %s below minimum purchase %s", e.Subtotal.StringFixed(2), e.MinPurchase.StringFixed(2))
}

func (e *BelowMinimumError) Is(target error) bool { return target == ErrBelowMinimum }

type InsufficientStockError struct {
	BookID    string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %s: available %d, requested %d", e.BookID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

type TransitionError struct {
	From TransactionStatus
	To   TransactionStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool { return target == ErrInvalidTransition }

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InfrastructureError wraps storage or network failures. Its message is never shown to users.
type InfrastructureError struct {
	Op  string
	Err error
}

func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfrastructureError) Unwrap() error { return e.Err }

func (e *InfrastructureError) Is(target error) bool { return target == ErrInfrastructure }
