package repository

import (
	"errors"
	"fmt"

	"github.com/khaisazumma/rebooku-sub000/internal/model"

	"gorm.io/gorm"
)

// classify turns a gorm error into a domain error so nothing storage-specific leaks past this package.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, model.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, &model.ValidationError{Reason: "already exists"})
	}
	return &model.InfrastructureError{Op: op, Err: err}
}

func paginate(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 12
	}
	if limit > 100 {
		limit = 100
	}
	return limit, (page - 1) * limit
}
