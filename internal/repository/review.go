package repository

import (
	"context"
	"errors"

	"github.com/khaisazumma/rebooku-sub000/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *model.Review) error
	Exists(ctx context.Context, tx *gorm.DB, bookID, buyerID string) (bool, error)
	ListByBook(ctx context.Context, bookID string, page, limit int) ([]*model.Review, int64, error)
}

type reviewRepoImpl struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepoImpl{
		db: db,
	}
}

func (r *reviewRepoImpl) Create(ctx context.Context, tx *gorm.DB, review *model.Review) error {
	err := tx.WithContext(ctx).Create(review).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return model.NewValidationError("bookId", "book already reviewed")
	}

	return classify("create review", err)
}

func (r *reviewRepoImpl) Exists(ctx context.Context, tx *gorm.DB, bookID, buyerID string) (bool, error) {
	var count int64
	err := tx.WithContext(ctx).
		Model(&model.Review{}).
		Where("book_id = ? AND buyer_id = ?", bookID, buyerID).
		Count(&count).Error
	if err != nil {
		return false, classify("check review", err)
	}

	return count > 0, nil
}

func (r *reviewRepoImpl) ListByBook(ctx context.Context, bookID string, page, limit int) ([]*model.Review, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Review{}).
		Where("book_id = ?", bookID).
		Count(&total).Error
	if err != nil {
		return nil, 0, classify("count reviews", err)
	}

	limit, offset := paginate(page, limit)

	var reviews []*model.Review
	err = r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&reviews).Error
	if err != nil {
		return nil, 0, classify("list reviews", err)
	}

	return reviews, total, nil
}
