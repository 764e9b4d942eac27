package repository

import (
	"context"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository stores one cart per buyer. Quantities written through Upsert replace the stored value.
type CartRepository interface {
	Get(ctx context.Context, buyerID string) ([]*model.CartItem, error)
	Find(ctx context.Context, buyerID, bookID string) (*model.CartItem, error)
	Upsert(ctx context.Context, item *model.CartItem) error
	Remove(ctx context.Context, buyerID, bookID string) error
	Clear(ctx context.Context, buyerID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) Get(ctx context.Context, buyerID string) ([]*model.CartItem, error) {
	var items []*model.CartItem
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("added_at").
		Order("book_id").
		Find(&items).Error
	if err != nil {
		return nil, classify("get cart", err)
	}

	return items, nil
}

func (r *cartRepoImpl) Find(ctx context.Context, buyerID, bookID string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND book_id = ?", buyerID, bookID).
		First(&item).Error
	if err != nil {
		return nil, classify("find cart item "+bookID, err)
	}

	return &item, nil
}

func (r *cartRepoImpl) Upsert(ctx context.Context, item *model.CartItem) error {
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "buyer_id"}, {Name: "book_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "price", "image", "seller_id", "quantity",
		}),
	}).Create(item).Error

	return classify("upsert cart item", err)
}

func (r *cartRepoImpl) Remove(ctx context.Context, buyerID, bookID string) error {
	result := r.db.WithContext(ctx).
		Where("buyer_id = ? AND book_id = ?", buyerID, bookID).
		Delete(&model.CartItem{})
	if result.Error != nil {
		return classify("remove cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("remove cart item "+bookID, gorm.ErrRecordNotFound)
	}

	return nil
}

func (r *cartRepoImpl) Clear(ctx context.Context, buyerID string) error {
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Delete(&model.CartItem{}).Error

	return classify("clear cart", err)
}
