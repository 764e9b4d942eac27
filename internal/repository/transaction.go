package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, trx *model.Transaction) error
	FindByID(ctx context.Context, tx *gorm.DB, id string) (*model.Transaction, error)
	ListByBuyer(ctx context.Context, buyerID string, page, limit int) ([]*model.Transaction, int64, error)
	List(ctx context.Context, status model.TransactionStatus, page, limit int) ([]*model.Transaction, int64, error)
	Transition(ctx context.Context, tx *gorm.DB, id string, from, to model.TransactionStatus, fields map[string]interface{}) error
	FindDeliveredPurchase(ctx context.Context, tx *gorm.DB, buyerID, bookID string) (*model.Transaction, error)
}

type transactionRepoImpl struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepoImpl{
		db: db,
	}
}

// Create inserts the transaction together with its items.
func (r *transactionRepoImpl) Create(ctx context.Context, tx *gorm.DB, trx *model.Transaction) error {
	return classify("create transaction", tx.WithContext(ctx).Create(trx).Error)
}

// FindByID accepts either the internal id or the public TRX- identifier.
func (r *transactionRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, id string) (*model.Transaction, error) {
	var trx model.Transaction
	err := tx.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_items.id")
		}).
		Where("id = ? OR transaction_id = ?", id, id).
		First(&trx).Error
	if err != nil {
		return nil, classify("find transaction "+id, err)
	}

	return &trx, nil
}

func (r *transactionRepoImpl) ListByBuyer(ctx context.Context, buyerID string, page, limit int) ([]*model.Transaction, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("buyer_id = ?", buyerID)
	}, page, limit)
}

// List returns every transaction, newest first. An empty status means all statuses.
func (r *transactionRepoImpl) List(ctx context.Context, status model.TransactionStatus, page, limit int) ([]*model.Transaction, int64, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		if status == "" {
			return db
		}
		return db.Where("status = ?", status)
	}, page, limit)
}

func (r *transactionRepoImpl) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, page, limit int) ([]*model.Transaction, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Scopes(scope).
		Count(&total).Error
	if err != nil {
		return nil, 0, classify("count transactions", err)
	}

	limit, offset := paginate(page, limit)

	var trxs []*model.Transaction
	err = r.db.WithContext(ctx).
		Scopes(scope).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("transaction_items.id")
		}).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&trxs).Error
	if err != nil {
		return nil, 0, classify("list transactions", err)
	}

	return trxs, total, nil
}

// Transition moves a transaction out of from. If another writer changed the
// status first, nothing is updated and a TransitionError is returned.
func (r *transactionRepoImpl) Transition(ctx context.Context, tx *gorm.DB, id string, from, to model.TransactionStatus, fields map[string]interface{}) error {
	updates := map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	}
	for k, v := range fields {
		updates[k] = v
	}

	result := tx.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return classify("update transaction status", result.Error)
	}
	if result.RowsAffected == 0 {
		current, err := r.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return &model.TransitionError{From: current.Status, To: to}
	}

	return nil
}

func (r *transactionRepoImpl) FindDeliveredPurchase(ctx context.Context, tx *gorm.DB, buyerID, bookID string) (*model.Transaction, error) {
	var trx model.Transaction
	err := tx.WithContext(ctx).
		Model(&model.Transaction{}).
		Joins("JOIN transaction_items ON transaction_items.order_id = transactions.id").
		Where("transactions.buyer_id = ? AND transactions.status = ? AND transaction_items.book_id = ?", buyerID, model.StatusDelivered, bookID).
		Order("transactions.delivered_at DESC").
		Take(&trx).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("no delivered purchase of book %s: %w", bookID, model.ErrForbidden)
	}
	if err != nil {
		return nil, classify("find delivered purchase", err)
	}

	return &trx, nil
}
