package repository

import (
	"context"
	"strings"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository interface {
	Seed(ctx context.Context) error
	Create(ctx context.Context, book *model.Book) error
	FindByID(ctx context.Context, tx *gorm.DB, bookID string) (*model.Book, error)
	FindMany(ctx context.Context, tx *gorm.DB, bookIDs []string) ([]*model.Book, error)
	Search(ctx context.Context, filter model.BookFilter) ([]*model.Book, int64, error)
	Update(ctx context.Context, bookID string, updates map[string]interface{}) error
	Reserve(ctx context.Context, tx *gorm.DB, bookID string, quantity int) error
	Release(ctx context.Context, tx *gorm.DB, bookID string, quantity int) error
	RefreshRating(ctx context.Context, tx *gorm.DB, bookID string) error
}

type bookRepoImpl struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepoImpl{
		db: db,
	}
}

func (r *bookRepoImpl) Seed(ctx context.Context) error {
	books := []model.Book{
		{ID: "4b0c9a52-0000-4000-8000-000000000001", Title: "Laskar Pelangi", Author: "Andrea Hirata", Category: "fiction", Condition: model.ConditionGood, Price: decimal.NewFromInt(45000), OriginalPrice: decimal.NewFromInt(89000), Stock: 3, SellerID: "seller-demo", Status: model.BookAvailable},
		{ID: "4b0c9a52-0000-4000-8000-000000000002", Title: "Bumi Manusia", Author: "Pramoedya Ananta Toer", Category: "fiction", Condition: model.ConditionExcellent, Price: decimal.NewFromInt(75000), OriginalPrice: decimal.NewFromInt(132000), Stock: 1, SellerID: "seller-demo", Status: model.BookAvailable},
		{ID: "4b0c9a52-0000-4000-8000-000000000003", Title: "Clean Code", Author: "Robert C. Martin", Category: "technology", Condition: model.ConditionFair, Price: decimal.NewFromInt(150000), OriginalPrice: decimal.NewFromInt(420000), Stock: 2, SellerID: "seller-demo", Status: model.BookAvailable},
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&books).Error
}

func (r *bookRepoImpl) Create(ctx context.Context, book *model.Book) error {
	return classify("create book", r.db.WithContext(ctx).Create(book).Error)
}

func (r *bookRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, bookID string) (*model.Book, error) {
	var book model.Book
	err := tx.WithContext(ctx).
		Where("id = ?", bookID).
		First(&book).Error
	if err != nil {
		return nil, classify("find book "+bookID, err)
	}

	return &book, nil
}

func (r *bookRepoImpl) FindMany(ctx context.Context, tx *gorm.DB, bookIDs []string) ([]*model.Book, error) {
	var books []*model.Book
	err := tx.WithContext(ctx).
		Where("id IN ?", bookIDs).
		Order("id").
		Find(&books).
		Error
	if err != nil {
		return nil, classify("find books", err)
	}

	return books, nil
}

func (r *bookRepoImpl) Search(ctx context.Context, filter model.BookFilter) ([]*model.Book, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Scopes(bookFilterScope(filter)).
		Count(&total).Error
	if err != nil {
		return nil, 0, classify("count books", err)
	}

	limit, offset := paginate(filter.Page, filter.Limit)

	var books []*model.Book
	err = r.db.WithContext(ctx).
		Scopes(bookFilterScope(filter)).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Offset(offset).
		Find(&books).Error
	if err != nil {
		return nil, 0, classify("search books", err)
	}

	return books, total, nil
}

func bookFilterScope(filter model.BookFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q := strings.TrimSpace(filter.Query); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ?", like, like)
		}
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.Condition != "" {
			db = db.Where("`condition` = ?", filter.Condition)
		}
		if filter.SellerID != "" {
			db = db.Where("seller_id = ?", filter.SellerID)
		}
		if !filter.IncludeUnavailable {
			db = db.Where("status = ?", model.BookAvailable)
		}
		return db
	}
}

func (r *bookRepoImpl) Update(ctx context.Context, bookID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Updates(updates)

	if result.Error != nil {
		return classify("update book", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("update book", gorm.ErrRecordNotFound)
	}

	return nil
}

// Reserve takes quantity copies out of stock. It never drives stock below zero:
// the decrement only applies when enough copies are left at the moment of the update.
func (r *bookRepoImpl) Reserve(ctx context.Context, tx *gorm.DB, bookID string, quantity int) error {
	result := tx.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND status = ? AND stock >= ?", bookID, model.BookAvailable, quantity).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify("reserve stock", result.Error)
	}

	if result.RowsAffected == 0 {
		book, err := r.FindByID(ctx, tx, bookID)
		if err != nil {
			return err
		}
		available := book.Stock
		if book.Status != model.BookAvailable {
			available = 0
		}
		return &model.InsufficientStockError{BookID: bookID, Requested: quantity, Available: available}
	}

	err := tx.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ? AND stock = 0", bookID).
		Update("status", model.BookSold).Error

	return classify("mark book sold", err)
}

func (r *bookRepoImpl) Release(ctx context.Context, tx *gorm.DB, bookID string, quantity int) error {
	result := tx.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]interface{}{
			"stock":      gorm.Expr("stock + ?", quantity),
			"status":     gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", model.BookSold, model.BookAvailable),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return classify("release stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return classify("release stock", gorm.ErrRecordNotFound)
	}

	return nil
}

func (r *bookRepoImpl) RefreshRating(ctx context.Context, tx *gorm.DB, bookID string) error {
	var agg struct {
		Average float64
		Count   int
	}
	err := tx.WithContext(ctx).
		Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("book_id = ?", bookID).
		Scan(&agg).Error
	if err != nil {
		return classify("aggregate reviews", err)
	}

	err = tx.WithContext(ctx).
		Model(&model.Book{}).
		Where("id = ?", bookID).
		Updates(map[string]interface{}{
			"average_rating": agg.Average,
			"review_count":   agg.Count,
		}).Error

	return classify("update book rating", err)
}
