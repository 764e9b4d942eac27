package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/sirupsen/logrus"

	"gorm.io/gorm"
)

type BookService interface {
	Create(ctx context.Context, actor model.Actor, req *dto.CreateBookRequest) (*model.Book, error)
	Update(ctx context.Context, actor model.Actor, bookID string, req *dto.UpdateBookRequest) (*model.Book, error)
	Get(ctx context.Context, bookID string) (*model.Book, error)
	Search(ctx context.Context, filter model.BookFilter) ([]*model.Book, int64, error)
}

type bookServiceImpl struct {
	db       *gorm.DB
	bookRepo repository.BookRepository
	log      *logrus.Logger
}

func NewBookService(
	db *gorm.DB,
	bookRepo repository.BookRepository,
	log *logrus.Logger,
) BookService {
	return &bookServiceImpl{
		db:       db,
		bookRepo: bookRepo,
		log:      log,
	}
}

func (s *bookServiceImpl) Create(ctx context.Context, actor model.Actor, req *dto.CreateBookRequest) (*model.Book, error) {
	condition := model.BookCondition(req.Condition)
	if !model.ValidCondition(condition) {
		return nil, model.NewValidationError("condition", "unknown condition "+req.Condition)
	}
	if !req.Price.IsPositive() {
		return nil, model.NewValidationError("price", "must be positive")
	}
	if req.OriginalPrice.IsNegative() {
		return nil, model.NewValidationError("originalPrice", "must not be negative")
	}
	if req.Stock < 1 {
		return nil, model.NewValidationError("stock", "must be at least 1")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, model.NewValidationError("title", "is required")
	}

	book := &model.Book{
		ID:            uuid.NewString(),
		Title:         title,
		Author:        strings.TrimSpace(req.Author),
		Description:   req.Description,
		Image:         req.Image,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		Condition:     condition,
		Category:      strings.ToLower(strings.TrimSpace(req.Category)),
		Stock:         req.Stock,
		SellerID:      actor.UserID,
		Status:        model.BookAvailable,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"book_id":   book.ID,
		"seller_id": book.SellerID,
	}).Info("book listed")

	return book, nil
}

func (s *bookServiceImpl) Update(ctx context.Context, actor model.Actor, bookID string, req *dto.UpdateBookRequest) (*model.Book, error) {
	book, err := s.bookRepo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return nil, err
	}
	if book.SellerID != actor.UserID && !actor.IsAdmin() {
		return nil, fmt.Errorf("book %s belongs to another seller: %w", bookID, model.ErrForbidden)
	}

	updates := map[string]interface{}{}
	if req.Price != nil {
		if !req.Price.IsPositive() {
			return nil, model.NewValidationError("price", "must be positive")
		}
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, model.NewValidationError("stock", "must not be negative")
		}
		updates["stock"] = *req.Stock
		// keep status in line with stock unless the seller sets it explicitly
		if *req.Stock == 0 && book.Status == model.BookAvailable {
			updates["status"] = model.BookSold
		} else if *req.Stock > 0 && book.Status == model.BookSold {
			updates["status"] = model.BookAvailable
		}
	}
	if req.Status != nil {
		status := model.BookStatus(*req.Status)
		if !model.ValidBookStatus(status) {
			return nil, model.NewValidationError("status", "unknown status "+*req.Status)
		}
		stock := book.Stock
		if req.Stock != nil {
			stock = *req.Stock
		}
		if status == model.BookAvailable && stock == 0 {
			return nil, model.NewValidationError("status", "a book without stock cannot be available")
		}
		updates["status"] = status
	}
	if len(updates) == 0 {
		return book, nil
	}

	if err := s.bookRepo.Update(ctx, bookID, updates); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return s.bookRepo.FindByID(ctx, s.db, bookID)
}

func (s *bookServiceImpl) Get(ctx context.Context, bookID string) (*model.Book, error) {
	return s.bookRepo.FindByID(ctx, s.db, bookID)
}

func (s *bookServiceImpl) Search(ctx context.Context, filter model.BookFilter) ([]*model.Book, int64, error) {
	if filter.Condition != "" && !model.ValidCondition(filter.Condition) {
		return nil, 0, model.NewValidationError("condition", "unknown condition "+string(filter.Condition))
	}
	filter.Category = strings.ToLower(strings.TrimSpace(filter.Category))

	return s.bookRepo.Search(ctx, filter)
}
