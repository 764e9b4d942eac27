package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

type CartService interface {
	Get(ctx context.Context, buyerID string) (*model.Cart, error)
	Add(ctx context.Context, buyerID string, req *dto.AddCartItemRequest) (*model.Cart, error)
	SetQuantity(ctx context.Context, buyerID, bookID string, quantity int) (*model.Cart, error)
	Remove(ctx context.Context, buyerID, bookID string) (*model.Cart, error)
	Clear(ctx context.Context, buyerID string) error
}

type cartServiceImpl struct {
	db       *gorm.DB
	bookRepo repository.BookRepository
	cartRepo repository.CartRepository
}

func NewCartService(
	db *gorm.DB,
	bookRepo repository.BookRepository,
	cartRepo repository.CartRepository,
) CartService {
	return &cartServiceImpl{
		db:       db,
		bookRepo: bookRepo,
		cartRepo: cartRepo,
	}
}

func (s *cartServiceImpl) Get(ctx context.Context, buyerID string) (*model.Cart, error) {
	items, err := s.cartRepo.Get(ctx, buyerID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return &model.Cart{Items: items, Subtotal: subtotal}, nil
}

func (s *cartServiceImpl) Add(ctx context.Context, buyerID string, req *dto.AddCartItemRequest) (*model.Cart, error) {
	if req.Quantity < 1 || req.Quantity > model.MaxLineQuantity {
		return nil, model.NewValidationError("quantity", fmt.Sprintf("must be between 1 and %d", model.MaxLineQuantity))
	}

	quantity := req.Quantity
	existing, err := s.cartRepo.Find(ctx, buyerID, req.BookID)
	switch {
	case err == nil:
		quantity += existing.Quantity
	case !errors.Is(err, model.ErrNotFound):
		return nil, err
	}

	if err := s.put(ctx, buyerID, req.BookID, quantity); err != nil {
		return nil, err
	}

	return s.Get(ctx, buyerID)
}

func (s *cartServiceImpl) SetQuantity(ctx context.Context, buyerID, bookID string, quantity int) (*model.Cart, error) {
	if quantity < 0 || quantity > model.MaxLineQuantity {
		return nil, model.NewValidationError("quantity", fmt.Sprintf("must be between 0 and %d", model.MaxLineQuantity))
	}
	if quantity == 0 {
		return s.Remove(ctx, buyerID, bookID)
	}

	if _, err := s.cartRepo.Find(ctx, buyerID, bookID); err != nil {
		return nil, err
	}
	if err := s.put(ctx, buyerID, bookID, quantity); err != nil {
		return nil, err
	}

	return s.Get(ctx, buyerID)
}

// put stores the line with a fresh snapshot of the listing. The quantity is
// checked against current stock; checkout checks it again.
func (s *cartServiceImpl) put(ctx context.Context, buyerID, bookID string, quantity int) error {
	book, err := s.bookRepo.FindByID(ctx, s.db, bookID)
	if err != nil {
		return err
	}
	if book.SellerID == buyerID {
		return model.NewValidationError("bookId", "cannot buy your own listing")
	}
	available := book.Stock
	if book.Status != model.BookAvailable {
		available = 0
	}
	if quantity > available {
		return &model.InsufficientStockError{BookID: book.ID, Requested: quantity, Available: available}
	}

	err = s.cartRepo.Upsert(ctx, &model.CartItem{
		BuyerID:  buyerID,
		BookID:   book.ID,
		Title:    book.Title,
		Price:    book.Price,
		Image:    book.Image,
		SellerID: book.SellerID,
		Quantity: quantity,
	})
	if err != nil {
		return fmt.Errorf("save cart item: %w", err)
	}

	return nil
}

func (s *cartServiceImpl) Remove(ctx context.Context, buyerID, bookID string) (*model.Cart, error) {
	if err := s.cartRepo.Remove(ctx, buyerID, bookID); err != nil {
		return nil, err
	}
	return s.Get(ctx, buyerID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, buyerID string) error {
	return s.cartRepo.Clear(ctx, buyerID)
}
