package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/sirupsen/logrus"

	"gorm.io/gorm"
)

type ReviewService interface {
	Create(ctx context.Context, actor model.Actor, bookID string, req *dto.CreateReviewRequest) (*model.Review, error)
	ListByBook(ctx context.Context, bookID string, page, limit int) ([]*model.Review, int64, error)
}

type reviewServiceImpl struct {
	db              *gorm.DB
	bookRepo        repository.BookRepository
	reviewRepo      repository.ReviewRepository
	transactionRepo repository.TransactionRepository
	log             *logrus.Logger
}

func NewReviewService(
	db *gorm.DB,
	bookRepo repository.BookRepository,
	reviewRepo repository.ReviewRepository,
	transactionRepo repository.TransactionRepository,
	log *logrus.Logger,
) ReviewService {
	return &reviewServiceImpl{
		db:              db,
		bookRepo:        bookRepo,
		reviewRepo:      reviewRepo,
		transactionRepo: transactionRepo,
		log:             log,
	}
}

func (s *reviewServiceImpl) Create(ctx context.Context, actor model.Actor, bookID string, req *dto.CreateReviewRequest) (*model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, model.NewValidationError("rating", "must be between 1 and 5")
	}

	var review *model.Review
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.bookRepo.FindByID(ctx, tx, bookID); err != nil {
			return err
		}
		purchase, err := s.transactionRepo.FindDeliveredPurchase(ctx, tx, actor.UserID, bookID)
		if err != nil {
			return err
		}
		exists, err := s.reviewRepo.Exists(ctx, tx, bookID, actor.UserID)
		if err != nil {
			return err
		}
		if exists {
			return model.NewValidationError("bookId", "book already reviewed")
		}

		review = &model.Review{
			ID:            uuid.NewString(),
			BookID:        bookID,
			BuyerID:       actor.UserID,
			TransactionID: purchase.ID,
			Rating:        req.Rating,
			Comment:       req.Comment,
		}
		if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
			return fmt.Errorf("store review: %w", err)
		}

		return s.bookRepo.RefreshRating(ctx, tx, bookID)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"book_id":  bookID,
		"buyer_id": actor.UserID,
		"rating":   req.Rating,
	}).Info("review posted")

	return review, nil
}

func (s *reviewServiceImpl) ListByBook(ctx context.Context, bookID string, page, limit int) ([]*model.Review, int64, error) {
	if _, err := s.bookRepo.FindByID(ctx, s.db, bookID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByBook(ctx, bookID, page, limit)
}
