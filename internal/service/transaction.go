package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"gorm.io/gorm"
)

type TransactionService interface {
	Checkout(ctx context.Context, actor model.Actor, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	Get(ctx context.Context, actor model.Actor, id string) (*model.Transaction, error)
	ListMine(ctx context.Context, actor model.Actor, page, limit int) ([]*model.Transaction, int64, error)
	List(ctx context.Context, status string, page, limit int) ([]*model.Transaction, int64, error)
	UpdateStatus(ctx context.Context, actor model.Actor, id string, req *dto.UpdateStatusRequest) (*model.Transaction, error)
	ConfirmDelivery(ctx context.Context, actor model.Actor, id string) (*model.Transaction, error)
	Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Transaction, error)
}

type transactionServiceImpl struct {
	db              *gorm.DB
	fees            pricing.FeeSchedule
	bookRepo        repository.BookRepository
	promoRepo       repository.PromoCodeRepository
	transactionRepo repository.TransactionRepository
	cartRepo        repository.CartRepository
	clock           Clock
	log             *logrus.Logger
}

func NewTransactionService(
	db *gorm.DB,
	fees pricing.FeeSchedule,
	bookRepo repository.BookRepository,
	promoRepo repository.PromoCodeRepository,
	transactionRepo repository.TransactionRepository,
	cartRepo repository.CartRepository,
	clock Clock,
	log *logrus.Logger,
) TransactionService {
	return &transactionServiceImpl{
		db:              db,
		fees:            fees,
		bookRepo:        bookRepo,
		promoRepo:       promoRepo,
		transactionRepo: transactionRepo,
		cartRepo:        cartRepo,
		clock:           orNow(clock),
		log:             log,
	}
}

// NewTransactionID returns the public order number, e.g. TRX-20260314-3F9A01BC.
func NewTransactionID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("TRX-%s-%s", now.Format("20060102"), suffix)
}

type orderLine struct {
	bookID   string
	quantity int
}

// mergeLines folds duplicate books into one line and sorts by book id so
// concurrent checkouts always touch rows in the same order.
func mergeLines(items []*dto.CheckoutItem) ([]orderLine, error) {
	if len(items) == 0 {
		return nil, model.NewValidationError("items", "order must contain at least one item")
	}

	quantities := make(map[string]int, len(items))
	for i, item := range items {
		if item == nil || strings.TrimSpace(item.BookID) == "" {
			return nil, model.NewValidationError(fmt.Sprintf("items[%d].bookId", i), "is required")
		}
		if item.Quantity < 1 {
			return nil, model.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be at least 1")
		}
		if item.Quantity > model.MaxLineQuantity || quantities[item.BookID]+item.Quantity > model.MaxLineQuantity {
			return nil, model.NewValidationError(fmt.Sprintf("items[%d].quantity", i),
				fmt.Sprintf("at most %d copies of book %s per order", model.MaxLineQuantity, item.BookID))
		}
		quantities[item.BookID] += item.Quantity
	}

	lines := make([]orderLine, 0, len(quantities))
	for bookID, qty := range quantities {
		lines = append(lines, orderLine{bookID: bookID, quantity: qty})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].bookID < lines[j].bookID })

	return lines, nil
}

func (s *transactionServiceImpl) Checkout(ctx context.Context, actor model.Actor, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	items := req.Items
	fromCart := len(items) == 0
	if fromCart {
		cartItems, err := s.cartRepo.Get(ctx, actor.UserID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		for _, ci := range cartItems {
			items = append(items, &dto.CheckoutItem{BookID: ci.BookID, Quantity: ci.Quantity})
		}
		if len(items) == 0 {
			return nil, model.NewValidationError("items", "cart is empty")
		}
	}

	lines, err := mergeLines(items)
	if err != nil {
		return nil, err
	}

	shipping := model.ShippingOption(req.ShippingOption)
	payment := model.PaymentMethod(req.PaymentMethod)
	if _, err := s.fees.ShippingFee(shipping); err != nil {
		return nil, err
	}
	if _, err := s.fees.PaymentFee(payment); err != nil {
		return nil, err
	}

	now := s.clock()
	var (
		trx    *model.Transaction
		totals pricing.OrderTotals
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bookIDs := make([]string, len(lines))
		for i, line := range lines {
			bookIDs[i] = line.bookID
		}
		books, err := s.bookRepo.FindMany(ctx, tx, bookIDs)
		if err != nil {
			return fmt.Errorf("get books: %w", err)
		}
		booksByID := make(map[string]*model.Book, len(books))
		for _, book := range books {
			booksByID[book.ID] = book
		}

		lineItems := make([]pricing.LineItem, len(lines))
		trxItems := make([]model.TransactionItem, len(lines))
		for i, line := range lines {
			book, ok := booksByID[line.bookID]
			if !ok {
				return fmt.Errorf("book %s: %w", line.bookID, model.ErrNotFound)
			}
			if book.SellerID == actor.UserID {
				return model.NewValidationError("items", "cannot buy your own listing "+book.Title)
			}
			if err := s.bookRepo.Reserve(ctx, tx, book.ID, line.quantity); err != nil {
				return fmt.Errorf("reserve book %s: %w", book.ID, err)
			}

			// price is copied so later listing edits never change this order
			lineItems[i] = pricing.LineItem{Price: book.Price, Quantity: line.quantity}
			trxItems[i] = model.TransactionItem{
				BookID:    book.ID,
				Title:     book.Title,
				SellerID:  book.SellerID,
				Quantity:  line.quantity,
				UnitPrice: book.Price,
				LineTotal: book.Price.Mul(decimal.NewFromInt(int64(line.quantity))),
			}
		}

		subtotal, err := pricing.Subtotal(lineItems)
		if err != nil {
			return err
		}

		discount := decimal.Zero
		var appliedCode *string
		if code := model.NormalizePromoCode(req.PromoCode); code != "" {
			promo, err := s.promoRepo.FindByCode(ctx, tx, code)
			if err != nil {
				return fmt.Errorf("apply promo code: %w", err)
			}
			// evaluated again at commit; the preview result is never trusted
			applied, err := pricing.EvaluatePromo(promo, subtotal, now)
			if err != nil {
				return fmt.Errorf("apply promo code: %w", err)
			}
			if err := s.promoRepo.IncrementUsage(ctx, tx, promo.ID); err != nil {
				return fmt.Errorf("apply promo code: %w", err)
			}
			discount = applied.Amount
			appliedCode = &promo.Code
		}

		totals, err = s.fees.ComputeTotal(lineItems, shipping, payment, discount)
		if err != nil {
			return err
		}

		trx = &model.Transaction{
			ID:               uuid.NewString(),
			TransactionID:    NewTransactionID(now),
			BuyerID:          actor.UserID,
			Items:            trxItems,
			Subtotal:         totals.Subtotal,
			ShippingOption:   shipping,
			ShippingFee:      totals.ShippingFee,
			PaymentMethod:    payment,
			PaymentFee:       totals.PaymentFee,
			Discount:         totals.Discount,
			FinalAmount:      totals.Total,
			AppliedPromoCode: appliedCode,
			ShippingAddress:  req.ShippingAddress.ToModel(),
			Status:           model.StatusPending,
		}
		if err := s.transactionRepo.Create(ctx, tx, trx); err != nil {
			return fmt.Errorf("store transaction: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	fields := logrus.Fields{
		"transaction_id": trx.TransactionID,
		"buyer_id":       actor.UserID,
		"items":          len(trx.Items),
		"final_amount":   trx.FinalAmount.String(),
	}
	if trx.AppliedPromoCode != nil {
		fields["promo_code"] = *trx.AppliedPromoCode
	}
	s.log.WithFields(fields).Info("order placed")

	if fromCart {
		if err := s.cartRepo.Clear(ctx, actor.UserID); err != nil {
			s.log.WithError(err).WithField("buyer_id", actor.UserID).Warn("clear cart after checkout")
		}
	}

	return &dto.CheckoutResponse{
		TransactionID: trx.TransactionID,
		Status:        string(trx.Status),
		StatusLabel:   trx.Status.Label(),
		Totals:        totals,
		Transaction:   trx,
	}, nil
}

// Get hides other buyers' orders behind ErrNotFound.
func (s *transactionServiceImpl) Get(ctx context.Context, actor model.Actor, id string) (*model.Transaction, error) {
	trx, err := s.transactionRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && trx.BuyerID != actor.UserID {
		return nil, fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
	}

	return trx, nil
}

func (s *transactionServiceImpl) ListMine(ctx context.Context, actor model.Actor, page, limit int) ([]*model.Transaction, int64, error) {
	return s.transactionRepo.ListByBuyer(ctx, actor.UserID, page, limit)
}

func (s *transactionServiceImpl) List(ctx context.Context, status string, page, limit int) ([]*model.Transaction, int64, error) {
	var filter model.TransactionStatus
	if status != "" {
		parsed, err := model.ParseTransactionStatus(status)
		if err != nil {
			return nil, 0, err
		}
		filter = parsed
	}

	return s.transactionRepo.List(ctx, filter, page, limit)
}

type transitionInput struct {
	to                model.TransactionStatus
	trackingNumber    string
	estimatedDelivery *time.Time
	reason            string
}

func (s *transactionServiceImpl) UpdateStatus(ctx context.Context, actor model.Actor, id string, req *dto.UpdateStatusRequest) (*model.Transaction, error) {
	to, err := model.ParseTransactionStatus(req.Status)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, actor, id, transitionInput{
		to:                to,
		trackingNumber:    strings.TrimSpace(req.TrackingNumber),
		estimatedDelivery: req.EstimatedDelivery,
		reason:            strings.TrimSpace(req.Reason),
	})
}

func (s *transactionServiceImpl) ConfirmDelivery(ctx context.Context, actor model.Actor, id string) (*model.Transaction, error) {
	return s.transition(ctx, actor, id, transitionInput{to: model.StatusDelivered})
}

func (s *transactionServiceImpl) Cancel(ctx context.Context, actor model.Actor, id, reason string) (*model.Transaction, error) {
	return s.transition(ctx, actor, id, transitionInput{to: model.StatusCancelled, reason: strings.TrimSpace(reason)})
}

// authorizeTransition applies the role rules on top of the state graph:
// only admins confirm and ship, and a buyer may cancel only while the order
// is still pending.
func authorizeTransition(actor model.Actor, trx *model.Transaction, to model.TransactionStatus) error {
	if actor.IsAdmin() {
		return nil
	}

	switch to {
	case model.StatusProcessing, model.StatusShipped:
		return fmt.Errorf("only an admin can mark an order %s: %w", to, model.ErrForbidden)
	case model.StatusCancelled:
		if trx.Status != model.StatusPending {
			return fmt.Errorf("order is already %s, contact support to cancel: %w", trx.Status, model.ErrForbidden)
		}
	}

	return nil
}

func (s *transactionServiceImpl) transition(ctx context.Context, actor model.Actor, id string, in transitionInput) (*model.Transaction, error) {
	var (
		from model.TransactionStatus
		trx  *model.Transaction
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.transactionRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.BuyerID != actor.UserID && !actor.IsAdmin() {
			return fmt.Errorf("transaction %s: %w", id, model.ErrNotFound)
		}
		if !current.Status.CanTransitionTo(in.to) {
			return &model.TransitionError{From: current.Status, To: in.to}
		}
		if err := authorizeTransition(actor, current, in.to); err != nil {
			return err
		}
		from = current.Status

		now := s.clock()
		fields := map[string]interface{}{}
		switch in.to {
		case model.StatusProcessing:
			fields["processed_at"] = now
		case model.StatusShipped:
			fields["shipped_at"] = now
			if in.trackingNumber != "" {
				fields["tracking_number"] = in.trackingNumber
			}
			if in.estimatedDelivery != nil {
				if in.estimatedDelivery.Before(now) {
					return model.NewValidationError("estimatedDelivery", "must not be in the past")
				}
				fields["estimated_delivery"] = *in.estimatedDelivery
			}
		case model.StatusDelivered:
			fields["delivered_at"] = now
		case model.StatusCancelled:
			fields["cancelled_at"] = now
			fields["cancel_reason"] = in.reason
		}

		if err := s.transactionRepo.Transition(ctx, tx, current.ID, current.Status, in.to, fields); err != nil {
			return err
		}

		if in.to == model.StatusCancelled && current.Status.Restockable() {
			for _, item := range current.Items {
				if err := s.bookRepo.Release(ctx, tx, item.BookID, item.Quantity); err != nil {
					return fmt.Errorf("restock book %s: %w", item.BookID, err)
				}
			}
		}

		trx, err = s.transactionRepo.FindByID(ctx, tx, current.ID)
		return err
	})
	if err != nil {
		var transitionErr *model.TransitionError
		if errors.As(err, &transitionErr) {
			s.log.WithFields(logrus.Fields{
				"transaction": id,
				"from":        transitionErr.From,
				"to":          transitionErr.To,
			}).Warn("rejected status change")
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": trx.TransactionID,
		"from":           from,
		"to":             trx.Status,
		"actor":          actor.UserID,
		"role":           actor.Role,
	}).Info("order status changed")

	return trx, nil
}
