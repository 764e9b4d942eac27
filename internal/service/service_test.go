package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/khaisazumma/rebooku-sub000/internal/client"
	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/logger"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

var (
	buyer      = model.Actor{UserID: "buyer-1", Role: model.RoleUser}
	otherBuyer = model.Actor{UserID: "buyer-2", Role: model.RoleUser}
	seller     = model.Actor{UserID: "seller-1", Role: model.RoleUser}
	admin      = model.Actor{UserID: "admin-1", Role: model.RoleAdmin}
)

type testEnv struct {
	db           *gorm.DB
	books        repository.BookRepository
	promos       repository.PromoCodeRepository
	transactions repository.TransactionRepository
	carts        repository.CartRepository

	bookSvc        BookService
	cartSvc        CartService
	promoSvc       PromoService
	transactionSvc TransactionService
	reviewSvc      ReviewService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env, err := openTestEnv(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(env.close)
	return env
}

func openTestEnv(path string) (*testEnv, error) {
	db, err := client.InitDBClient(config.Database{Driver: "sqlite", URL: path})
	if err != nil {
		return nil, err
	}

	clock := func() time.Time { return testNow }
	log := logger.Discard()

	env := &testEnv{
		db:           db,
		books:        repository.NewBookRepository(db),
		promos:       repository.NewPromoCodeRepository(db),
		transactions: repository.NewTransactionRepository(db),
		carts:        repository.NewCartRepository(db),
	}
	reviews := repository.NewReviewRepository(db)

	env.bookSvc = NewBookService(db, env.books, log)
	env.cartSvc = NewCartService(db, env.books, env.carts)
	env.promoSvc = NewPromoService(db, env.promos, clock, log)
	env.transactionSvc = NewTransactionService(db, pricing.DefaultFeeSchedule(), env.books, env.promos, env.transactions, env.carts, clock, log)
	env.reviewSvc = NewReviewService(db, env.books, reviews, env.transactions, log)

	return env, nil
}

func (e *testEnv) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func rp(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func (e *testEnv) addBook(t *testing.T, id string, price int64, stock int) *model.Book {
	t.Helper()
	book := &model.Book{
		ID:        id,
		Title:     "Book " + id,
		Author:    "Author",
		Category:  "fiction",
		Condition: model.ConditionGood,
		Price:     rp(price),
		Stock:     stock,
		SellerID:  seller.UserID,
		Status:    model.BookAvailable,
	}
	require.NoError(t, e.books.Create(context.Background(), book))
	return book
}

func (e *testEnv) addPromo(t *testing.T, promo *model.PromoCode) *model.PromoCode {
	t.Helper()
	require.NoError(t, e.promos.Create(context.Background(), promo))
	return promo
}

func (e *testEnv) book(t *testing.T, id string) *model.Book {
	t.Helper()
	book, err := e.books.FindByID(context.Background(), e.db, id)
	require.NoError(t, err)
	return book
}

func (e *testEnv) promo(t *testing.T, id string) *model.PromoCode {
	t.Helper()
	promo, err := e.promos.FindByID(context.Background(), e.db, id)
	require.NoError(t, err)
	return promo
}

func welcome10() *model.PromoCode {
	return &model.PromoCode{
		ID:            "promo-welcome",
		Code:          "WELCOME10",
		DiscountType:  model.DiscountFixed,
		DiscountValue: rp(10000),
		MinPurchase:   rp(0),
		UsageLimit:    100,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 1, 0),
		IsActive:      true,
	}
}

func disc10() *model.PromoCode {
	maxDiscount := rp(20000)
	return &model.PromoCode{
		ID:            "promo-disc10",
		Code:          "DISC10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: rp(10),
		MaxDiscount:   &maxDiscount,
		UsageLimit:    50,
		ValidFrom:     testNow.AddDate(0, -1, 0),
		ValidUntil:    testNow.AddDate(0, 1, 0),
		IsActive:      true,
	}
}

func checkoutRequest(promoCode string, items ...*dto.CheckoutItem) *dto.CheckoutRequest {
	return &dto.CheckoutRequest{
		Items: items,
		ShippingAddress: dto.ShippingAddress{
			RecipientName: "Siti",
			Phone:         "081234567890",
			Street:        "Jl. Merdeka 1",
			City:          "Bandung",
			Province:      "Jawa Barat",
			PostalCode:    "40111",
		},
		ShippingOption: string(model.ShippingRegular),
		PaymentMethod:  string(model.PaymentBankTransfer),
		PromoCode:      promoCode,
	}
}

func item(bookID string, qty int) *dto.CheckoutItem {
	return &dto.CheckoutItem{BookID: bookID, Quantity: qty}
}
