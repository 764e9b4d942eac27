package service

import (
	"context"
	"testing"

	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromoService_ValidateIsSideEffectFree(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	promo := env.addPromo(t, disc10())

	discount, err := env.promoSvc.Validate(ctx, "disc10", rp(500000))
	require.NoError(t, err)
	assert.True(t, discount.Amount.Equal(rp(20000)))
	assert.Equal(t, 0, env.promo(t, promo.ID).UsedCount)

	_, err = env.promoSvc.Validate(ctx, "   ", rp(1))
	assert.ErrorIs(t, err, model.ErrValidation)
	_, err = env.promoSvc.Validate(ctx, "GHOST", rp(1))
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestPromoService_CreateAndToggle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	req := &dto.CreatePromoCodeRequest{
		Code:          "ramadan25",
		DiscountType:  "percentage",
		DiscountValue: rp(25),
		MinPurchase:   rp(100000),
		UsageLimit:    10,
		ValidFrom:     testNow,
		ValidUntil:    testNow.AddDate(0, 0, 30),
	}
	promo, err := env.promoSvc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "RAMADAN25", promo.Code)
	assert.True(t, promo.IsActive)

	_, err = env.promoSvc.Create(ctx, req)
	assert.ErrorIs(t, err, model.ErrValidation)

	toggled, err := env.promoSvc.Toggle(ctx, promo.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	_, err = env.promoSvc.Validate(ctx, "RAMADAN25", rp(200000))
	assert.ErrorIs(t, err, model.ErrInactive)

	list, err := env.promoSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestPromoService_CreateRejectsBadRules(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	maxDiscount := rp(5000)

	base := func() *dto.CreatePromoCodeRequest {
		return &dto.CreatePromoCodeRequest{
			Code:          "X1",
			DiscountType:  "fixed",
			DiscountValue: rp(5000),
			UsageLimit:    1,
			ValidFrom:     testNow,
			ValidUntil:    testNow.AddDate(0, 0, 1),
		}
	}

	tests := []struct {
		name   string
		mutate func(*dto.CreatePromoCodeRequest)
		field  string
	}{
		{"percentage over 100", func(r *dto.CreatePromoCodeRequest) { r.DiscountType = "percentage"; r.DiscountValue = rp(150) }, "discountValue"},
		{"zero value", func(r *dto.CreatePromoCodeRequest) { r.DiscountValue = rp(0) }, "discountValue"},
		{"max on fixed", func(r *dto.CreatePromoCodeRequest) { r.MaxDiscount = &maxDiscount }, "maxDiscount"},
		{"negative minimum", func(r *dto.CreatePromoCodeRequest) { r.MinPurchase = rp(-1) }, "minPurchase"},
		{"inverted window", func(r *dto.CreatePromoCodeRequest) { r.ValidUntil = testNow.AddDate(0, 0, -1) }, "validUntil"},
		{"unknown type", func(r *dto.CreatePromoCodeRequest) { r.DiscountType = "bogo" }, "discountType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base()
			tt.mutate(req)
			_, err := env.promoSvc.Create(ctx, req)
			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
		})
	}
}

func TestCartService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b1", 40000, 3)

	cart, err := env.cartSvc.Add(ctx, buyer.UserID, &dto.AddCartItemRequest{BookID: "b1", Quantity: 1})
	require.NoError(t, err)
	cart, err = env.cartSvc.Add(ctx, buyer.UserID, &dto.AddCartItemRequest{BookID: "b1", Quantity: 1})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.True(t, cart.Subtotal.Equal(rp(80000)))

	_, err = env.cartSvc.Add(ctx, buyer.UserID, &dto.AddCartItemRequest{BookID: "b1", Quantity: 2})
	assert.ErrorIs(t, err, model.ErrInsufficientStock)

	_, err = env.cartSvc.Add(ctx, seller.UserID, &dto.AddCartItemRequest{BookID: "b1", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = env.cartSvc.Add(ctx, buyer.UserID, &dto.AddCartItemRequest{BookID: "missing", Quantity: 1})
	assert.ErrorIs(t, err, model.ErrNotFound)

	cart, err = env.cartSvc.SetQuantity(ctx, buyer.UserID, "b1", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	_, err = env.cartSvc.SetQuantity(ctx, buyer.UserID, "b2", 1)
	assert.ErrorIs(t, err, model.ErrNotFound)

	cart, err = env.cartSvc.SetQuantity(ctx, buyer.UserID, "b1", 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, err = env.cartSvc.Remove(ctx, buyer.UserID, "b1")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestBookService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	book, err := env.bookSvc.Create(ctx, seller, &dto.CreateBookRequest{
		Title:     "  Cantik Itu Luka ",
		Author:    "Eka Kurniawan",
		Price:     rp(65000),
		Condition: "excellent",
		Category:  "Fiction",
		Stock:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cantik Itu Luka", book.Title)
	assert.Equal(t, "fiction", book.Category)
	assert.Equal(t, seller.UserID, book.SellerID)

	_, err = env.bookSvc.Create(ctx, seller, &dto.CreateBookRequest{Title: "Free", Price: rp(0), Condition: "new", Stock: 1})
	assert.ErrorIs(t, err, model.ErrValidation)

	price := rp(60000)
	_, err = env.bookSvc.Update(ctx, buyer, book.ID, &dto.UpdateBookRequest{Price: &price})
	assert.ErrorIs(t, err, model.ErrForbidden)

	zero := 0
	updated, err := env.bookSvc.Update(ctx, seller, book.ID, &dto.UpdateBookRequest{Price: &price, Stock: &zero})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(price))
	assert.Equal(t, model.BookSold, updated.Status)

	available := "available"
	_, err = env.bookSvc.Update(ctx, admin, book.ID, &dto.UpdateBookRequest{Status: &available})
	assert.ErrorIs(t, err, model.ErrValidation)

	books, total, err := env.bookSvc.Search(ctx, model.BookFilter{Query: "luka", IncludeUnavailable: true})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, book.ID, books[0].ID)

	_, _, err = env.bookSvc.Search(ctx, model.BookFilter{Condition: "mint"})
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestReviewService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.addBook(t, "b1", 50000, 2)
	trx := placeOrder(t, env, buyer, "b1", 1)

	_, err := env.reviewSvc.Create(ctx, buyer, "b1", &dto.CreateReviewRequest{Rating: 5})
	assert.ErrorIs(t, err, model.ErrForbidden)

	for _, status := range []string{"processing", "shipped"} {
		_, err := env.transactionSvc.UpdateStatus(ctx, admin, trx.ID, &dto.UpdateStatusRequest{Status: status})
		require.NoError(t, err)
	}
	_, err = env.transactionSvc.ConfirmDelivery(ctx, buyer, trx.ID)
	require.NoError(t, err)

	_, err = env.reviewSvc.Create(ctx, buyer, "b1", &dto.CreateReviewRequest{Rating: 6})
	assert.ErrorIs(t, err, model.ErrValidation)

	review, err := env.reviewSvc.Create(ctx, buyer, "b1", &dto.CreateReviewRequest{Rating: 4, Comment: "Mulus"})
	require.NoError(t, err)
	assert.Equal(t, trx.ID, review.TransactionID)

	_, err = env.reviewSvc.Create(ctx, buyer, "b1", &dto.CreateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = env.reviewSvc.Create(ctx, otherBuyer, "b1", &dto.CreateReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, model.ErrForbidden)

	book := env.book(t, "b1")
	assert.InDelta(t, 4.0, book.AverageRating, 0.001)
	assert.Equal(t, 1, book.ReviewCount)

	reviews, total, err := env.reviewSvc.ListByBook(ctx, "b1", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Mulus", reviews[0].Comment)
}
