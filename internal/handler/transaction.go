package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/middleware"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/khaisazumma/rebooku-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

type TransactionHandler struct {
	transactionService service.TransactionService
	promoService       service.PromoService
}

func NewTransactionHandler(transactionService service.TransactionService, promoService service.PromoService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		promoService:       promoService,
	}
}

// promoMessage turns a promo rejection into text for the buyer. ok is false
// for errors that are not about the code itself.
func promoMessage(err error) (msg string, ok bool) {
	var minimumErr *model.BelowMinimumError
	switch {
	case errors.As(err, &minimumErr):
		return fmt.Sprintf("Minimum purchase for this code is %s, add %s more",
			pricing.FormatRupiah(minimumErr.MinPurchase), pricing.FormatRupiah(minimumErr.Shortfall())), true
	case errors.Is(err, model.ErrNotFound):
		return "Promo code not found", true
	case errors.Is(err, model.ErrInactive):
		return "This promo code is no longer active", true
	case errors.Is(err, model.ErrExpired):
		return "This promo code has expired", true
	case errors.Is(err, model.ErrUsageExceeded):
		return "This promo code has reached its usage limit", true
	}
	return "", false
}

func (h *TransactionHandler) ValidatePromo(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ValidatePromoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	discount, err := h.promoService.Validate(ctx, req.Code, req.Subtotal)
	if err != nil {
		msg, ok := promoMessage(err)
		if !ok {
			return err
		}
		resp := dto.ValidatePromoResponse{Valid: false, Message: msg}
		var minimumErr *model.BelowMinimumError
		if errors.As(err, &minimumErr) {
			shortfall := minimumErr.Shortfall()
			resp.Shortfall = &shortfall
		}
		return c.JSON(http.StatusOK, resp)
	}

	return c.JSON(http.StatusOK, dto.ValidatePromoResponse{
		Valid:    true,
		Discount: discount.Amount,
		Message:  fmt.Sprintf("Code %s applied, you save %s", discount.Code, pricing.FormatRupiah(discount.Amount)),
	})
}

func (h *TransactionHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.transactionService.Checkout(ctx, middleware.ActorFrom(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

func (h *TransactionHandler) ListMine(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	trxs, total, err := h.transactionService.ListMine(ctx, middleware.ActorFrom(c), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TransactionList{
		Transactions: trxs,
		Page:         dto.Page{Page: page, Limit: limit, Total: total},
	})
}

func (h *TransactionHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	trx, err := h.transactionService.Get(ctx, middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trx)
}

func (h *TransactionHandler) ConfirmDelivery(c echo.Context) error {
	ctx := c.Request().Context()

	trx, err := h.transactionService.ConfirmDelivery(ctx, middleware.ActorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trx)
}

func (h *TransactionHandler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CancelRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	trx, err := h.transactionService.Cancel(ctx, middleware.ActorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trx)
}

// -------- admin --------

func (h *TransactionHandler) AdminList(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	trxs, total, err := h.transactionService.List(ctx, c.QueryParam("status"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TransactionList{
		Transactions: trxs,
		Page:         dto.Page{Page: page, Limit: limit, Total: total},
	})
}

func (h *TransactionHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	trx, err := h.transactionService.UpdateStatus(ctx, middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, trx)
}
