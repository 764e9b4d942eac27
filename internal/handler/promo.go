package handler

import (
	"net/http"

	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

type PromoHandler struct {
	promoService service.PromoService
}

func NewPromoHandler(promoService service.PromoService) *PromoHandler {
	return &PromoHandler{
		promoService: promoService,
	}
}

func (h *PromoHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	promos, err := h.promoService.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, promos)
}

func (h *PromoHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreatePromoCodeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	promo, err := h.promoService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, promo)
}

func (h *PromoHandler) Toggle(c echo.Context) error {
	ctx := c.Request().Context()

	promo, err := h.promoService.Toggle(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToggleResponse{
		ID:       promo.ID,
		Code:     promo.Code,
		IsActive: promo.IsActive,
	})
}
