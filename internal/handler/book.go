package handler

import (
	"net/http"

	"github.com/khaisazumma/rebooku-sub000/internal/dto"
	"github.com/khaisazumma/rebooku-sub000/internal/middleware"
	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/service"

	"github.com/labstack/echo/v4"
)

type BookHandler struct {
	bookService   service.BookService
	reviewService service.ReviewService
}

func NewBookHandler(bookService service.BookService, reviewService service.ReviewService) *BookHandler {
	return &BookHandler{
		bookService:   bookService,
		reviewService: reviewService,
	}
}

func pageParams(c echo.Context) (int, int, error) {
	page, limit := 1, 12
	err := echo.QueryParamsBinder(c).
		Int("page", &page).
		Int("limit", &limit).
		BindError()
	if err != nil {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page and limit must be numbers")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 12
	}
	return page, limit, nil
}

func (h *BookHandler) Search(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	filter := model.BookFilter{
		Query:     c.QueryParam("q"),
		Category:  c.QueryParam("category"),
		Condition: model.BookCondition(c.QueryParam("condition")),
		SellerID:  c.QueryParam("seller"),
		Page:      page,
		Limit:     limit,
	}
	books, total, err := h.bookService.Search(ctx, filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.BookList{
		Books: books,
		Page:  dto.Page{Page: page, Limit: limit, Total: total},
	})
}

func (h *BookHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	book, err := h.bookService.Get(ctx, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.bookService.Create(ctx, middleware.ActorFrom(c), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, book)
}

func (h *BookHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.bookService.Update(ctx, middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, book)
}

func (h *BookHandler) ListReviews(c echo.Context) error {
	ctx := c.Request().Context()

	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	reviews, total, err := h.reviewService.ListByBook(ctx, c.Param("id"), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ReviewList{
		Reviews: reviews,
		Page:    dto.Page{Page: page, Limit: limit, Total: total},
	})
}

func (h *BookHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.reviewService.Create(ctx, middleware.ActorFrom(c), c.Param("id"), &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, review)
}
