package handler

import (
	"errors"
	"net/http"

	"github.com/khaisazumma/rebooku-sub000/internal/model"
	"github.com/khaisazumma/rebooku-sub000/internal/pricing"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Shortfall string `json:"shortfall,omitempty"`
}

const genericMessage = "something went wrong, please try again"

type errorKind struct {
	target error
	status int
	code   string
}

var errorKinds = []errorKind{
	{model.ErrValidation, http.StatusBadRequest, "validation_error"},
	{model.ErrForbidden, http.StatusForbidden, "forbidden"},
	{model.ErrNotFound, http.StatusNotFound, "not_found"},
	{model.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
	{model.ErrUsageExceeded, http.StatusConflict, "usage_exceeded"},
	{model.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{model.ErrInactive, http.StatusUnprocessableEntity, "promo_inactive"},
	{model.ErrExpired, http.StatusUnprocessableEntity, "promo_expired"},
	{model.ErrBelowMinimum, http.StatusUnprocessableEntity, "below_minimum"},
}

func statusFor(err error) (int, string) {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			return kind.status, kind.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// publicMessage is the text a client sees. Wrapping context added by services
// stays in the logs; only the rich error or the sentinel is shown.
func publicMessage(err error) string {
	var (
		validationErr *model.ValidationError
		stockErr      *model.InsufficientStockError
		transitionErr *model.TransitionError
	)
	switch {
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &stockErr):
		return stockErr.Error()
	case errors.As(err, &transitionErr):
		return transitionErr.Error()
	}
	if msg, ok := promoMessage(err); ok && !errors.Is(err, model.ErrNotFound) {
		return msg
	}
	for _, kind := range errorKinds {
		if errors.Is(err, kind.target) {
			return kind.target.Error()
		}
	}
	return genericMessage
}

// NewHTTPErrorHandler maps domain errors to status codes. Anything unclassified is
// logged and answered with a generic message.
func NewHTTPErrorHandler(log *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			status int
			body   ErrorResponse
		)

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.Code
			body = ErrorResponse{Error: http.StatusText(status), Code: "http_error"}
			if msg, ok := httpErr.Message.(string); ok {
				body.Error = msg
			}
		} else {
			var code string
			status, code = statusFor(err)
			body = ErrorResponse{Error: publicMessage(err), Code: code}

			var validationErr *model.ValidationError
			if errors.As(err, &validationErr) {
				body.Field = validationErr.Field
			}
			var minimumErr *model.BelowMinimumError
			if errors.As(err, &minimumErr) {
				body.Shortfall = pricing.FormatRupiah(minimumErr.Shortfall())
			}
		}

		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
			body = ErrorResponse{Error: genericMessage, Code: "internal_error"}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			log.WithError(err).Error("write error response")
		}
	}
}
