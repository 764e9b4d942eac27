package server

import (
	"context"
	"net/http"

	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/handler"
	mw "github.com/khaisazumma/rebooku-sub000/internal/middleware"
	"github.com/khaisazumma/rebooku-sub000/internal/service"
	"github.com/sirupsen/logrus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Book        service.BookService
	Cart        service.CartService
	Promo       service.PromoService
	Transaction service.TransactionService
	Review      service.ReviewService
}

type Server struct {
	echo               *echo.Echo
	cfg                *config.Config
	promoLimiter       echo.MiddlewareFunc
	bookHandler        *handler.BookHandler
	cartHandler        *handler.CartHandler
	transactionHandler *handler.TransactionHandler
	promoHandler       *handler.PromoHandler
}

func NewServer(cfg *config.Config, services Services, log *logrus.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.HTTP.ReadTimeout
	e.Server.WriteTimeout = cfg.HTTP.WriteTimeout
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(mw.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:               e,
		cfg:                cfg,
		promoLimiter:       mw.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		bookHandler:        handler.NewBookHandler(services.Book, services.Review),
		cartHandler:        handler.NewCartHandler(services.Cart),
		transactionHandler: handler.NewTransactionHandler(services.Transaction, services.Promo),
		promoHandler:       handler.NewPromoHandler(services.Promo),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := mw.AuthMiddleware(s.cfg.Auth.JWTSecret)

	// -------- catalog --------
	api.GET("/books", s.bookHandler.Search)
	api.GET("/books/:id", s.bookHandler.Get)
	api.GET("/books/:id/reviews", s.bookHandler.ListReviews)
	api.POST("/books", s.bookHandler.Create, auth)
	api.PATCH("/books/:id", s.bookHandler.Update, auth)
	api.POST("/books/:id/reviews", s.bookHandler.CreateReview, auth)

	// -------- cart --------
	cart := api.Group("/cart", auth)
	cart.GET("", s.cartHandler.Get)
	cart.DELETE("", s.cartHandler.Clear)
	cart.POST("/items", s.cartHandler.AddItem)
	cart.PATCH("/items/:bookId", s.cartHandler.SetQuantity)
	cart.DELETE("/items/:bookId", s.cartHandler.RemoveItem)

	// -------- transactions --------
	trx := api.Group("/transactions", auth)
	trx.POST("/validate-promo", s.transactionHandler.ValidatePromo, s.promoLimiter)
	trx.POST("/checkout", s.transactionHandler.Checkout)
	trx.GET("", s.transactionHandler.ListMine)
	trx.GET("/:id", s.transactionHandler.Get)
	trx.POST("/:id/confirm-delivery", s.transactionHandler.ConfirmDelivery)
	trx.POST("/:id/cancel", s.transactionHandler.Cancel)

	// -------- admin --------
	admin := api.Group("/admin", auth, mw.RequireAdmin())
	admin.GET("/transactions", s.transactionHandler.AdminList)
	admin.POST("/transactions/:id/status", s.transactionHandler.UpdateStatus)
	admin.GET("/promo-codes", s.promoHandler.List)
	admin.POST("/promo-codes", s.promoHandler.Create)
	admin.POST("/promo-codes/:id/toggle", s.promoHandler.Toggle)
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
