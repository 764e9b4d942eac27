package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/khaisazumma/rebooku-sub000/internal/client"
	"github.com/khaisazumma/rebooku-sub000/internal/config"
	"github.com/khaisazumma/rebooku-sub000/internal/logger"
	"github.com/khaisazumma/rebooku-sub000/internal/repository"
	"github.com/khaisazumma/rebooku-sub000/internal/server"
	"github.com/khaisazumma/rebooku-sub000/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.WithError(err).Fatal("init database")
	}

	bookRepo := repository.NewBookRepository(db)
	promoRepo := repository.NewPromoCodeRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	cartRepo := repository.NewCartRepository(db)
	if cfg.CartStore == "redis" {
		rdb, err := client.InitRedisClient(context.Background(), cfg.Redis)
		if err != nil {
			log.WithError(err).Fatal("init redis")
		}
		defer rdb.Close()
		cartRepo = repository.NewRedisCartRepository(rdb, cfg.Redis.CartTTL)
	}

	if cfg.SeedDemoData {
		ctx := context.Background()
		if err := bookRepo.Seed(ctx); err != nil {
			log.WithError(err).Fatal("seed books")
		}
		if err := promoRepo.Seed(ctx, time.Now()); err != nil {
			log.WithError(err).Fatal("seed promo codes")
		}
		log.Info("demo data seeded")
	}

	services := server.Services{
		Book:        service.NewBookService(db, bookRepo, log),
		Cart:        service.NewCartService(db, bookRepo, cartRepo),
		Promo:       service.NewPromoService(db, promoRepo, nil, log),
		Transaction: service.NewTransactionService(db, cfg.Fees.Schedule(), bookRepo, promoRepo, transactionRepo, cartRepo, nil, log),
		Review:      service.NewReviewService(db, bookRepo, reviewRepo, transactionRepo, log),
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(cfg, services, log)

	log.WithFields(map[string]interface{}{
		"addr":       serverAddr,
		"env":        cfg.Environment.Name,
		"db":         cfg.Database.Driver,
		"cart_store": cfg.CartStore,
	}).Info("Starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
