package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kurimacye/marketplace/internal/cache"
	"github.com/kurimacye/marketplace/internal/config"
	"github.com/kurimacye/marketplace/internal/httpserver"
	"github.com/kurimacye/marketplace/internal/jwtmiddleware"
	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/momo"
	"github.com/kurimacye/marketplace/internal/mykafka"
	"github.com/kurimacye/marketplace/internal/repo"
	"github.com/kurimacye/marketplace/internal/service"
	"github.com/kurimacye/marketplace/pkg/db"
	loggingmw "github.com/kurimacye/marketplace/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	producer := mykafka.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	var idem cache.Cache
	if cfg.RedisAddr != "" {
		idem = cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
	}

	r := repo.New(database)

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret}
	cartSvc := &service.CartService{Repo: r}
	orderSvc := &service.OrderService{Repo: r, Producer: producer}
	paymentSvc := &service.PaymentService{
		Repo:     r,
		Bridge:   momo.NewClient(cfg.MoMoBaseURL, cfg.MoMoAPIUser, cfg.MoMoAPIKey, cfg.MoMoSubscriptionKey),
		Idem:     idem,
		Producer: producer,
		Currency: cfg.MoMoCurrency,
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: paymentSvc},
		JWTMiddleware:  jwtmiddleware.JWTMiddleware(cfg.JWTSecret),
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
