package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"techshop-backend/internal/auth"
	"techshop-backend/internal/config"
	"techshop-backend/internal/logging"
	"techshop-backend/internal/payment"
	"techshop-backend/internal/routes"
	"techshop-backend/internal/store"
	"techshop-backend/internal/store/memstore"
	"techshop-backend/internal/store/mongostore"
)

const serviceName = "techshop-backend"

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.LogLevel, cfg.Env, serviceName); err != nil {
		panic(err)
	}
	log := logging.L()
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}
	if cfg.StripeSecret == "" {
		log.Warn("STRIPE_SECRET is not set, checkout requests will fail")
	}

	// Store
	s, err := openStore(cfg)
	if err != nil {
		log.Fatal("store connection failed", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}
	log.Info("store ready", zap.String("driver", cfg.StoreDriver), zap.String("db", cfg.DBName))

	// Sentry error tracking
	var extra []gin.HandlerFunc
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			log.Error("sentry init failed", zap.Error(err))
		} else {
			extra = append(extra, sentrygin.New(sentrygin.Options{Repanic: true}))
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.NewRouter(routes.Deps{
		Store:         s,
		Tokens:        auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry),
		Gateway:       payment.NewStripeGateway(cfg.StripeSecret, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL),
		Currency:      cfg.CheckoutCurrency,
		Service:       serviceName,
		CORSOrigins:   cfg.CORSOrigins,
		AuthRateLimit: cfg.AuthRateLimit,
	}, extra...)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("server starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if err := s.Close(ctx); err != nil {
		log.Error("store close error", zap.Error(err))
	}
	sentry.Flush(2 * time.Second)

	log.Info("server stopped")
}

func openStore(cfg *config.Config) (*store.Store, error) {
	if cfg.StoreDriver == "memory" {
		return memstore.New(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	defer cancel()
	return mongostore.Open(ctx, cfg.ConnectionString, cfg.DBName)
}
