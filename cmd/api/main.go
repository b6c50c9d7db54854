package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kwabena-dev/walletapi/internal/cache"
	"github.com/kwabena-dev/walletapi/internal/config"
	"github.com/kwabena-dev/walletapi/internal/handler"
	"github.com/kwabena-dev/walletapi/internal/logging"
	"github.com/kwabena-dev/walletapi/internal/middleware"
	"github.com/kwabena-dev/walletapi/internal/repository"
	"github.com/kwabena-dev/walletapi/internal/service"
	"github.com/kwabena-dev/walletapi/internal/service/ledger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Init("wallet-api", cfg.LogLevel, cfg.AppEnv)

	ctx := context.Background()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns:     cfg.DBMaxOpenConns,
		MaxIdleConns:     cfg.DBMaxIdleConns,
		ConnMaxLifetimeS: cfg.DBConnMaxLifetimeS,
		ConnMaxIdleTimeS: cfg.DBConnMaxIdleTimeS,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var balanceCache cache.Cache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
		balanceCache = redisCache
	} else {
		slog.Warn("REDIS_URL not set, using in-process balance cache")
		balanceCache = cache.NewMemory()
	}

	accounts := repository.NewAccountRepository(db)
	records := repository.NewTransferRecordRepository(db)

	accountSvc := service.NewAccountService(accounts, balanceCache, cfg.BalanceCacheTTL)
	ledgerSvc := ledger.NewService(accounts, records, balanceCache, db)

	authHandler := handler.NewAuthHandler(accountSvc, accounts, cfg.JWTSecret, cfg.JWTExpiry)
	accountHandler := handler.NewAccountHandler(accountSvc, ledgerSvc)
	transferHandler := handler.NewTransferHandler(ledgerSvc)
	healthHandler := handler.NewHealthHandler(db)

	authn := middleware.Auth(cfg.JWTSecret)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", healthHandler.Liveness)
	mux.HandleFunc("GET /health/ready", healthHandler.Readiness)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.Handle("GET /api/v1/accounts/me", authn(http.HandlerFunc(accountHandler.Me)))
	mux.Handle("DELETE /api/v1/accounts/me", authn(http.HandlerFunc(accountHandler.Remove)))
	mux.Handle("POST /api/v1/accounts/top-up", authn(http.HandlerFunc(accountHandler.TopUp)))
	mux.Handle("POST /api/v1/transfers", authn(http.HandlerFunc(transferHandler.Create)))
	mux.Handle("GET /api/v1/transfers", authn(http.HandlerFunc(transferHandler.List)))

	root := middleware.Tracing(middleware.Logging(middleware.Recovery(mux)))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           root,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
