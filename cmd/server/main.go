package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"agropos/backend/internal/assistant"
	"agropos/backend/internal/cache"
	"agropos/backend/internal/config"
	"agropos/backend/internal/httpapi"
	"agropos/backend/internal/service"
	"agropos/backend/internal/store"
	"agropos/backend/internal/store/memory"
	pgstore "agropos/backend/internal/store/postgres"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("could not read .env file")
	}

	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		logrus.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logrus.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		logrus.Info("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		logrus.Info("repository: in-memory")
	}

	carts := cache.CartStore(cache.NewMemoryCartStore())
	if cfg.RedisAddr != "" {
		redisCarts := cache.NewRedisCartStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCarts.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("redis unavailable, using in-memory carts")
		} else {
			carts = redisCarts
			closers = append(closers, redisCarts.Close)
			logrus.Info("carts: redis")
		}
	} else {
		logrus.Info("carts: in-memory")
	}

	completer := assistant.Completer(assistant.Noop{})
	if cfg.AssistantEndpoint != "" {
		completer = assistant.NewHTTPClient(cfg.AssistantEndpoint, cfg.AssistantAPIKey, time.Duration(cfg.AssistantTimeoutSeconds)*time.Second)
		logrus.Info("assistant: http")
	} else {
		logrus.Info("assistant: disabled")
	}

	svc := service.New(repo, carts, completer, time.Duration(cfg.CartTTLMinutes)*time.Minute, cfg.LowStockThreshold, cfg.LotAccurateCOGS)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logrus.Infof("shop backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown error")
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			logrus.WithError(err).Error("close error")
		}
	}

	logrus.Info("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
