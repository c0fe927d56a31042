// Package main запускает HTTP-сервер отчётов по платежам.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/paymentstats/internal/clock"
	"github.com/mmeshcher/paymentstats/internal/config"
	"github.com/mmeshcher/paymentstats/internal/handler"
	"github.com/mmeshcher/paymentstats/internal/middleware"
	"github.com/mmeshcher/paymentstats/internal/model"
	"github.com/mmeshcher/paymentstats/internal/repository"
	"github.com/mmeshcher/paymentstats/internal/service"
	"github.com/mmeshcher/paymentstats/internal/upstream"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	source, closeSource, err := newPaymentSource(cfg, sugar)
	if err != nil {
		sugar.Fatalw("payment source initialization error", "error", err.Error())
	}
	defer closeSource()

	clk, err := clock.New(cfg.TimeZone)
	if err != nil {
		sugar.Fatalw("clock initialization error", "error", err.Error())
	}

	svc := service.NewService(source, clk)

	authMiddleware := middleware.NewAuthMiddleware(cfg.APIKey)
	if !authMiddleware.Enabled() {
		sugar.Warn("API key is not set, report endpoints are open")
	}
	h := handler.NewHandler(svc, logger, authMiddleware)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sugar.Infow("starting paymentstats server", "addr", cfg.RunAddress, "timeZone", cfg.TimeZone)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown при отмене контекста (сигнал или ошибка в другой горутине)
	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}

// newPaymentSource выбирает источник платежей: БД, внешняя система, файл или пустое хранилище.
func newPaymentSource(cfg *config.Config, sugar *zap.SugaredLogger) (service.PaymentSource, func() error, error) {
	switch {
	case cfg.DatabaseURI != "":
		repo, err := repository.NewPostgresRepository(cfg.DatabaseURI)
		if err != nil {
			return nil, nil, err
		}
		sugar.Infow("using postgres payment source")
		return repo, repo.Close, nil

	case cfg.PaymentSourceAddress != "":
		sugar.Infow("using upstream payment source", "addr", cfg.PaymentSourceAddress)
		return upstream.NewClient(cfg.PaymentSourceAddress), func() error { return nil }, nil

	case cfg.PaymentsFile != "":
		repo, err := repository.LoadMemoryRepository(cfg.PaymentsFile)
		if err != nil {
			return nil, nil, err
		}
		sugar.Infow("using file payment source", "path", cfg.PaymentsFile)
		return repo, repo.Close, nil

	default:
		sugar.Warn("no payment source configured, serving an empty collection")
		repo := repository.NewMemoryRepository([]model.Payment{})
		return repo, repo.Close, nil
	}
}
