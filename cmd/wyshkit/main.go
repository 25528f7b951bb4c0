// Package main запускает HTTP-сервер сервиса Wyshkit.
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

	"github.com/devwyshkit/wyshkit-sub002/internal/config"
	"github.com/devwyshkit/wyshkit-sub002/internal/distance"
	"github.com/devwyshkit/wyshkit-sub002/internal/handler"
	"github.com/devwyshkit/wyshkit-sub002/internal/messaging"
	"github.com/devwyshkit/wyshkit-sub002/internal/middleware"
	"github.com/devwyshkit/wyshkit-sub002/internal/otp"
	"github.com/devwyshkit/wyshkit-sub002/internal/razorpay"
	"github.com/devwyshkit/wyshkit-sub002/internal/repository"
	"github.com/devwyshkit/wyshkit-sub002/internal/service"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		sugar.Warnw("incomplete configuration", "missing", missing)
	}

	repo, err := repository.New(cfg.DatabaseURI)
	if err != nil {
		sugar.Fatalw("database initialization error", "error", err.Error())
	}
	defer repo.Close()

	payments := razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	sender := messaging.NewClient(cfg.MessagingAddress, cfg.MessagingAPIKey)
	estimator := distance.NewEstimator(cfg.DistanceAddress)
	otpManager := otp.NewManager(repo, sender)

	svc := service.NewService(repo, logger, payments, estimator, otpManager, service.Config{
		PlatformFeeBps:  int64(cfg.PlatformFeeBps),
		CashbackRateBps: int64(cfg.CashbackRateBps),
	})
	defer svc.Close()

	authMiddleware := middleware.NewAuthMiddleware(cfg.AuthSecret)
	h := handler.NewHandler(svc, logger, authMiddleware, cfg)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting wyshkit server", "addr", cfg.RunAddress, "env", cfg.Environment)
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
