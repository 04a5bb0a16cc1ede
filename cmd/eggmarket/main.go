// Package main запускает HTTP-сервер сервиса заказов.
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

	"github.com/mmeshcher/eggmarket/internal/catalog"
	"github.com/mmeshcher/eggmarket/internal/config"
	"github.com/mmeshcher/eggmarket/internal/handler"
	"github.com/mmeshcher/eggmarket/internal/metrics"
	"github.com/mmeshcher/eggmarket/internal/notifier"
	"github.com/mmeshcher/eggmarket/internal/repository"
	"github.com/mmeshcher/eggmarket/internal/service"
	"github.com/mmeshcher/eggmarket/internal/telegram"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	sugar := logger.Sugar()

	cfg, err := config.Parse()
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	var n notifier.Notifier = notifier.Nop{}
	if cfg.TelegramBotToken != "" {
		client := telegram.NewClient(cfg.TelegramAPIURL, cfg.TelegramBotToken)
		n = notifier.NewTelegram(client, cfg.AdminChatID, logger.Named("notifier"))
		if cfg.AdminChatID == "" {
			sugar.Warn("TELEGRAM_ADMIN_CHAT_ID is not set, admin notifications are disabled")
		}
	} else {
		sugar.Warn("TELEGRAM_BOT_TOKEN is not set, notifications are disabled")
	}

	m := metrics.New()

	svc := service.NewService(
		repository.NewMemoryRepository(),
		catalog.Default(),
		n,
		logger.Named("service"),
		service.WithMetrics(m),
		service.WithNotifyTimeout(cfg.NotifyTimeout),
	)
	defer svc.Close()

	h := handler.NewHandler(svc, logger, os.DirFS(cfg.StaticDir), m)

	r := h.SetupRouter()

	server := &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Запуск HTTP-сервера
	g.Go(func() error {
		sugar.Infow("starting eggmarket server", "addr", cfg.RunAddress, "static", cfg.StaticDir)
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
