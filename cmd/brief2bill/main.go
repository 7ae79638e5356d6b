// File path: cmd/brief2bill/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Techindraa01/Brief2Bill-sub002/internal/api"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/common"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/config"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/draft"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/history"
	"github.com/Techindraa01/Brief2Bill-sub002/internal/provider"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("brief2bill: .env file not loaded", "error", err)
	} else {
		logger.Info("brief2bill: environment loaded from .env")
	}

	settings := config.Load()
	addr := flag.String("addr", settings.Addr, "listen address")
	historyPath := flag.String("history", settings.HistoryPath, "path to the draft history database")
	flag.Parse()

	logger.Info("brief2bill: startup initiated", "addr", *addr, "history", *historyPath)

	registry, err := provider.NewRegistry(ctx, provider.Credentials{
		OpenRouterKey: settings.OpenRouterKey,
		GroqKey:       settings.GroqKey,
		OpenAIKey:     settings.OpenAIKey,
		GeminiKey:     settings.GeminiKey,
	}, settings.DefaultProvider, settings.DefaultModel)
	if err != nil {
		logger.Error("brief2bill: provider registry setup failed", "error", err)
		fmt.Println("provider registry error:", err)
		os.Exit(1)
	}

	var store *history.Store
	if trimmed := strings.TrimSpace(*historyPath); trimmed != "" {
		store, err = history.Open(trimmed)
		if err != nil {
			logger.Error("brief2bill: history store open failed", "error", err)
			fmt.Println("history store error:", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	orchestrator := draft.NewOrchestrator(registry, store, settings.InvokeTimeout)
	server := api.NewServer(registry, orchestrator, store, api.Config{
		Version:            config.Version,
		DraftRatePerMinute: settings.DraftRatePerMinute,
	})

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("brief2bill: listening", "addr", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("brief2bill: server failed", "error", err)
			fmt.Println("server error:", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		logger.Info("brief2bill: shutdown requested", "signal", sig.String())
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("brief2bill: graceful shutdown failed", "error", err)
		}
	}
	logger.Info("brief2bill: stopped")
}
