package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/navid-fn/radar/configs"
	"github.com/navid-fn/radar/internal/arbitrage"
	"github.com/navid-fn/radar/internal/server"
	"github.com/navid-fn/radar/internal/storage"
)

func main() {
	cfg := configs.AppLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	gin.SetMode(cfg.Server.GinMode)

	store, err := storage.NewClickHouseStorage(cfg.Storage.DBDSN)
	if err != nil {
		logger.Error("Failed to connect to ClickHouse", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	a := cfg.Arbitrage
	thresholds := arbitrage.NewConfig(
		a.StableQuote, a.FiatQuote, a.ReferenceSymbol,
		a.MinPercentageDifference, a.MinUSDTQuoteVolume, a.MinTMNQuoteVolume,
	)

	recordService := server.NewRecordService(store, thresholds, a.TopN)
	recordHandler := server.NewRecordHandler(recordService, logger)
	router := server.NewRouter(&server.Config{RecordHandler: recordHandler})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Starting API server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("API server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Warn("Shutdown signal received, stopping API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown failed", "error", err)
	}
}
