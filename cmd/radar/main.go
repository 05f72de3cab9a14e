package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // report timestamps are rendered in Asia/Tehran

	"github.com/navid-fn/radar/configs"
	"github.com/navid-fn/radar/internal/alert"
	"github.com/navid-fn/radar/internal/arbitrage"
	"github.com/navid-fn/radar/internal/drivers/coingecko"
	"github.com/navid-fn/radar/internal/drivers/wallex"
	"github.com/navid-fn/radar/internal/monitor"
	"github.com/navid-fn/radar/internal/report"
	"github.com/navid-fn/radar/internal/scraper"
	"github.com/navid-fn/radar/internal/storage"
)

func main() {
	cfg := configs.AppLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	wallexClient := wallex.NewClient(wallex.Config{
		BaseURL:           cfg.Wallex.BaseURL,
		RequestsPerSecond: cfg.Wallex.RequestsPerSecond,
		MaxRetries:        cfg.Wallex.MaxRetries,
		RequestTimeout:    cfg.Wallex.RequestTimeout,
	}, logger)

	var globals scraper.GlobalStatsSource = wallexClient
	if cfg.Monitor.GlobalStatsSource == "coingecko" {
		globals = coingecko.NewClient(coingecko.Config{
			BaseURL:        cfg.Coingecko.BaseURL,
			APIKey:         cfg.Coingecko.APIKey,
			Pages:          cfg.Coingecko.Pages,
			MaxRetries:     cfg.Coingecko.MaxRetries,
			RequestTimeout: cfg.Coingecko.RequestTimeout,
		}, logger)
	}

	var sinks []report.Sink
	if cfg.Report.Enabled {
		excel, err := report.NewExcelWriter(cfg.Report.Dir, cfg.Report.HighPositive, cfg.Report.HighNegative, logger)
		if err != nil {
			logger.Error("Failed to prepare report directory", "dir", cfg.Report.Dir, "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, excel)
	}

	if cfg.Storage.Enabled {
		store, err := storage.NewClickHouseStorage(cfg.Storage.DBDSN)
		if err != nil {
			logger.Error("Failed to connect to ClickHouse", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sinks = append(sinks, storage.NewSink(store))
	}

	var notifiers []alert.Notifier
	if cfg.Kafka.Enabled {
		kafkaNotifier := alert.NewKafkaNotifier(cfg.Kafka.Broker, cfg.Kafka.Topic, logger)
		defer kafkaNotifier.Close()
		notifiers = append(notifiers, kafkaNotifier)
	}

	if cfg.Telegram.BotToken != "" {
		telegram, err := alert.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, logger)
		if err != nil {
			logger.Error("Telegram alerts disabled", "error", err)
		} else {
			notifiers = append(notifiers, telegram)
		}
	}

	a := cfg.Arbitrage
	m := monitor.New(monitor.Config{
		Arbitrage: arbitrage.NewConfig(
			a.StableQuote, a.FiatQuote, a.ReferenceSymbol,
			a.MinPercentageDifference, a.MinUSDTQuoteVolume, a.MinTMNQuoteVolume,
		),
		TopN:         a.TopN,
		Interval:     cfg.Monitor.Interval,
		CycleTimeout: cfg.Monitor.CycleTimeout,
	}, wallexClient, globals, sinks, notifiers, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Monitor failed", "error", err)
	}
	logger.Info("Shutdown complete")
}
