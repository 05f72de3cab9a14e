package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/navid-fn/radar/configs"
	"github.com/navid-fn/radar/internal/migrations"

	_ "github.com/ClickHouse/clickhouse-go/v2" // ClickHouse driver
	"github.com/pressly/goose/v3"
)

func main() {
	cfg := configs.AppLoad()

	dir := flag.String("dir", cfg.Storage.MigrationsDir, "read migrations from this directory instead of the embedded set")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "usage: migrate [-dir path] [up|down|status|version|redo|reset]")
		flag.PrintDefaults()
	}
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	db, err := sql.Open("clickhouse", cfg.Storage.DBDSN)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		os.Exit(1)
	}

	if err := goose.SetDialect("clickhouse"); err != nil {
		logger.Error("Goose: failed to set dialect", "error", err)
		os.Exit(1)
	}
	goose.SetBaseFS(migrations.Source(*dir))

	source := "embedded"
	if *dir != "" {
		source = *dir
	}
	logger.Info("Running database migrations", "command", command, "source", source)

	if err := goose.RunContext(ctx, command, db, "."); err != nil {
		logger.Error("Goose migration failed", "command", command, "error", err)
		os.Exit(1)
	}

	logger.Info("Migrations completed successfully", "command", command)
}
