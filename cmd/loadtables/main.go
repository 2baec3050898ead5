package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/evect-health/fulfillment/internal/app/bootstrap"
	appconfig "github.com/evect-health/fulfillment/internal/config"
	"github.com/evect-health/fulfillment/internal/knowledge"
	"github.com/evect-health/fulfillment/pkg/logging"
)

// loadtables replaces the warehouse tables with a newline-delimited JSON
// dataset. Without -dir the dataset bundled into the binary is loaded.
func main() {
	_ = godotenv.Load()
	dir := flag.String("dir", "", "directory holding outbreaks.jsonl, diseases.jsonl, facilities.jsonl and country_diseases.jsonl")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	source := knowledge.EmbeddedFS()
	if *dir != "" {
		source = os.DirFS(*dir)
	}
	ds, err := knowledge.LoadDataset(source)
	if err != nil {
		logger.Error("failed to read dataset", "dir", *dir, "error", err)
		os.Exit(1)
	}

	pool, err := bootstrap.BuildWarehousePool(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect to warehouse", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	stats, err := knowledge.LoadWarehouse(ctx, pool, ds)
	if err != nil {
		logger.Error("failed to load warehouse", "error", err)
		os.Exit(1)
	}
	for table, rows := range stats {
		logger.Info("table loaded", "table", table, "rows", rows)
	}
}
