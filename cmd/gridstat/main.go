// Command gridstat consolidates MET grid_stat output into one artifact per
// control flow, grid and prefix combination.
//
// Usage:
//
//	go run ./cmd/gridstat -config configs/gridstat.yaml [-strict]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/gridstat-etl/internal/adapter/artifact"
	"github.com/couchcryptid/gridstat-etl/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/gridstat-etl/internal/adapter/kafka"
	"github.com/couchcryptid/gridstat-etl/internal/adapter/localfs"
	"github.com/couchcryptid/gridstat-etl/internal/config"
	"github.com/couchcryptid/gridstat-etl/internal/observability"
	"github.com/couchcryptid/gridstat-etl/internal/pipeline"
)

func main() {
	configPath := flag.String("config", "configs/gridstat.yaml", "path to the batch configuration file")
	strict := flag.Bool("strict", false, "exit 1 when any configuration fails")
	flag.Parse()

	os.Exit(run(*configPath, *strict))
}

func run(configPath string, strict bool) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Kafka notifications are feature-flagged via KAFKA_TOPIC.
	var notifier pipeline.Notifier
	if cfg.KafkaTopic != "" {
		n := kafkaadapter.NewNotifier(cfg, logger)
		defer func() {
			if err := n.Close(); err != nil {
				logger.Error("kafka notifier close error", "error", err)
			}
		}()
		notifier = n
		logger.Info("artifact notifications enabled", "topic", cfg.KafkaTopic)
	}

	ingestor := pipeline.NewIngestor(localfs.NewSource(), artifact.NewStore(), notifier, metrics, observability.ParseLevel(cfg.LogLevel))
	batch := pipeline.NewBatch(ingestor, cfg.WorkerCount(), logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, batch, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	logger.Info("running gridstat", "workers", cfg.WorkerCount())
	results := batch.Run(ctx, cfg.Configurations())

	for _, r := range results {
		if r.Err != nil {
			fmt.Println("Failed: " + r.Err.Error())
			continue
		}
		fmt.Println(r.Message)
	}

	if strict && pipeline.Failed(results) {
		return 1
	}
	return 0
}
