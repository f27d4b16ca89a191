package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/gridstat-etl/internal/domain"
	"github.com/couchcryptid/gridstat-etl/internal/observability"
)

// FileSource discovers and parses grid_stat files.
type FileSource interface {
	CheckRoot(dir string) error
	Discover(cycleDir, prefix string) ([]string, error)
	Parse(path string) (*domain.Table, domain.ParseStats, error)
}

// ArtifactWriter persists one configuration's tables.
type ArtifactWriter interface {
	Write(path string, a *domain.Artifact) error
}

// Notifier announces a persisted artifact.
type Notifier interface {
	Notify(ctx context.Context, event domain.ArtifactEvent) error
}

const notifyTimeout = 10 * time.Second

// Ingestor runs the ingestion routine for a single configuration.
// It holds no per-configuration state and is safe for concurrent use.
type Ingestor struct {
	source   FileSource
	store    ArtifactWriter
	notifier Notifier
	metrics  *observability.Metrics
	level    slog.Level
}

// NewIngestor wires the ingestion routine. notifier may be nil.
func NewIngestor(source FileSource, store ArtifactWriter, notifier Notifier, metrics *observability.Metrics, level slog.Level) *Ingestor {
	return &Ingestor{
		source:   source,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		level:    level,
	}
}

// Ingest consolidates every grid_stat file of cfg's date window into one
// table per file type and writes them to cfg's artifact path. Progress and
// failures are written to cfg's log file. The returned message is the
// completion message on success.
func (in *Ingestor) Ingest(ctx context.Context, cfg domain.Configuration) (string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	logFile, err := os.Create(cfg.LogPath())
	if err != nil {
		return "", fmt.Errorf("create log file: %w", err)
	}
	defer logFile.Close()

	logger := observability.NewFileLogger(logFile, in.level).With(
		"control_flow", cfg.ControlFlow,
		"grid", cfg.Grid,
		"prefix", cfg.Prefix,
	)

	msg, err := in.ingest(ctx, cfg, logger)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		return "", err
	}
	return msg, nil
}

func (in *Ingestor) ingest(ctx context.Context, cfg domain.Configuration, logger *slog.Logger) (string, error) {
	if err := in.source.CheckRoot(cfg.InputRoot); err != nil {
		return "", err
	}
	cycles, err := domain.ParseCycleWindow(cfg.Start, cfg.End, cfg.CycleInterval)
	if err != nil {
		return "", err
	}

	logger.Info("processing dates", "start", cfg.Start, "end", cfg.End, "cycles", cycles.Len())

	tables := domain.TableSet{}
	for cycle := range cycles.All() {
		if err := in.ingestCycle(cfg, cycle, tables, logger); err != nil {
			return "", err
		}
	}

	artifact := domain.NewArtifact(cfg, tables)
	path := cfg.ArtifactPath()
	logger.Info("writing out data", "path", path, "file_types", tables.Types())
	if err := in.store.Write(path, artifact); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}

	in.notify(ctx, artifact.Event(path), logger)
	return cfg.CompletionMessage(), nil
}

func (in *Ingestor) ingestCycle(cfg domain.Configuration, cycle time.Time, tables domain.TableSet, logger *slog.Logger) error {
	dir := cfg.CycleDir(cycle)
	paths, err := in.source.Discover(dir, cfg.Prefix)
	if err != nil {
		if cfg.SkipMissingCycles && errors.Is(err, domain.ErrCycleDirMissing) {
			logger.Warn("cycle directory missing, skipping cycle", "cycle", domain.FormatCycle(cycle), "dir", dir)
			return nil
		}
		return err
	}

	for _, path := range paths {
		in.ingestFile(path, tables, logger)
	}
	return nil
}

func (in *Ingestor) ingestFile(path string, tables domain.TableSet, logger *slog.Logger) {
	fileType := domain.FileType(path)
	logger.Info("opening file", "path", path)
	defer logger.Info("closing file", "path", path)

	t, stats, err := in.source.Parse(path)
	switch {
	case errors.Is(err, domain.ErrEmptyFile):
		logger.Warn("file is empty, skipping this file", "path", path)
		in.metrics.FilesSkipped.WithLabelValues("empty").Inc()
		return
	case errors.Is(err, domain.ErrDuplicateColumn):
		logger.Warn("file header repeats a column, skipping this file", "path", path, "error", err)
		in.metrics.FilesSkipped.WithLabelValues("duplicate_column").Inc()
		return
	case err != nil:
		logger.Warn("file unreadable, skipping this file", "path", path, "error", err)
		in.metrics.FilesSkipped.WithLabelValues("unreadable").Inc()
		return
	}

	logger.Info("loading columns", "file_type", fileType, "columns", t.Columns)
	if stats.Rejected > 0 || stats.Padded > 0 {
		logger.Warn("malformed rows", "path", path, "rejected", stats.Rejected, "padded", stats.Padded)
	}

	if diff := tables.Merge(fileType, t); !diff.Empty() {
		logger.Warn("schema differs from accumulated table",
			"file_type", fileType, "added", diff.Added, "absent", diff.Absent)
	}

	in.metrics.FilesParsed.WithLabelValues(fileType).Inc()
	in.metrics.RowsIngested.WithLabelValues(fileType).Add(float64(stats.Rows))
	in.metrics.RowsRejected.WithLabelValues(fileType).Add(float64(stats.Rejected))
}

// notify is best effort: the artifact is already on disk.
func (in *Ingestor) notify(ctx context.Context, event domain.ArtifactEvent, logger *slog.Logger) {
	if in.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := in.notifier.Notify(ctx, event); err != nil {
		logger.Warn("artifact notification failed", "error", err)
	}
}
