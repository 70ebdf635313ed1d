package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/nutragenie/nutragenie/internal/config"
	"github.com/nutragenie/nutragenie/internal/conflict"
	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/remote"
	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// services bundles what the store-facing commands share.
type services struct {
	cfg     *config.Config
	logger  *slog.Logger
	backend snapshot.Backend
	store   *snapshot.Store
	client  *remote.Client
	syncer  *remote.Syncer
	metrics *metrics.Metrics
	tables  conflict.Tables
}

// validConfig joins every validation problem into one error.
func validConfig(c *config.Config) error {
	verrs := config.Validate(c)
	if len(verrs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(verrs))
	for _, ve := range verrs {
		errs = append(errs, ve)
	}
	return fmt.Errorf("invalid configuration (run nutragenie health): %w", errors.Join(errs...))
}

// newServices opens the configured store and wires the syncer. logger may
// be nil for slog.Default.
func newServices(c *config.Config, logger *slog.Logger) (*services, error) {
	if err := validConfig(c); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	var backend snapshot.Backend
	switch c.Store.Backend {
	case config.BackendMemory:
		backend = snapshot.NewMemoryBackend()
	default:
		if err := config.EnsureDirectories(c); err != nil {
			return nil, err
		}
		fb, err := snapshot.NewFileBackend(c.Store.Dir)
		if err != nil {
			return nil, err
		}
		backend = fb
	}

	tables, err := config.ConflictTables(c)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	store := snapshot.NewStore(backend,
		snapshot.WithLogger(logger),
		snapshot.WithObserver(m.SnapshotWrite),
	)

	var client *remote.Client
	if c.Remote.URL != "" {
		client = remote.NewClient(c.Remote.URL, c.Remote.Timeout)
	}
	syncer := remote.NewSyncer(store, client,
		remote.WithSyncLogger(logger),
		remote.WithMetrics(m),
	)

	return &services{
		cfg:     c,
		logger:  logger,
		backend: backend,
		store:   store,
		client:  client,
		syncer:  syncer,
		metrics: m,
		tables:  tables,
	}, nil
}

// watchDir is the directory to watch for snapshot changes, "" for stores
// that are not file backed.
func (s *services) watchDir() string {
	if fb, ok := s.backend.(*snapshot.FileBackend); ok {
		return fb.Dir()
	}
	return ""
}

// tuiLogger sends logs to the log file while a full-screen UI owns the
// terminal. The returned closer restores nothing; the process exits after.
func tuiLogger(c *config.Config) (*slog.Logger, io.Closer, error) {
	f, err := config.OpenLogFile(c.LogFile())
	if err != nil {
		return nil, nil, err
	}
	logger := config.NewLogger(c.Log, f)
	slog.SetDefault(logger)
	return logger, f, nil
}
