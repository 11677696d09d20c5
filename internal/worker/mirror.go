// Package worker copies locally stored records to the spreadsheet mirror.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"numus/internal/amqp"
	"numus/internal/kv"
	applog "numus/internal/log"
	"numus/internal/storage"
)

// Source is the authoritative store that tracks which record versions
// still need mirroring.
type Source interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Version(ctx context.Context, key string) (int64, error)
	PendingSync(ctx context.Context, limit int) ([]storage.PendingRecord, error)
	MarkSynced(ctx context.Context, key string, version int64) error
	MarkSyncError(ctx context.Context, key string) error
}

// Config holds configuration for the mirror loop.
type Config struct {
	// PollInterval is how often pending records are swept (default: 30s)
	PollInterval time.Duration

	// BatchSize is the max number of records per sweep (default: 10)
	BatchSize int

	// Concurrency caps parallel writes to the mirror (default: 3)
	Concurrency int
}

func DefaultConfig() Config {
	return Config{
		PollInterval: 30 * time.Second,
		BatchSize:    10,
		Concurrency:  3,
	}
}

// Mirror copies record values from Source to a target kv.Store. It runs
// as a periodic sweep and also reacts to change notifications.
type Mirror struct {
	source Source
	target kv.Store
	config Config
	logger *applog.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewMirror(source Source, target kv.Store, config Config, logger *applog.Logger) *Mirror {
	def := DefaultConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = def.PollInterval
	}
	if config.BatchSize <= 0 {
		config.BatchSize = def.BatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = def.Concurrency
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Mirror{
		source: source,
		target: target,
		config: config,
		logger: logger.WithComponent(applog.ComponentWorker),
	}
}

// Start begins the sweep loop. Returns an error if already running.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("mirror is already running")
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.runLoop(ctx)

	m.logger.InfoContext(ctx, "Mirror started",
		"poll_interval", m.config.PollInterval,
		"batch_size", m.config.BatchSize)
	return nil
}

// Stop signals the loop and waits for the current sweep to finish.
func (m *Mirror) Stop(ctx context.Context) error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return nil
	}
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		m.logger.InfoContext(ctx, "Mirror stopped gracefully")
	case <-ctx.Done():
		m.logger.WarnContext(ctx, "Mirror stop timed out")
		return ctx.Err()
	}

	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
	return nil
}

func (m *Mirror) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Mirror) runLoop(ctx context.Context) {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.config.PollInterval)
	defer ticker.Stop()

	// sweep immediately to catch up after downtime
	m.sweep(ctx)

	for {
		select {
		case <-m.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

func (m *Mirror) sweep(ctx context.Context) {
	if _, err := m.SyncPending(ctx); err != nil {
		m.logger.ErrorContext(ctx, "Mirror sweep failed", applog.FieldError, err)
	}
}

// SyncPending mirrors one batch of pending records and returns how many
// reached the target. Per-record failures are flagged on the source and
// retried by the next sweep; they do not fail the batch.
func (m *Mirror) SyncPending(ctx context.Context) (int, error) {
	pending, err := m.source.PendingSync(ctx, m.config.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("get pending records: %w", err)
	}
	if len(pending) == 0 {
		return 0, nil
	}

	m.logger.DebugContext(ctx, "Mirroring pending records", applog.FieldCount, len(pending))

	var (
		mu     sync.Mutex
		synced int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.config.Concurrency)
	for _, p := range pending {
		g.Go(func() error {
			if err := m.mirror(gctx, p.Key, p.Version); err != nil {
				m.logger.WarnContext(gctx, "Failed to mirror record",
					applog.FieldRecordKey, p.Key,
					applog.FieldVersion, p.Version,
					applog.FieldError, err)
				if markErr := m.source.MarkSyncError(gctx, p.Key); markErr != nil {
					m.logger.ErrorContext(gctx, "Failed to mark sync error",
						applog.FieldRecordKey, p.Key,
						applog.FieldError, markErr)
				}
				return nil
			}
			mu.Lock()
			synced++
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return synced, err
	}

	m.logger.InfoContext(ctx, "Mirror sweep completed",
		"total", len(pending),
		"synced", synced)
	return synced, nil
}

// HandleRecordChanged mirrors the record named in msg. The current
// value is copied even when msg is stale, so redelivery is harmless.
func (m *Mirror) HandleRecordChanged(ctx context.Context, msg *amqp.RecordChangedMessage) error {
	if msg == nil || msg.Key == "" {
		return errors.New("record changed message without key")
	}
	version, err := m.source.Version(ctx, msg.Key)
	if err != nil {
		return fmt.Errorf("get version of %s: %w", msg.Key, err)
	}
	if err := m.mirror(ctx, msg.Key, version); err != nil {
		return err
	}
	m.logger.InfoContext(ctx, "Mirrored record on change notification",
		applog.FieldRecordKey, msg.Key,
		applog.FieldVersion, version)
	return nil
}

func (m *Mirror) mirror(ctx context.Context, key string, version int64) error {
	value, ok, err := m.source.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}
	if err := m.target.Set(ctx, key, value); err != nil {
		return fmt.Errorf("write %s to mirror: %w", key, err)
	}
	if err := m.source.MarkSynced(ctx, key, version); err != nil {
		// the copy landed; the next sweep repeats it at worst
		m.logger.WarnContext(ctx, "Failed to mark record synced",
			applog.FieldRecordKey, key,
			applog.FieldError, err)
	}
	return nil
}
