package remote

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nutragenie/nutragenie/internal/metrics"
	"github.com/nutragenie/nutragenie/internal/snapshot"
)

// Syncer persists snapshots locally and then pushes them to the record API
// in the background. Only one push is in flight at a time; saves made while
// a push runs are coalesced into a single follow-up push of the latest
// record.
type Syncer struct {
	store   *snapshot.Store
	client  *Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	onPush  func(Record, error)

	mu       sync.Mutex
	inflight bool
	next     *Record
	wg       sync.WaitGroup
}

// SyncerOption configures a Syncer.
type SyncerOption func(*Syncer)

// WithSyncLogger sets the logger for remote failures.
func WithSyncLogger(l *slog.Logger) SyncerOption {
	return func(s *Syncer) { s.logger = l }
}

// WithMetrics counts push outcomes.
func WithMetrics(m *metrics.Metrics) SyncerOption {
	return func(s *Syncer) { s.metrics = m }
}

// WithPushHook is called after every remote attempt.
func WithPushHook(fn func(Record, error)) SyncerOption {
	return func(s *Syncer) { s.onPush = fn }
}

// NewSyncer wraps a store. client may be nil, which disables remote pushes.
func NewSyncer(store *snapshot.Store, client *Client, opts ...SyncerOption) *Syncer {
	s := &Syncer{store: store, client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Store returns the local store.
func (s *Syncer) Store() *snapshot.Store { return s.store }

// Client returns the remote client, nil when remote sync is disabled.
func (s *Syncer) Client() *Client { return s.client }

// Persist saves patch to the local store and, once that has succeeded,
// schedules a remote push. The returned error is only ever a local one;
// remote failures are logged and counted.
func (s *Syncer) Persist(ctx context.Context, patch snapshot.Snapshot) (snapshot.Snapshot, error) {
	saved, err := s.store.Save(patch)
	if err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("persist locally: %w", err)
	}
	if s.client == nil {
		return saved, nil
	}

	rec := Flatten(saved)
	s.mu.Lock()
	if s.inflight {
		s.next = &rec
		s.mu.Unlock()
		return saved, nil
	}
	s.inflight = true
	s.wg.Add(1)
	s.mu.Unlock()

	// The push outlives the caller's context; it only inherits its values.
	go s.run(context.WithoutCancel(ctx), rec)
	return saved, nil
}

func (s *Syncer) run(ctx context.Context, rec Record) {
	defer s.wg.Done()
	for {
		s.push(ctx, rec)

		s.mu.Lock()
		if s.next == nil {
			s.inflight = false
			s.mu.Unlock()
			return
		}
		rec = *s.next
		s.next = nil
		s.mu.Unlock()
	}
}

func (s *Syncer) push(ctx context.Context, rec Record) {
	_, err := s.client.Post(ctx, rec)
	s.metrics.RemoteSync(err)
	if err != nil {
		s.log().Warn("remote sync failed, local snapshot kept", "id", rec.ID, "key", snapshot.KeyPermanent, "error", err)
	} else {
		s.log().Debug("remote sync ok", "id", rec.ID)
	}
	if s.onPush != nil {
		s.onPush(rec, err)
	}
}

// Wait blocks until no push is in flight.
func (s *Syncer) Wait() {
	s.wg.Wait()
}
