package snapshot

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Observer is told about every key write and its outcome.
type Observer func(key string, err error)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithObserver registers a write observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithClock overrides time.Now for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store reads and merges snapshots on top of a Backend. All writes go through
// one mutex so read-merge-write cycles do not interleave within a process.
type Store struct {
	backend   Backend
	mu        sync.Mutex
	logger    *slog.Logger
	observers []Observer
	now       func() time.Time
}

// NewStore wraps a backend.
func NewStore(b Backend, opts ...Option) *Store {
	s := &Store{backend: b, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() Backend { return s.backend }

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

// Read returns the snapshot stored under key. It fails with ErrNotFound when
// the key is absent and ErrMalformed when the bytes cannot be decoded.
func (s *Store) Read(key string) (Snapshot, error) {
	data, err := s.backend.Get(key)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := Decode(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read %s: %w", key, err)
	}
	return snap, nil
}

// ReadOrDefault returns the stored snapshot merged over DefaultSnapshot, or
// DefaultSnapshot alone when the key is absent or unreadable. It never fails.
func (s *Store) ReadOrDefault(key string) Snapshot {
	snap, err := s.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log().Warn("snapshot unreadable, using defaults", "key", key, "error", err)
		}
		return DefaultSnapshot()
	}
	return Merge(DefaultSnapshot(), snap)
}

// Write merges patch into the snapshot stored under key and returns the
// merged result. Keys not present in patch keep their stored values.
func (s *Store) Write(key string, patch Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(key, patch)
}

func (s *Store) writeLocked(key string, patch Snapshot) (Snapshot, error) {
	base, err := s.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log().Warn("replacing unreadable snapshot", "key", key, "error", err)
		}
		base = New()
	}
	merged := Merge(base, patch)
	merged.UpdatedAt = s.now().UTC()
	if err := s.put(key, merged); err != nil {
		return Snapshot{}, err
	}
	return merged, nil
}

func (s *Store) put(key string, snap Snapshot) error {
	data, err := Encode(snap)
	if err == nil {
		err = s.backend.Put(key, data)
	}
	for _, o := range s.observers {
		o(key, err)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

// Load returns the current record: both keys merged, the more recently
// updated one winning, over the default record.
func (s *Store) Load() Snapshot {
	pending, perr := s.Read(KeyPending)
	permanent, merr := s.Read(KeyPermanent)
	for key, err := range map[string]error{KeyPending: perr, KeyPermanent: merr} {
		if err != nil && !errors.Is(err, ErrNotFound) {
			s.log().Warn("snapshot unreadable, ignoring", "key", key, "error", err)
		}
	}

	out := DefaultSnapshot()
	switch {
	case perr == nil && merr == nil:
		older, newer := permanent, pending
		if permanent.UpdatedAt.After(pending.UpdatedAt) {
			older, newer = pending, permanent
		}
		out = Merge(Merge(out, older), newer)
	case perr == nil:
		out = Merge(out, pending)
	case merr == nil:
		out = Merge(out, permanent)
	}
	return out
}

// Save merges patch into the current record and writes the result to both
// the permanent and the temporary key, in that order. A record without an ID
// gets one. If the second write fails the keys diverge until the next Save
// or Repair; Load still returns the newer record because it merges by
// UpdatedAt.
func (s *Store) Save(patch Snapshot) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := Merge(s.Load(), patch)
	if merged.ID == "" {
		merged.ID = uuid.NewString()
	}
	merged.UpdatedAt = s.now().UTC()

	if err := s.put(KeyPermanent, merged); err != nil {
		return Snapshot{}, err
	}
	if err := s.put(KeyPending, merged); err != nil {
		return Snapshot{}, err
	}
	s.log().Debug("snapshot saved", "id", merged.ID, "keys", len(merged.Keys()))
	return merged, nil
}

// Profile returns the typed view of the current record.
func (s *Store) Profile() Profile {
	return NewProfile(s.Load())
}

// InSync reports whether the temporary and permanent keys hold the same
// content. Two absent keys are in sync.
func (s *Store) InSync() (bool, error) {
	pending, perr := s.Read(KeyPending)
	permanent, merr := s.Read(KeyPermanent)
	if errors.Is(perr, ErrNotFound) && errors.Is(merr, ErrNotFound) {
		return true, nil
	}
	if perr != nil && !errors.Is(perr, ErrNotFound) {
		return false, perr
	}
	if merr != nil && !errors.Is(merr, ErrNotFound) {
		return false, merr
	}
	if perr != nil || merr != nil {
		return false, nil
	}
	return Equal(pending, permanent), nil
}

// Repair rewrites both keys from Load, bringing them back in sync.
func (s *Store) Repair() (Snapshot, error) {
	return s.Save(Snapshot{})
}
