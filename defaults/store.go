package defaults

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/wire"
)

// ErrKindMismatch is returned when a stored entry's kind differs from the
// kind a key expects.
var ErrKindMismatch = errors.New("stored kind does not match key")

// Change describes one write or removal.
type Change struct {
	// ID is a time-sortable UUIDv7 identifying this change.
	ID string

	Key string

	// Kind is the new entry's kind, or "" when the key was removed.
	Kind string

	// Old and New are canonical JSON values; nil means absent.
	Old []byte
	New []byte

	// Seq is the backend seq of the write, or 0 for a removal.
	Seq int64
}

// Removed reports whether the change deleted the key.
func (c Change) Removed() bool { return c.New == nil }

// Observer receives changes. It is called synchronously on the writing
// goroutine, after the write has committed.
type Observer func(Change)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Store wraps a backend with change notification.
//
// Thread-safety: Store is safe for concurrent use. Observers registered
// while a write is in flight may or may not see that write.
type Store struct {
	backend store.Backend
	logger  *slog.Logger

	mu        sync.RWMutex
	observers map[string]map[uint64]Observer
	nextID    uint64
}

// New returns a Store over backend.
func New(backend store.Backend, opts ...Option) *Store {
	s := &Store{
		backend:   backend,
		logger:    slog.Default(),
		observers: make(map[string]map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Backend returns the underlying backend.
func (s *Store) Backend() store.Backend { return s.backend }

// Close closes the backend.
func (s *Store) Close() error { return s.backend.Close() }

// Lookup returns the raw entry for key. ok is false when none exists.
func (s *Store) Lookup(ctx context.Context, key string) (store.Entry, bool, error) {
	e, err := s.backend.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return store.Entry{}, false, nil
	}
	if err != nil {
		return store.Entry{}, false, err
	}
	return e, true, nil
}

// Write stores a wire value under key and notifies observers.
func (s *Store) Write(ctx context.Context, key string, v wire.Value) error {
	data, err := wire.MarshalCanonical(v)
	if err != nil {
		return fmt.Errorf("write %q: %w", key, err)
	}
	return s.WriteRaw(ctx, store.Entry{Key: key, Kind: v.Kind().String(), Value: data})
}

// WriteRaw stores an entry whose value is already canonical JSON of the
// given kind, and notifies observers. The kind string is validated but the
// value is not re-parsed.
func (s *Store) WriteRaw(ctx context.Context, e store.Entry) error {
	if _, err := wire.ParseKind(e.Kind); err != nil {
		return fmt.Errorf("write %q: %w", e.Key, err)
	}

	old, existed, err := s.Lookup(ctx, e.Key)
	if err != nil {
		return fmt.Errorf("write %q: %w", e.Key, err)
	}

	stored, err := s.backend.Put(ctx, e)
	if err != nil {
		return fmt.Errorf("write %q: %w", e.Key, err)
	}

	s.logger.Debug("preference written",
		"key", e.Key,
		"kind", e.Kind,
		"seq", stored.Seq,
	)

	change := Change{Key: e.Key, Kind: e.Kind, New: bytes.Clone(e.Value), Seq: stored.Seq}
	if existed {
		change.Old = old.Value
	}
	s.notify(change)
	return nil
}

// Remove deletes key and notifies observers if an entry existed.
func (s *Store) Remove(ctx context.Context, key string) error {
	old, existed, err := s.Lookup(ctx, key)
	if err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("remove %q: %w", key, err)
	}
	if !existed {
		return nil
	}

	s.logger.Debug("preference removed", "key", key)
	s.notify(Change{Key: key, Old: old.Value})
	return nil
}

// Entries returns every stored entry ordered by key.
func (s *Store) Entries(ctx context.Context) ([]store.Entry, error) {
	entries, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return entries, nil
}

// Observe registers fn for changes to key and returns a function that
// unregisters it. The cancel function is idempotent.
func (s *Store) Observe(key string, fn Observer) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	if s.observers[key] == nil {
		s.observers[key] = make(map[uint64]Observer)
	}
	s.observers[key][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.observers[key], id)
			if len(s.observers[key]) == 0 {
				delete(s.observers, key)
			}
		})
	}
}

func (s *Store) notify(c Change) {
	s.mu.RLock()
	fns := make([]Observer, 0, len(s.observers[c.Key]))
	for _, fn := range s.observers[c.Key] {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	if len(fns) == 0 {
		return
	}
	c.ID = uuid.Must(uuid.NewV7()).String()
	for _, fn := range fns {
		fn(c)
	}
}
