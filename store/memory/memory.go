// Package memory provides an in-process store.Backend.
package memory

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/prefs/store"
)

// Backend keeps entries in a map guarded by a RWMutex.
type Backend struct {
	mu      sync.RWMutex
	entries map[string]store.Entry
	seq     int64
}

var _ store.Backend = (*Backend)(nil)

// New returns an empty in-memory backend.
func New() *Backend {
	return &Backend{entries: make(map[string]store.Entry)}
}

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, key string) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, ok := b.entries[key]
	if !ok {
		return store.Entry{}, store.ErrNotFound
	}
	return clone(e), nil
}

// Put implements store.Backend.
func (b *Backend) Put(ctx context.Context, e store.Entry) (store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return store.Entry{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	e = clone(e)
	e.Seq = b.seq
	b.entries[e.Key] = e
	return clone(e), nil
}

// Delete implements store.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.entries, key)
	return nil
}

// List implements store.Backend.
func (b *Backend) List(ctx context.Context) ([]store.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]store.Entry, 0, len(b.entries))
	for _, e := range b.entries {
		out = append(out, clone(e))
	}
	slices.SortFunc(out, func(a, b store.Entry) int { return strings.Compare(a.Key, b.Key) })
	return out, nil
}

// Close implements store.Backend. It is a no-op.
func (b *Backend) Close() error { return nil }

func clone(e store.Entry) store.Entry {
	e.Value = bytes.Clone(e.Value)
	return e
}
