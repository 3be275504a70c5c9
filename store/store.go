// Package store defines the backend contract for persisting wire values.
//
// A backend holds entries keyed by string. Each entry carries the kind of
// its wire shape (see wire.Kind) and the value's RFC 8785 canonical JSON.
// Backends never interpret the value bytes.
//
// Every write is stamped with a logical sequence number (seq) that strictly
// increases per backend. Ordering never uses wall-clock time.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no entry exists for a key.
var ErrNotFound = errors.New("preference not found")

// Entry is one stored preference.
type Entry struct {
	Key   string
	Kind  string
	Value []byte
	Seq   int64
}

// Backend persists entries. Implementations must be safe for concurrent use.
type Backend interface {
	// Get returns the entry for key, or ErrNotFound.
	Get(ctx context.Context, key string) (Entry, error)

	// Put stores e, replacing any existing entry for e.Key. The returned
	// entry carries the seq assigned to this write; e.Seq is ignored.
	Put(ctx context.Context, e Entry) (Entry, error)

	// Delete removes the entry for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns all entries ordered by key (byte order).
	List(ctx context.Context) ([]Entry, error)

	// Close releases backend resources.
	Close() error
}
