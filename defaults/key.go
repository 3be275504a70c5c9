package defaults

import (
	"context"
	"fmt"

	"github.com/roach88/prefs/codec"
	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/wire"
)

// Key is a named, typed preference with a default value.
// Keys are immutable values and safe to share.
type Key[T any, W wire.Value] struct {
	name  string
	def   T
	codec codec.Codec[T, W]
	kind  wire.Kind
}

// NewKey declares a preference. W must be a concrete wire shape.
func NewKey[T any, W wire.Value](name string, def T, c codec.Codec[T, W]) Key[T, W] {
	return Key[T, W]{
		name:  name,
		def:   def,
		codec: c,
		kind:  wire.KindOf[W](),
	}
}

// Name returns the storage key.
func (k Key[T, W]) Name() string { return k.name }

// Default returns the value Get yields when nothing is stored.
func (k Key[T, W]) Default() T { return k.def }

// Kind returns the wire kind the key stores.
func (k Key[T, W]) Kind() wire.Kind { return k.kind }

// Get returns the stored value, or the default when no entry exists.
//
// Errors are never replaced by the default: a kind mismatch, malformed
// stored JSON or an unknown enumeration case all fail the read.
func (k Key[T, W]) Get(ctx context.Context, s *Store) (T, error) {
	e, ok, err := s.Lookup(ctx, k.name)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("get %q: %w", k.name, err)
	}
	if !ok {
		return k.def, nil
	}
	return k.decode(e.Kind, e.Value)
}

// Exists reports whether an entry is stored for the key.
func (k Key[T, W]) Exists(ctx context.Context, s *Store) (bool, error) {
	_, ok, err := s.Lookup(ctx, k.name)
	return ok, err
}

// Set stores v.
func (k Key[T, W]) Set(ctx context.Context, s *Store, v T) error {
	data, err := wire.MarshalCanonical(k.codec.ToWire(v))
	if err != nil {
		return fmt.Errorf("set %q: %w", k.name, err)
	}
	return s.WriteRaw(ctx, store.Entry{Key: k.name, Kind: k.kind.String(), Value: data})
}

// Reset removes the stored entry so Get yields the default again.
func (k Key[T, W]) Reset(ctx context.Context, s *Store) error {
	return s.Remove(ctx, k.name)
}

// Observe calls fn with the new value after each change to the key. A
// removal delivers the default. A value that fails to decode is delivered
// as the zero T with the error.
func (k Key[T, W]) Observe(s *Store, fn func(v T, err error)) (cancel func()) {
	return s.Observe(k.name, func(c Change) {
		if c.Removed() {
			fn(k.def, nil)
			return
		}
		fn(k.decode(c.Kind, c.New))
	})
}

func (k Key[T, W]) decode(kind string, data []byte) (T, error) {
	var zero T

	stored, err := wire.ParseKind(kind)
	if err != nil {
		return zero, fmt.Errorf("get %q: %w", k.name, err)
	}
	if !stored.Equal(k.kind) {
		return zero, fmt.Errorf("get %q: %w: stored %s, key expects %s", k.name, ErrKindMismatch, stored, k.kind)
	}

	w, err := wire.Decode[W](data)
	if err != nil {
		return zero, fmt.Errorf("get %q: %w", k.name, err)
	}
	v, err := k.codec.FromWire(w)
	if err != nil {
		return zero, fmt.Errorf("get %q: %w", k.name, err)
	}
	return v, nil
}
