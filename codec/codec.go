package codec

import (
	"github.com/roach88/prefs/wire"
)

// Codec converts between a rich type T and its wire representation W.
//
// For every v in the codec's intended domain, FromWire(ToWire(v)) must be
// semantically equal to v. Lossy codecs (Time) document their precision.
type Codec[T any, W wire.Value] interface {
	// ToWire projects v onto its wire shape. It never fails.
	ToWire(v T) W

	// FromWire rebuilds a T from a wire value. Only enumeration codecs
	// (and containers holding them) return a non-nil error.
	FromWire(w W) (T, error)
}

// Func adapts a pair of functions into a Codec.
func Func[T any, W wire.Value](to func(T) W, from func(W) (T, error)) Codec[T, W] {
	return funcCodec[T, W]{to: to, from: from}
}

type funcCodec[T any, W wire.Value] struct {
	to   func(T) W
	from func(W) (T, error)
}

func (c funcCodec[T, W]) ToWire(v T) W             { return c.to(v) }
func (c funcCodec[T, W]) FromWire(w W) (T, error) { return c.from(w) }

// Serializable is implemented by a pointer to T when T describes its own
// wire form.
//
//	type Point struct{ X, Y int }
//
//	func (p *Point) ToWire() wire.Array[wire.Int] { return wire.Array[wire.Int]{wire.Int(p.X), wire.Int(p.Y)} }
//	func (p *Point) FromWire(w wire.Array[wire.Int]) error { ... }
//
//	points := codec.Slice(codec.Self[Point, wire.Array[wire.Int]]())
type Serializable[T any, W wire.Value] interface {
	*T
	ToWire() W
	FromWire(w W) error
}

// Self returns the codec for a type whose pointer implements Serializable.
func Self[T any, W wire.Value, PT Serializable[T, W]]() Codec[T, W] {
	return selfCodec[T, W, PT]{}
}

type selfCodec[T any, W wire.Value, PT Serializable[T, W]] struct{}

func (selfCodec[T, W, PT]) ToWire(v T) W {
	return PT(&v).ToWire()
}

func (selfCodec[T, W, PT]) FromWire(w W) (T, error) {
	var v T
	if err := PT(&v).FromWire(w); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Must returns v, panicking if err is non-nil. It restores the halt-on-bad-
// data behavior for callers that treat an unknown enumeration case as a
// programming error.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
