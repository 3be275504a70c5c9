package codec

import (
	"bytes"
	"math"
	"net/url"
	"time"

	"github.com/roach88/prefs/wire"
)

// Integer is the set of integer types that fit losslessly in wire.Int.
// uint and uint64 are excluded because they exceed int64.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32
}

// Bool passes booleans through.
func Bool[T ~bool]() Codec[T, wire.Bool] {
	return Func(
		func(v T) wire.Bool { return wire.Bool(v) },
		func(w wire.Bool) (T, error) { return T(w), nil },
	)
}

// Int passes integers through as int64.
//
// FromWire never fails: a stored value outside T's range saturates to T's
// minimum or maximum instead of wrapping.
func Int[T Integer]() Codec[T, wire.Int] {
	lo, hi := intRange[T]()
	return Func(
		func(v T) wire.Int { return wire.Int(v) },
		func(w wire.Int) (T, error) {
			switch {
			case w < wire.Int(lo):
				return lo, nil
			case w > wire.Int(hi):
				return hi, nil
			}
			return T(w), nil
		},
	)
}

// intRange returns the smallest and largest values of T.
func intRange[T Integer]() (lo, hi T) {
	for {
		next := hi<<1 | 1
		if next <= hi {
			break
		}
		hi = next
	}
	if ^T(0) < 0 {
		lo = -hi - 1
	}
	return lo, hi
}

// Float passes single and double precision floats through as float64.
func Float[T ~float32 | ~float64]() Codec[T, wire.Float] {
	return Func(
		func(v T) wire.Float { return wire.Float(v) },
		func(w wire.Float) (T, error) { return T(w), nil },
	)
}

// String passes text through.
func String[T ~string]() Codec[T, wire.String] {
	return Func(
		func(v T) wire.String { return wire.String(v) },
		func(w wire.String) (T, error) { return T(w), nil },
	)
}

// Bytes passes opaque buffers through. Both directions copy, so neither
// side aliases the other's memory.
func Bytes() Codec[[]byte, wire.Bytes] {
	return Func(
		func(v []byte) wire.Bytes { return wire.Bytes(bytes.Clone(v)) },
		func(w wire.Bytes) ([]byte, error) { return bytes.Clone(w), nil },
	)
}

// URL passes URLs through unchanged.
func URL() Codec[url.URL, wire.URL] {
	return Func(
		func(v url.URL) wire.URL { return wire.URL{URL: v} },
		func(w wire.URL) (url.URL, error) { return w.URL, nil },
	)
}

// Time stores an instant as float64 seconds since the Unix epoch.
//
// The conversion is lossy: float64 carries about 15-16 significant digits,
// so present-day instants keep roughly microsecond precision. Rebuilt times
// are in UTC. A non-finite wire value, or one too large for int64
// seconds, rebuilds as the zero Time.
func Time() Codec[time.Time, wire.Float] {
	return Func(
		func(v time.Time) wire.Float {
			return wire.Float(float64(v.Unix()) + float64(v.Nanosecond())/1e9)
		},
		func(w wire.Float) (time.Time, error) {
			f := float64(w)
			if math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
				return time.Time{}, nil
			}
			sec, frac := math.Modf(f)
			return time.Unix(int64(sec), int64(math.Round(frac*1e9))).UTC(), nil
		},
	)
}
