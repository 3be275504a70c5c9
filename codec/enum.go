package codec

import (
	"fmt"

	"github.com/roach88/prefs/wire"
)

// RawRepresentable is an enumeration-like type backed by a raw scalar.
type RawRepresentable[R comparable] interface {
	comparable
	RawValue() R
}

// RawEnum derives a codec for an enumeration from the codec of its raw
// value. The wire type is the raw value's wire type.
//
// cases must list every valid case. FromWire returns an
// *UnknownRawValueError when the stored raw value matches none of them.
// RawEnum panics if cases is empty or two cases share a raw value.
func RawEnum[E RawRepresentable[R], R comparable, W wire.Value](raw Codec[R, W], cases ...E) Codec[E, W] {
	return newEnumCodec(raw, func(e E) R { return e.RawValue() }, cases)
}

// IntEnum is RawEnum for integer named constants, whose raw value is the
// constant itself.
//
//	type Weekday int
//	const (Sunday Weekday = iota; Monday)
//	days := codec.IntEnum(Sunday, Monday)
func IntEnum[E Integer](cases ...E) Codec[E, wire.Int] {
	return newEnumCodec(Int[E](), func(e E) E { return e }, cases)
}

// StringEnum is RawEnum for string named constants.
func StringEnum[E ~string](cases ...E) Codec[E, wire.String] {
	return newEnumCodec(String[E](), func(e E) E { return e }, cases)
}

type enumCodec[E comparable, R comparable, W wire.Value] struct {
	raw      Codec[R, W]
	rawOf    func(E) R
	byRaw    map[R]E
	typeName string
}

func newEnumCodec[E comparable, R comparable, W wire.Value](raw Codec[R, W], rawOf func(E) R, cases []E) enumCodec[E, R, W] {
	var zero E
	typeName := fmt.Sprintf("%T", zero)
	if len(cases) == 0 {
		panic(fmt.Sprintf("codec: enumeration %s has no cases", typeName))
	}

	byRaw := make(map[R]E, len(cases))
	for _, c := range cases {
		r := rawOf(c)
		if prev, dup := byRaw[r]; dup && prev != c {
			panic(fmt.Sprintf("codec: enumeration %s: cases %v and %v share raw value %#v", typeName, prev, c, r))
		}
		byRaw[r] = c
	}

	return enumCodec[E, R, W]{
		raw:      raw,
		rawOf:    rawOf,
		byRaw:    byRaw,
		typeName: typeName,
	}
}

func (c enumCodec[E, R, W]) ToWire(v E) W {
	return c.raw.ToWire(c.rawOf(v))
}

func (c enumCodec[E, R, W]) FromWire(w W) (E, error) {
	var zero E
	r, err := c.raw.FromWire(w)
	if err != nil {
		return zero, err
	}
	v, ok := c.byRaw[r]
	if !ok {
		return zero, &UnknownRawValueError{Type: c.typeName, Raw: r}
	}
	return v, nil
}
