package codec

import (
	"fmt"

	"github.com/roach88/prefs/wire"
)

// Slice converts a []T element-wise, preserving order.
// A nil slice round-trips as nil.
func Slice[T any, W wire.Value](elem Codec[T, W]) Codec[[]T, wire.Array[W]] {
	return sliceCodec[T, W]{elem: elem}
}

type sliceCodec[T any, W wire.Value] struct {
	elem Codec[T, W]
}

func (c sliceCodec[T, W]) ToWire(v []T) wire.Array[W] {
	if v == nil {
		return nil
	}
	out := make(wire.Array[W], len(v))
	for i, e := range v {
		out[i] = c.elem.ToWire(e)
	}
	return out
}

func (c sliceCodec[T, W]) FromWire(w wire.Array[W]) ([]T, error) {
	if w == nil {
		return nil, nil
	}
	out := make([]T, len(w))
	for i, e := range w {
		v, err := c.elem.FromWire(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// SetOf converts a Set[T] to a wire array, since backends have no set shape.
//
// The array's order is unspecified and may differ between calls. FromWire
// rebuilds a set with the same membership, silently collapsing wire
// elements that map to equal values.
func SetOf[T comparable, W wire.Value](elem Codec[T, W]) Codec[Set[T], wire.Array[W]] {
	return setCodec[T, W]{elem: elem}
}

type setCodec[T comparable, W wire.Value] struct {
	elem Codec[T, W]
}

func (c setCodec[T, W]) ToWire(v Set[T]) wire.Array[W] {
	out := make(wire.Array[W], 0, len(v))
	for e := range v {
		out = append(out, c.elem.ToWire(e))
	}
	return out
}

func (c setCodec[T, W]) FromWire(w wire.Array[W]) (Set[T], error) {
	out := make(Set[T], len(w))
	for i, e := range w {
		v, err := c.elem.FromWire(e)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out.Add(v)
	}
	return out, nil
}

// Map converts the values of a string-keyed map; keys pass through.
// A nil map round-trips as nil.
func Map[T any, W wire.Value](elem Codec[T, W]) Codec[map[string]T, wire.Object[W]] {
	return mapCodec[T, W]{elem: elem}
}

type mapCodec[T any, W wire.Value] struct {
	elem Codec[T, W]
}

func (c mapCodec[T, W]) ToWire(v map[string]T) wire.Object[W] {
	if v == nil {
		return nil
	}
	out := make(wire.Object[W], len(v))
	for k, e := range v {
		out[k] = c.elem.ToWire(e)
	}
	return out
}

func (c mapCodec[T, W]) FromWire(w wire.Object[W]) (map[string]T, error) {
	if w == nil {
		return nil, nil
	}
	out := make(map[string]T, len(w))
	for _, k := range w.SortedKeys() {
		v, err := c.elem.FromWire(w[k])
		if err != nil {
			return nil, fmt.Errorf("[%q]: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// Pointer converts a *T through the codec for T. A nil pointer is stored as
// the wire form of T's zero value, so it reads back as a pointer to zero.
func Pointer[T any, W wire.Value](elem Codec[T, W]) Codec[*T, W] {
	return Func(
		func(v *T) W {
			if v == nil {
				var zero T
				return elem.ToWire(zero)
			}
			return elem.ToWire(*v)
		},
		func(w W) (*T, error) {
			v, err := elem.FromWire(w)
			if err != nil {
				return nil, err
			}
			return &v, nil
		},
	)
}
