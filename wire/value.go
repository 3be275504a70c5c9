package wire

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"unicode/utf16"
)

// Value is a sealed interface over the shapes a backend accepts.
type Value interface {
	// Kind reports the static shape of the value.
	Kind() Kind

	appendCanonical(buf *bytes.Buffer) error
}

// Bool is a boolean wire value.
type Bool bool

// Kind implements Value.
func (Bool) Kind() Kind { return Kind{Base: KindBool} }

// Int is an integer wire value. Always int64.
type Int int64

// Kind implements Value.
func (Int) Kind() Kind { return Kind{Base: KindInt} }

// Float is a floating-point wire value.
type Float float64

// Kind implements Value.
func (Float) Kind() Kind { return Kind{Base: KindFloat} }

// String is a text wire value.
type String string

// Kind implements Value.
func (String) Kind() Kind { return Kind{Base: KindString} }

// Bytes is an opaque byte buffer. Encoded as standard base64 in JSON.
type Bytes []byte

// Kind implements Value.
func (Bytes) Kind() Kind { return Kind{Base: KindBytes} }

// MarshalJSON encodes a nil buffer as "" rather than null.
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON implements json.Unmarshaler for Bytes.
func (b *Bytes) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("bytes: %w", err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("bytes: %w", err)
	}
	*b = raw
	return nil
}

// URL is a URL wire value. Backends store it as its string form.
type URL struct {
	url.URL
}

// Kind implements Value.
func (URL) Kind() Kind { return Kind{Base: KindURL} }

// MarshalJSON implements json.Marshaler for URL.
func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.URL.String())
}

// UnmarshalJSON implements json.Unmarshaler for URL.
func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("url: %w", err)
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	u.URL = *parsed
	return nil
}

// Array is an ordered sequence of wire values of one shape.
type Array[V Value] []V

// Kind implements Value. An untyped Array[Value] has no static element
// shape and reports the bare array kind; DecodeKind pins the kind it was
// asked for instead.
func (a Array[V]) Kind() Kind {
	var zero V
	if any(zero) == nil {
		return Kind{Base: KindArray}
	}
	elem := zero.Kind()
	return Kind{Base: KindArray, Elem: &elem}
}

// MarshalJSON encodes a nil array as [] rather than null.
func (a Array[V]) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]V(a))
}

// Object is a string-keyed mapping of wire values of one shape.
// Use SortedKeys() for deterministic iteration.
type Object[V Value] map[string]V

// Kind implements Value. See Array.Kind for untyped objects.
func (o Object[V]) Kind() Kind {
	var zero V
	if any(zero) == nil {
		return Kind{Base: KindObject}
	}
	elem := zero.Kind()
	return Kind{Base: KindObject, Elem: &elem}
}

// MarshalJSON encodes a nil object as {} rather than null.
func (o Object[V]) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]V(o))
}

// kinded pins the kind of a container decoded without a static type.
type kinded struct {
	Value
	kind Kind
}

// Kind implements Value.
func (v kinded) Kind() Kind { return v.kind }

// MarshalJSON implements json.Marshaler for kinded.
func (v kinded) MarshalJSON() ([]byte, error) { return json.Marshal(v.Value) }

// SortedKeys returns keys in RFC 8785 canonical order (UTF-16 code units).
// CRITICAL: Go's sort.Strings uses UTF-8 which produces DIFFERENT order.
func (o Object[V]) SortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering
// as required by RFC 8785 (Canonical JSON).
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	minLen := min(len(a16), len(b16))
	for i := 0; i < minLen; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	// If all compared units are equal, shorter string comes first
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
