package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNull is returned when JSON null appears where a wire value is
// expected. No wire shape has a null member.
var ErrNull = errors.New("null is not a wire value")

// Decode parses JSON produced by MarshalCanonical into the wire type W.
// W must be a concrete shape, not the Value interface itself.
//
// Numbers are decoded strictly: a fractional or exponent literal in an
// Int position is an error rather than a truncation. A null at any depth
// is an error rather than a zero value.
func Decode[W Value](data []byte) (W, error) {
	var w W
	if err := rejectNull(data); err != nil {
		return w, fmt.Errorf("decode %T: %w", w, err)
	}
	if err := json.Unmarshal(data, &w); err != nil {
		var zero W
		return zero, fmt.Errorf("decode %T: %w", w, err)
	}
	return w, nil
}

// DecodeKind parses JSON into a Value of the given kind. Containers decode
// to Array[Value] and Object[Value] whose Kind reports k; use Decode when
// the shape is known at compile time.
func DecodeKind(k Kind, data []byte) (Value, error) {
	switch k.Base {
	case KindBool:
		return Decode[Bool](data)
	case KindInt:
		return Decode[Int](data)
	case KindFloat:
		return Decode[Float](data)
	case KindString:
		return Decode[String](data)
	case KindBytes:
		return Decode[Bytes](data)
	case KindURL:
		return Decode[URL](data)
	case KindArray:
		if k.Elem == nil {
			return nil, fmt.Errorf("decode %s: missing element kind", k)
		}
		if isNull(data) {
			return nil, fmt.Errorf("decode %s: %w", k, ErrNull)
		}
		var raw []json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		arr := make(Array[Value], len(raw))
		for i, elem := range raw {
			v, err := DecodeKind(*k.Elem, elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = v
		}
		return kinded{Value: arr, kind: k}, nil
	case KindObject:
		if k.Elem == nil {
			return nil, fmt.Errorf("decode %s: missing element kind", k)
		}
		if isNull(data) {
			return nil, fmt.Errorf("decode %s: %w", k, ErrNull)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		obj := make(Object[Value], len(raw))
		for key, elem := range raw {
			v, err := DecodeKind(*k.Elem, elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", key, err)
			}
			obj[key] = v
		}
		return kinded{Value: obj, kind: k}, nil
	default:
		return nil, fmt.Errorf("decode: unknown kind %q", k.Base)
	}
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

// rejectNull reports ErrNull if data holds a null literal anywhere.
// Syntax errors are left for json.Unmarshal to report.
func rejectNull(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	for {
		tok, err := dec.Token()
		if err != nil {
			// io.EOF, or a syntax error for json.Unmarshal to report.
			return nil
		}
		if tok == nil {
			return ErrNull
		}
	}
}
