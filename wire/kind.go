package wire

import (
	"fmt"
	"strings"
)

// BaseKind names one member of the closed shape set.
type BaseKind string

// The closed set of shapes a backend can persist.
const (
	KindBool   BaseKind = "bool"
	KindInt    BaseKind = "int"
	KindFloat  BaseKind = "float"
	KindString BaseKind = "string"
	KindBytes  BaseKind = "bytes"
	KindURL    BaseKind = "url"
	KindArray  BaseKind = "array"
	KindObject BaseKind = "object"
)

// Kind describes a wire shape. Elem is set for arrays and objects.
//
// The string form is the base name for scalars and base<elem> for
// containers, e.g. "array<object<int>>".
type Kind struct {
	Base BaseKind
	Elem *Kind
}

// KindOf returns the static kind of the wire type W.
func KindOf[W Value]() Kind {
	var zero W
	return zero.Kind()
}

// String renders the kind in its parseable form.
func (k Kind) String() string {
	if k.Elem == nil {
		return string(k.Base)
	}
	return fmt.Sprintf("%s<%s>", k.Base, k.Elem.String())
}

// Equal reports whether two kinds describe the same shape.
func (k Kind) Equal(other Kind) bool {
	if k.Base != other.Base {
		return false
	}
	if k.Elem == nil || other.Elem == nil {
		return k.Elem == nil && other.Elem == nil
	}
	return k.Elem.Equal(*other.Elem)
}

// IsContainer reports whether the kind is an array or object.
func (k Kind) IsContainer() bool {
	return k.Base == KindArray || k.Base == KindObject
}

// ParseKind parses the string form produced by Kind.String.
// Containers must name their element kind.
func ParseKind(s string) (Kind, error) {
	k, rest, err := parseKind(strings.TrimSpace(s))
	if err != nil {
		return Kind{}, fmt.Errorf("parse kind %q: %w", s, err)
	}
	if rest != "" {
		return Kind{}, fmt.Errorf("parse kind %q: unexpected trailing %q", s, rest)
	}
	return k, nil
}

func parseKind(s string) (Kind, string, error) {
	end := strings.IndexAny(s, "<>")
	name := s
	if end >= 0 {
		name = s[:end]
	}

	base := BaseKind(name)
	switch base {
	case KindBool, KindInt, KindFloat, KindString, KindBytes, KindURL:
		return Kind{Base: base}, s[len(name):], nil
	case KindArray, KindObject:
	default:
		return Kind{}, "", fmt.Errorf("unknown kind %q", name)
	}

	rest := s[len(name):]
	if !strings.HasPrefix(rest, "<") {
		return Kind{}, "", fmt.Errorf("%s requires an element kind", base)
	}
	elem, rest, err := parseKind(rest[1:])
	if err != nil {
		return Kind{}, "", err
	}
	if !strings.HasPrefix(rest, ">") {
		return Kind{}, "", fmt.Errorf("unterminated %s element kind", base)
	}
	return Kind{Base: base, Elem: &elem}, rest[1:], nil
}
