package wire

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// MarshalCanonical produces RFC 8785 canonical JSON for v.
// This is the only serialization backends should persist: equal values
// always produce identical bytes.
func MarshalCanonical(v Value) ([]byte, error) {
	if v == nil {
		return nil, fmt.Errorf("nil is not a wire value")
	}
	var buf bytes.Buffer
	if err := v.appendCanonical(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b Bool) appendCanonical(buf *bytes.Buffer) error {
	buf.WriteString(strconv.FormatBool(bool(b)))
	return nil
}

func (n Int) appendCanonical(buf *bytes.Buffer) error {
	buf.WriteString(strconv.FormatInt(int64(n), 10))
	return nil
}

// Floats use the ES6 shortest round-trip form required by RFC 8785.
func (f Float) appendCanonical(buf *bytes.Buffer) error {
	s, err := jsoncanonicalizer.NumberToJSON(float64(f))
	if err != nil {
		return fmt.Errorf("float %v: %w", float64(f), err)
	}
	buf.WriteString(s)
	return nil
}

func (s String) appendCanonical(buf *bytes.Buffer) error {
	appendCanonicalString(buf, string(s))
	return nil
}

func (b Bytes) appendCanonical(buf *bytes.Buffer) error {
	appendCanonicalString(buf, base64.StdEncoding.EncodeToString(b))
	return nil
}

func (u URL) appendCanonical(buf *bytes.Buffer) error {
	appendCanonicalString(buf, u.URL.String())
	return nil
}

func (a Array[V]) appendCanonical(buf *bytes.Buffer) error {
	buf.WriteByte('[')
	for i, elem := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		if any(elem) == nil {
			return fmt.Errorf("array[%d]: nil is not a wire value", i)
		}
		if err := elem.appendCanonical(buf); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func (o Object[V]) appendCanonical(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, k := range o.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendCanonicalString(buf, k)
		buf.WriteByte(':')
		elem := o[k]
		if any(elem) == nil {
			return fmt.Errorf("object[%q]: nil is not a wire value", k)
		}
		if err := elem.appendCanonical(buf); err != nil {
			return fmt.Errorf("object[%q]: %w", k, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

// appendCanonicalString writes a JSON string per RFC 8785: only the quote,
// backslash and control characters are escaped. Invalid UTF-8 is replaced
// with U+FFFD, matching encoding/json.
func appendCanonicalString(buf *bytes.Buffer, s string) {
	const hex = "0123456789abcdef"

	buf.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch {
		case r == utf8.RuneError && size == 1:
			buf.WriteRune(utf8.RuneError)
		case r == '"':
			buf.WriteString(`\"`)
		case r == '\\':
			buf.WriteString(`\\`)
		case r == '\b':
			buf.WriteString(`\b`)
		case r == '\f':
			buf.WriteString(`\f`)
		case r == '\n':
			buf.WriteString(`\n`)
		case r == '\r':
			buf.WriteString(`\r`)
		case r == '\t':
			buf.WriteString(`\t`)
		case r < 0x20:
			buf.WriteString(`\u00`)
			buf.WriteByte(hex[r>>4])
			buf.WriteByte(hex[r&0xf])
		default:
			buf.WriteRune(r)
		}
	}
	buf.WriteByte('"')
}
