package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRoundTripsCanonical(t *testing.T) {
	original := Array[Object[Int]]{
		{"a": 1, "b": 2},
		{},
		{"big": 9007199254740993},
	}

	data, err := MarshalCanonical(original)
	require.NoError(t, err)

	decoded, err := Decode[Array[Object[Int]]](data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeScalars(t *testing.T) {
	b, err := Decode[Bool]([]byte("true"))
	require.NoError(t, err)
	assert.Equal(t, Bool(true), b)

	f, err := Decode[Float]([]byte("3"))
	require.NoError(t, err)
	assert.Equal(t, Float(3), f)

	s, err := Decode[String]([]byte(`"<&>"`))
	require.NoError(t, err)
	assert.Equal(t, String("<&>"), s)

	raw, err := Decode[Bytes]([]byte(`"aGk="`))
	require.NoError(t, err)
	assert.Equal(t, Bytes("hi"), raw)

	u, err := Decode[URL]([]byte(`"https://example.com/x"`))
	require.NoError(t, err)
	assert.Equal(t, "example.com", u.Host)
}

func TestDecodeRejectsFloatInIntPosition(t *testing.T) {
	_, err := Decode[Int]([]byte("1.5"))
	require.Error(t, err)

	_, err = Decode[Array[Int]]([]byte("[1,2.5]"))
	require.Error(t, err)
}

func TestDecodeRejectsWrongShape(t *testing.T) {
	_, err := Decode[Object[Int]]([]byte("[1,2]"))
	require.Error(t, err)

	_, err = Decode[Bytes]([]byte(`"not base64!"`))
	require.Error(t, err)

	_, err = Decode[String]([]byte("{"))
	require.Error(t, err)
}

func TestDecodeKind(t *testing.T) {
	k, err := ParseKind("object<array<int>>")
	require.NoError(t, err)

	v, err := DecodeKind(k, []byte(`{"y":[],"x":[1,2]}`))
	require.NoError(t, err)
	assert.Equal(t, "object<array<int>>", v.Kind().String())

	data, err := MarshalCanonical(v)
	require.NoError(t, err)
	assert.Equal(t, `{"x":[1,2],"y":[]}`, string(data))
}

func TestDecodeKindErrorsCarryPath(t *testing.T) {
	k, err := ParseKind("array<object<int>>")
	require.NoError(t, err)

	_, err = DecodeKind(k, []byte(`[{"a":1},{"b":"nope"}]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "array[1]")
	assert.Contains(t, err.Error(), `object["b"]`)
}

func TestDecodeKindRequiresElement(t *testing.T) {
	_, err := DecodeKind(Kind{Base: KindArray}, []byte("[]"))
	require.Error(t, err)

	_, err = DecodeKind(Kind{Base: "double"}, []byte("1"))
	require.Error(t, err)
}

func TestDecodeKindReportsRequestedKind(t *testing.T) {
	tests := []struct {
		kind string
		data string
	}{
		{"array<int>", "[]"},
		{"object<string>", "{}"},
		{"array<array<int>>", "[[],[1]]"},
		{"object<array<bool>>", `{"a":[],"b":[true]}`},
		{"array<object<float>>", `[{}]`},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			k, err := ParseKind(tt.kind)
			require.NoError(t, err)

			v, err := DecodeKind(k, []byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.kind, v.Kind().String())

			_, err = ParseKind(v.Kind().String())
			assert.NoError(t, err)

			data, err := MarshalCanonical(v)
			require.NoError(t, err)
			assert.Equal(t, tt.data, string(data))
		})
	}
}

func TestDecodeRejectsNull(t *testing.T) {
	tests := []struct {
		kind string
		data string
	}{
		{"int", "null"},
		{"string", " null "},
		{"bool", "null"},
		{"bytes", "null"},
		{"url", "null"},
		{"array<int>", "null"},
		{"object<bool>", "null"},
		{"array<int>", "[1,null]"},
		{"object<string>", `{"a":null}`},
		{"array<array<int>>", "[[1],null]"},
		{"object<array<int>>", `{"a":[null]}`},
	}

	for _, tt := range tests {
		t.Run(tt.kind+" "+tt.data, func(t *testing.T) {
			k, err := ParseKind(tt.kind)
			require.NoError(t, err)

			_, err = DecodeKind(k, []byte(tt.data))
			assert.ErrorIs(t, err, ErrNull)
		})
	}
}

func TestDecodeTypedRejectsNestedNull(t *testing.T) {
	_, err := Decode[Int]([]byte("null"))
	assert.ErrorIs(t, err, ErrNull)

	_, err = Decode[Array[Int]]([]byte("[1,null]"))
	assert.ErrorIs(t, err, ErrNull)

	_, err = Decode[Object[Array[String]]]([]byte(`{"a":["x",null]}`))
	assert.ErrorIs(t, err, ErrNull)

	// The string "null" is an ordinary value.
	s, err := Decode[String]([]byte(`"null"`))
	require.NoError(t, err)
	assert.Equal(t, String("null"), s)
}
