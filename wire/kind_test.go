package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKindRoundTrip(t *testing.T) {
	kinds := []string{
		"bool",
		"int",
		"float",
		"string",
		"bytes",
		"url",
		"array<int>",
		"object<string>",
		"array<object<int>>",
		"object<array<object<url>>>",
	}

	for _, s := range kinds {
		t.Run(s, func(t *testing.T) {
			k, err := ParseKind(s)
			require.NoError(t, err)
			assert.Equal(t, s, k.String())
		})
	}
}

func TestParseKindMatchesKindOf(t *testing.T) {
	k, err := ParseKind("array<object<int>>")
	require.NoError(t, err)
	assert.True(t, k.Equal(KindOf[Array[Object[Int]]]()))
	assert.False(t, k.Equal(KindOf[Array[Object[Float]]]()))
	assert.False(t, k.Equal(KindOf[Array[Int]]()))
}

func TestParseKindErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "unknown kind"},
		{"double", "unknown kind"},
		{"array", "requires an element kind"},
		{"object<>", "unknown kind"},
		{"array<int", "unterminated"},
		{"int>", "unexpected trailing"},
		{"array<int>>", "unexpected trailing"},
		{"int<string>", "unexpected trailing"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := ParseKind(tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestKindIsContainer(t *testing.T) {
	assert.False(t, KindOf[Int]().IsContainer())
	assert.True(t, KindOf[Array[Int]]().IsContainer())
	assert.True(t, KindOf[Object[Int]]().IsContainer())
}
