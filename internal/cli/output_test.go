package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"plain error", errors.New("boom"), ExitFailure},
		{"exit error", NewExitError(ExitCommandError, CodeBackend, "down"), ExitCommandError},
		{"wrapped exit error", fmt.Errorf("outer: %w", NewExitError(ExitFailure, CodeNotFound, "gone")), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, CodeBackend, "failed to write", cause)

	assert.Equal(t, "failed to write: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "no entry", NewExitError(ExitFailure, CodeNotFound, "no entry").Error())
}

func TestOutputFormatterSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"n": 1}, func(w io.Writer) {
		t.Fatal("text renderer must not run in json mode")
	}))
	assert.JSONEq(t, `{"status":"ok","data":{"n":1}}`, buf.String())

	buf.Reset()
	f.Format = "text"
	require.NoError(t, f.Success(nil, func(w io.Writer) { fmt.Fprint(w, "plain") }))
	assert.Equal(t, "plain", buf.String())
}

func TestOutputFormatterError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error(NewExitError(ExitFailure, CodeNotFound, "missing")))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, &CLIError{Code: CodeNotFound, Message: "missing"}, resp.Error)

	buf.Reset()
	require.NoError(t, f.Error(errors.New("opaque")))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, CodeBackend, resp.Error.Code)

	buf.Reset()
	f.Format = "text"
	require.NoError(t, f.Error(errors.New("quiet")))
	assert.Empty(t, buf.String())
}
