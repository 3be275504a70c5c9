package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/wire"
)

// SetOptions holds flags for the set command.
type SetOptions struct {
	*RootOptions
	Kind string
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <key> <json>",
		Short: "Store a preference value",
		Long: `Store a preference value given as JSON.

The value is parsed against --kind and stored in canonical form. Bytes are
given as a base64 string; URLs and text as JSON strings.

Example:
  prefs set theme '"dark"' --kind string
  prefs set limits '{"daily":5,"weekly":20}' --kind 'object<int>'
  prefs set recent '[[1,2],[3]]' --kind 'array<array<int>>'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, rootOpts, setPreference(cmd, opts, args[0], args[1]))
		},
	}

	cmd.Flags().StringVar(&opts.Kind, "kind", "", "wire kind of the value, e.g. int or array<string> (required)")
	_ = cmd.MarkFlagRequired("kind")

	return cmd
}

// canonicalize parses raw as the given kind and returns its canonical
// JSON along with the normalized kind string.
func canonicalize(kind, raw string) (string, []byte, error) {
	k, err := wire.ParseKind(kind)
	if err != nil {
		return "", nil, WrapExitError(ExitFailure, CodeInvalidValue, "invalid kind", err)
	}
	v, err := wire.DecodeKind(k, []byte(raw))
	if err != nil {
		return "", nil, WrapExitError(ExitFailure, CodeInvalidValue, fmt.Sprintf("value is not a valid %s", k), err)
	}
	data, err := wire.MarshalCanonical(v)
	if err != nil {
		return "", nil, WrapExitError(ExitFailure, CodeInvalidValue, "value cannot be stored", err)
	}
	return k.String(), data, nil
}

func setPreference(cmd *cobra.Command, opts *SetOptions, key, raw string) error {
	kind, data, err := canonicalize(opts.Kind, raw)
	if err != nil {
		return err
	}

	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	if err := s.WriteRaw(cmd.Context(), store.Entry{Key: key, Kind: kind, Value: data}); err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to write preference", err)
	}

	e, _, err := s.Lookup(cmd.Context(), key)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to read back preference", err)
	}

	return opts.formatter(cmd).Success(viewOf(e), func(w io.Writer) {
		fmt.Fprintf(w, "%s = %s (%s)\n", key, data, kind)
	})
}
