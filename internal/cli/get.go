package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/prefs/store"
)

// entryView is the JSON rendering of one stored entry.
type entryView struct {
	Key   string          `json:"key"`
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
	Seq   int64           `json:"seq"`
}

func viewOf(e store.Entry) entryView {
	return entryView{Key: e.Key, Kind: e.Kind, Value: json.RawMessage(e.Value), Seq: e.Seq}
}

// NewGetCommand creates the get command.
func NewGetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print a preference's stored value",
		Long: `Print a preference's stored value as canonical JSON.

Exits with code 1 if no entry exists for the key.

Example:
  prefs get theme
  prefs get limits --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, opts, getPreference(cmd, opts, args[0]))
		},
	}
}

func getPreference(cmd *cobra.Command, opts *RootOptions, key string) error {
	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	e, ok, err := s.Lookup(cmd.Context(), key)
	if err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to read preference", err)
	}
	if !ok {
		return NewExitError(ExitFailure, CodeNotFound, fmt.Sprintf("preference %q not found", key))
	}

	return opts.formatter(cmd).Success(viewOf(e), func(w io.Writer) {
		fmt.Fprintln(w, string(e.Value))
	})
}

// fail renders err in JSON mode and returns it unchanged.
func fail(cmd *cobra.Command, opts *RootOptions, err error) error {
	if err == nil {
		return nil
	}
	_ = opts.formatter(cmd).Error(err)
	return err
}
