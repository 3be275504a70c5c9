package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <key>",
		Aliases: []string{"rm"},
		Short:   "Remove a preference",
		Long: `Remove a preference so readers fall back to their default.

Deleting a key that has no entry succeeds.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, opts, deletePreference(cmd, opts, args[0]))
		},
	}
}

func deletePreference(cmd *cobra.Command, opts *RootOptions, key string) error {
	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	if err := s.Remove(cmd.Context(), key); err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to delete preference", err)
	}

	return opts.formatter(cmd).Success(map[string]string{"deleted": key}, func(w io.Writer) {
		fmt.Fprintf(w, "deleted %s\n", key)
	})
}
