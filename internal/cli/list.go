package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all preferences",
		Long: `List all preferences ordered by key.

Text output is one tab-separated line per entry: key, kind, value.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, opts, listPreferences(cmd, opts))
		},
	}
}

func listPreferences(cmd *cobra.Command, opts *RootOptions) error {
	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	entries, err := s.Entries(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to list preferences", err)
	}

	views := make([]entryView, len(entries))
	for i, e := range entries {
		views[i] = viewOf(e)
	}

	return opts.formatter(cmd).Success(views, func(w io.Writer) {
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Key, e.Kind, e.Value)
		}
	})
}
