package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/prefs/store"
)

// ExportFile is the YAML document written by export and read by import.
// Values are kept as canonical JSON text so every wire kind survives YAML
// unchanged.
type ExportFile struct {
	Preferences []ExportEntry `yaml:"preferences"`
}

// ExportEntry is one preference in an ExportFile.
type ExportEntry struct {
	Key   string `yaml:"key"`
	Kind  string `yaml:"kind"`
	Value string `yaml:"value"`
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all preferences as YAML",
		Long: `Write all preferences as a YAML document suitable for import.

Output is always YAML, regardless of --format.

Example:
  prefs export --out backup.yaml
  prefs export --db old.db | prefs import --db new.db -`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, rootOpts, exportPreferences(cmd, opts))
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (default stdout)")

	return cmd
}

func exportPreferences(cmd *cobra.Command, opts *ExportOptions) error {
	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	entries, err := s.Entries(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to list preferences", err)
	}

	doc := ExportFile{Preferences: make([]ExportEntry, len(entries))}
	for i, e := range entries {
		doc.Preferences[i] = ExportEntry{Key: e.Key, Kind: e.Kind, Value: string(e.Value)}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to encode export", err)
	}
	if err := enc.Close(); err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to encode export", err)
	}

	if opts.Out == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.Out, buf.Bytes(), 0o644); err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to write export", err)
	}
	opts.log().Info("exported preferences", "count", len(entries), "path", opts.Out)
	return nil
}

// NewImportCommand creates the import command.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load preferences from a YAML export",
		Long: `Load preferences from a YAML document written by export.

Every entry is validated before any is written; one bad entry aborts the
import. Use - to read from stdin. Keys not in the file are left alone.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fail(cmd, opts, importPreferences(cmd, opts, args[0]))
		},
	}
}

func importPreferences(cmd *cobra.Command, opts *RootOptions, path string) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, CodeBackend, "failed to read import", err)
	}

	var doc ExportFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return WrapExitError(ExitFailure, CodeInvalidValue, "invalid import file", err)
	}

	entries := make([]store.Entry, 0, len(doc.Preferences))
	for i, p := range doc.Preferences {
		if p.Key == "" {
			return NewExitError(ExitFailure, CodeInvalidValue, fmt.Sprintf("preferences[%d]: missing key", i))
		}
		kind, value, err := canonicalize(p.Kind, p.Value)
		if err != nil {
			return fmt.Errorf("preferences[%d] (%s): %w", i, p.Key, err)
		}
		entries = append(entries, store.Entry{Key: p.Key, Kind: kind, Value: value})
	}

	s, err := opts.openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer opts.closeStore(s)

	for _, e := range entries {
		if err := s.WriteRaw(cmd.Context(), e); err != nil {
			return WrapExitError(ExitCommandError, CodeBackend, "failed to write preference", err)
		}
	}

	return opts.formatter(cmd).Success(map[string]int{"imported": len(entries)}, func(w io.Writer) {
		fmt.Fprintf(w, "imported %d preferences\n", len(entries))
	})
}
