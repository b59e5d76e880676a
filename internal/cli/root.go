package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DataDir    string
	ConfigPath string
	Verbose    bool
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the folio CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "folio",
		Short: "folio - a local reading library",
		Long:  "Manage a local library of PDF documents, highlights, bookmarks and reading progress.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := resolveOptions(cmd, opts); err != nil {
				return err
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "library data directory (default $HOME/.folio)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $XDG_CONFIG_HOME/folio/config.yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewCollectionsCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// resolveOptions layers config-file values under explicitly set flags.
func resolveOptions(cmd *cobra.Command, opts *RootOptions) error {
	explicit := cmd.Flags().Changed("config")
	path := opts.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}

	var cfg Config
	if path != "" {
		var err error
		cfg, err = LoadConfig(path, explicit)
		if err != nil {
			return err
		}
	}

	if opts.DataDir == "" {
		opts.DataDir = cfg.DataDir
	}
	if opts.DataDir == "" {
		opts.DataDir = DefaultDataDir()
	}
	if !cmd.Flags().Changed("format") && cfg.Format != "" {
		opts.Format = cfg.Format
	}
	return nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter builds the per-command output formatter from the global
// options and the command's writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// openStore opens the library store at the resolved data directory.
// Diagnostics go to stderr; debug level only with --verbose.
func openStore(opts *RootOptions, errWriter io.Writer) (*store.Store, error) {
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errWriter, &slog.HandlerOptions{Level: level}))
	s, err := store.Open(opts.DataDir, store.Options{Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("open library at %s: %w", opts.DataDir, err)
	}
	return s, nil
}
