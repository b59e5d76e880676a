package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>...",
		Short: "Import PDF files into the library",
		Long: `Import one or more PDF files into the library.

Each file is copied into managed storage and identified by its content
hash, so importing the same content twice (under any filename) is a
no-op reported as a duplicate. A failure on one file never aborts the
rest of the batch.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args, cmd)
		},
	}
}

func runImport(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := openStore(opts, cmd.ErrOrStderr())
	if err != nil {
		return storeErr(formatter, err)
	}

	formatter.VerboseLog("Importing %d file(s) into %s", len(paths), opts.DataDir)

	res, err := s.ImportFiles(cmd.Context(), paths)
	if err != nil {
		return storeErr(formatter, err)
	}

	if formatter.Format == "json" {
		if err := formatter.JSON(res); err != nil {
			return err
		}
	} else {
		for _, d := range res.Imported {
			fmt.Fprintf(formatter.Writer, "imported   %s  %s\n", shortID(d.ID), d.Title)
		}
		for _, d := range res.Duplicates {
			fmt.Fprintf(formatter.Writer, "duplicate  %s  %s\n", shortID(d.ID), d.Title)
		}
		for _, e := range res.Errors {
			fmt.Fprintf(formatter.Writer, "failed     %s: %s\n", e.Path, e.Message)
		}
		fmt.Fprintf(formatter.Writer, "%d imported, %d duplicates, %d failed\n",
			len(res.Imported), len(res.Duplicates), len(res.Errors))
	}

	if len(res.Errors) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed to import", len(res.Errors)))
	}
	return nil
}

// shortID abbreviates a content-hash id for text output.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
