package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <document-id>",
		Short: "Delete a document and everything attached to it",
		Long: `Delete a document together with its highlights and bookmarks.

The managed PDF copy is removed best-effort; the daily reading log
keeps its history.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, args[0], cmd)
		},
	}
}

func runDelete(opts *RootOptions, documentID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := openStore(opts, cmd.ErrOrStderr())
	if err != nil {
		return storeErr(formatter, err)
	}

	res, err := s.DeleteDocument(cmd.Context(), documentID)
	if err != nil {
		return storeErr(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(res)
	}
	fmt.Fprintf(formatter.Writer, "deleted %s (%d highlights, %d bookmarks removed)\n",
		shortID(documentID), res.RemovedHighlightsCount, res.RemovedBookmarksCount)
	return nil
}
