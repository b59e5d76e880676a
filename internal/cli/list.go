package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/folio/internal/library"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var collectionID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List documents in the library",
		Long: `List documents in presentation order: pinned documents first, then by
most recently opened. Highlight and bookmark counts are computed live.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, collectionID, cmd)
		},
	}

	cmd.Flags().StringVar(&collectionID, "collection", "", "only documents in this collection id")

	return cmd
}

func runList(opts *RootOptions, collectionID string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := openStore(opts, cmd.ErrOrStderr())
	if err != nil {
		return storeErr(formatter, err)
	}

	docs, err := s.ListDocuments(cmd.Context())
	if err != nil {
		return storeErr(formatter, err)
	}
	if collectionID != "" {
		filtered := docs[:0]
		for _, d := range docs {
			if d.CollectionID == collectionID {
				filtered = append(filtered, d)
			}
		}
		docs = filtered
	}

	if formatter.Format == "json" {
		return formatter.JSON(docs)
	}

	if len(docs) == 0 {
		fmt.Fprintln(formatter.Writer, "library is empty")
		return nil
	}
	for _, d := range docs {
		fmt.Fprintln(formatter.Writer, formatDocumentLine(d))
	}
	return nil
}

func formatDocumentLine(d library.Document) string {
	pin := " "
	if d.IsPinned {
		pin = "*"
	}
	progress := "unread"
	if d.LastReadTotalPages > 0 {
		progress = fmt.Sprintf("p.%d/%d", d.LastReadPageIndex+1, d.LastReadTotalPages)
	}
	return fmt.Sprintf("%s %s  %-8s  %3dh %3db  %s",
		pin, shortID(d.ID), progress, d.HighlightsCount, d.BookmarksCount, d.Title)
}
