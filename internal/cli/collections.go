package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCollectionsCommand creates the collections command group.
func NewCollectionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage collections",
		Long:  "List, create, rename and delete collections. Names are unique, case-insensitively.",
	}

	cmd.AddCommand(newCollectionsListCommand(rootOpts))
	cmd.AddCommand(newCollectionsCreateCommand(rootOpts))
	cmd.AddCommand(newCollectionsRenameCommand(rootOpts))
	cmd.AddCommand(newCollectionsDeleteCommand(rootOpts))

	return cmd
}

func newCollectionsListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List collections",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openStore(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return storeErr(formatter, err)
			}
			cols, err := s.ListCollections(cmd.Context())
			if err != nil {
				return storeErr(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.JSON(cols)
			}
			if len(cols) == 0 {
				fmt.Fprintln(formatter.Writer, "no collections")
				return nil
			}
			for _, c := range cols {
				fmt.Fprintf(formatter.Writer, "%s  %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func newCollectionsCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "create <name>",
		Short:         "Create a collection",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openStore(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return storeErr(formatter, err)
			}
			c, err := s.CreateCollection(cmd.Context(), args[0])
			if err != nil {
				return storeErr(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.JSON(c)
			}
			fmt.Fprintf(formatter.Writer, "created %s  %s\n", c.ID, c.Name)
			return nil
		},
	}
}

func newCollectionsRenameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rename <id> <name>",
		Short:         "Rename a collection",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openStore(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return storeErr(formatter, err)
			}
			c, err := s.RenameCollection(cmd.Context(), args[0], args[1])
			if err != nil {
				return storeErr(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.JSON(c)
			}
			fmt.Fprintf(formatter.Writer, "renamed %s  %s\n", c.ID, c.Name)
			return nil
		},
	}
}

func newCollectionsDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Delete a collection (documents keep their files)",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			s, err := openStore(rootOpts, cmd.ErrOrStderr())
			if err != nil {
				return storeErr(formatter, err)
			}
			deleted, err := s.DeleteCollection(cmd.Context(), args[0])
			if err != nil {
				return storeErr(formatter, err)
			}
			if formatter.Format == "json" {
				return formatter.JSON(map[string]bool{"deleted": deleted})
			}
			if deleted {
				fmt.Fprintf(formatter.Writer, "deleted %s\n", args[0])
			} else {
				fmt.Fprintf(formatter.Writer, "no collection %s\n", args[0])
			}
			return nil
		},
	}
}
