package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading activity against goals",
		Long: `Show the daily reading log (pages and time per day) together with the
configured page goals.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	s, err := openStore(opts, cmd.ErrOrStderr())
	if err != nil {
		return storeErr(formatter, err)
	}

	overview, err := s.GetReadingOverview(cmd.Context())
	if err != nil {
		return storeErr(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.JSON(overview)
	}

	goals := overview.Settings.Goals
	fmt.Fprintf(formatter.Writer, "goals: %d pages/day, %d pages/week\n",
		goals.PagesPerDay, goals.PagesPerWeek)

	if len(overview.Log) == 0 {
		fmt.Fprintln(formatter.Writer, "no reading activity yet")
		return nil
	}

	days := make([]string, 0, len(overview.Log))
	for day := range overview.Log {
		days = append(days, day)
	}
	sort.Strings(days)
	for _, day := range days {
		entry := overview.Log[day]
		fmt.Fprintf(formatter.Writer, "%s  %4d pages  %s\n", day, entry.Pages, formatDuration(entry.Seconds))
	}
	return nil
}

func formatDuration(seconds int) string {
	if seconds >= 3600 {
		return fmt.Sprintf("%dh%02dm", seconds/3600, seconds%3600/60)
	}
	return fmt.Sprintf("%dm%02ds", seconds/60, seconds%60)
}
