package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history [query]",
	Short: "Show past runs or search recorded archives",
	Long: `Without a query, lists the most recent runs with the clients that were
not found. With a query, searches recorded archives by client or file name.

Requires the run history to be enabled with --history.

Examples:
  backup-check --history history.db history
  backup-check --history history.db history Acme
  backup-check --history history.db history --limit 5 full.zip`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "Maximum number of results")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		runs, err := db.ListRuns(ctx, historyLimit)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Runs recorded: %d\n\n", len(runs))
		for _, run := range runs {
			fmt.Fprintf(out, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
			fmt.Fprintf(out, "Run:      %s\n", run.ID)
			fmt.Fprintf(out, "Executed: %s\n", run.ExecutedAt.Local().Format("02/01/2006 15:04"))
			fmt.Fprintf(out, "Date:     %s\n", run.Date)
			fmt.Fprintf(out, "Archives: %d\n", run.Matches)
			if run.ReportPath != "" {
				fmt.Fprintf(out, "Report:   %s\n", run.ReportPath)
			}
			if len(run.NotFound) > 0 {
				fmt.Fprintf(out, "Not found: %s\n", strings.Join(run.NotFound, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	}

	query := strings.Join(args, " ")
	records, err := db.SearchMatches(ctx, query, historyLimit)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No archives recorded for \"%s\"\n", query)
		return nil
	}

	fmt.Fprintf(out, "Found %d archive(s):\n\n", len(records))
	for i, rec := range records {
		fmt.Fprintf(out, "[%d] %s - %s (modified %s, run %s)\n", i+1, rec.Client, rec.FileName, rec.Modified, rec.RunID)
	}

	return nil
}
