package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"backup-check/clients"
	"backup-check/models"
	"backup-check/pipeline"

	"github.com/fatih/color"
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

var (
	runDate string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Search every client folder for backups made on a date",
	Long: `Authenticates with Google Drive, searches each registered client's folder
tree for .zip archives modified on the given day and writes them to the
spreadsheet report. Clients without a matching archive are listed at the end.

Examples:
  backup-check run
  backup-check run --date 01/05/2024
  backup-check run --date 01/05/2024 --all-pages`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	runCmd.Flags().StringVarP(&runDate, "date", "d", "", "Day to check, dd/mm/yyyy (default today)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	date := models.NewTargetDate(time.Now())
	if runDate != "" {
		parsed, err := models.ParseTargetDate(runDate)
		if err != nil {
			return err
		}
		date = parsed
	}

	names, err := clients.NewRegistry(cfg.ClientsPath).Load()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		slog.Warn("no clients registered", "path", cfg.ClientsPath)
	}

	runner, closeHistory, err := newRunner()
	if err != nil {
		return err
	}
	defer closeHistory()

	outcome, err := runner.Run(cmd.Context(), names, date)
	notice, notFound := pipeline.Summarize(outcome, err)

	out := cmd.OutOrStdout()
	printMatches(out, outcome.Matches)
	printNotFound(out, notFound)

	if notice.Kind == pipeline.Failure {
		return errors.New(notice.Message)
	}

	printNotice(out, notice)
	return nil
}

func printMatches(w io.Writer, matches []models.Match) {
	if len(matches) == 0 {
		return
	}

	fmt.Fprintf(w, "Found %d archive(s):\n\n", len(matches))
	for i, m := range matches {
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, m.Client, m.FileName, m.Modified)
	}
	fmt.Fprintln(w)
}

func printNotFound(w io.Writer, notFound []string) {
	if len(notFound) == 0 {
		return
	}

	color.New(color.FgYellow).Fprintf(w, "Clients not found (%d):\n", len(notFound))
	for _, client := range notFound {
		fmt.Fprintf(w, "  - %s\n", client)
	}
	fmt.Fprintln(w)
}

func printNotice(w io.Writer, notice pipeline.Notice) {
	c := color.New(color.FgCyan)
	switch notice.Kind {
	case pipeline.Success:
		c = color.New(color.FgGreen)
	case pipeline.Failure:
		c = color.New(color.FgRed)
	}
	c.Fprintf(w, "%s: %s\n", notice.Title, notice.Message)
}
