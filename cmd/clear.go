package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
)

var (
	clearForce bool
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the run history",
	Long:  "Permanently delete every recorded run from the history database.",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVarP(&clearForce, "force", "f", false, "Skip confirmation prompt")
}

func runClear(cmd *cobra.Command, args []string) error {
	db, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	if !clearForce {
		fmt.Fprint(cmd.OutOrStdout(), "WARNING: Are you sure you want to clear the run history? (yes/no): ")
		var response string
		fmt.Fscanln(cmd.InOrStdin(), &response)

		if strings.ToLower(response) != "yes" {
			slog.Info("clear cancelled")
			return nil
		}
	}

	if err := db.ClearAll(cmd.Context()); err != nil {
		return err
	}

	slog.Info("run history cleared", "path", cfg.HistoryPath)
	return nil
}
