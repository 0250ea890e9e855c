package cmd

import (
	"time"

	"backup-check/clients"
	"backup-check/ui"

	"github.com/spf13/cobra"
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Start the interactive interface",
	Args:  cobra.NoArgs,
	RunE:  runUI,
}

func runUI(cmd *cobra.Command, args []string) error {
	if err := logToFile(); err != nil {
		return err
	}

	runner, closeHistory, err := newRunner()
	if err != nil {
		return err
	}
	defer closeHistory()

	app, err := ui.New(cmd.Context(), clients.NewRegistry(cfg.ClientsPath), runner.Run, time.Now())
	if err != nil {
		return err
	}

	return ui.Run(app)
}
