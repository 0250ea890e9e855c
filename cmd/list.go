package cmd

import (
	"fmt"

	"backup-check/clients"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered clients",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	names, err := clients.NewRegistry(cfg.ClientsPath).Load()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total clients: %d\n\n", len(names))
	for i, name := range names {
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
	}

	return nil
}
