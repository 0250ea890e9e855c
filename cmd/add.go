package cmd

import (
	"fmt"
	"strings"

	"backup-check/clients"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a client",
	Long: `Adds a client to the client list. The name is matched against Google
Drive folder names, so any folder whose name contains it can be used.

Examples:
  backup-check add Acme
  backup-check add "Acme Industries"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func runAdd(cmd *cobra.Command, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return errors.New("client name cannot be empty")
	}

	added, err := clients.NewRegistry(cfg.ClientsPath).Save(name)
	if err != nil {
		return err
	}
	if !added {
		return errors.Errorf("client %q already exists or is not a valid name", name)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Client %q added.\n", name)
	return nil
}
