package cmd

import (
	"fmt"

	"backup-check/auth"

	"github.com/spf13/cobra"
	"google.golang.org/api/drive/v3"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorise read-only access to Google Drive",
	Long: `Makes sure a valid OAuth token is cached. A saved token is reused,
an expired one is refreshed, and otherwise the consent page is opened in the
browser.`,
	Args: cobra.NoArgs,
	RunE: runAuth,
}

func runAuth(cmd *cobra.Command, args []string) error {
	authenticator, err := auth.NewGoogleAuthenticator(auth.Config{
		CredentialsPath: cfg.CredentialsPath,
		TokenPath:       cfg.TokenPath,
		Scopes:          []string{drive.DriveReadonlyScope},
	})
	if err != nil {
		return err
	}

	if _, err := authenticator.EnsureValidToken(cmd.Context()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Credentials are valid (token cached in %s).\n", cfg.TokenPath)
	return nil
}
