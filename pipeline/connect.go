package pipeline

import (
	"context"

	"backup-check/auth"
	"backup-check/config"
	"backup-check/scanner"

	"github.com/go-faster/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveConnector authenticates with the credentials named in cfg and scans
// Google Drive with read-only access.
func DriveConnector(cfg config.Config) Connector {
	return func(ctx context.Context) (Finder, error) {
		loc, err := cfg.Location()
		if err != nil {
			return nil, err
		}

		authenticator, err := auth.NewGoogleAuthenticator(auth.Config{
			CredentialsPath: cfg.CredentialsPath,
			TokenPath:       cfg.TokenPath,
			Scopes:          []string{drive.DriveReadonlyScope},
		})
		if err != nil {
			return nil, err
		}

		client, err := authenticator.GetHTTPClient(ctx)
		if err != nil {
			return nil, err
		}

		service, err := drive.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return nil, errors.Wrap(err, "unable to create Drive client")
		}

		return scanner.NewDriveScanner(scanner.NewDriveLister(service), scanner.Options{
			AllPages: cfg.AllPages,
			Matcher:  scanner.NewMatcher(loc),
		}), nil
	}
}
