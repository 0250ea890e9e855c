package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
)

// ErrAuthentication marks failures that leave the run without usable credentials.
var ErrAuthentication = errors.New("authentication failed")

type Authenticator interface {
	GetHTTPClient(ctx context.Context) (*http.Client, error)
}

type Config struct {
	CredentialsPath string
	TokenPath       string
	Scopes          []string

	// OpenBrowser shows the consent page. Defaults to the system browser.
	OpenBrowser    func(url string) error
	ConsentTimeout time.Duration
}
