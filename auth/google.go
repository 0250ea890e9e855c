package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/cli/browser"
	"github.com/go-faster/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultConsentTimeout = 5 * time.Minute

type GoogleAuthenticator struct {
	config      *oauth2.Config
	tokenPath   string
	openBrowser func(string) error
	timeout     time.Duration
}

func NewGoogleAuthenticator(cfg Config) (*GoogleAuthenticator, error) {
	b, err := os.ReadFile(cfg.CredentialsPath)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthentication, "unable to read credentials %s: %v", cfg.CredentialsPath, err)
	}

	config, err := google.ConfigFromJSON(b, cfg.Scopes...)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthentication, "unable to parse credentials: %v", err)
	}

	g := &GoogleAuthenticator{
		config:      config,
		tokenPath:   cfg.TokenPath,
		openBrowser: cfg.OpenBrowser,
		timeout:     cfg.ConsentTimeout,
	}
	if g.openBrowser == nil {
		g.openBrowser = browser.OpenURL
	}
	if g.timeout <= 0 {
		g.timeout = defaultConsentTimeout
	}

	return g, nil
}

// GetHTTPClient returns a client authorised with a valid token. Tokens
// refreshed while the client is in use are written back to the token file.
func (g *GoogleAuthenticator) GetHTTPClient(ctx context.Context) (*http.Client, error) {
	tok, err := g.EnsureValidToken(ctx)
	if err != nil {
		return nil, err
	}

	src := &persistingTokenSource{
		base: g.config.TokenSource(ctx, tok),
		save: g.saveToken,
		last: tok.AccessToken,
	}

	return oauth2.NewClient(ctx, src), nil
}

// EnsureValidToken loads the saved token, refreshing it when expired, and
// falls back to the browser consent flow when there is nothing to refresh.
func (g *GoogleAuthenticator) EnsureValidToken(ctx context.Context) (*oauth2.Token, error) {
	tok, err := g.getTokenFromFile()
	switch {
	case err == nil && tok.Valid():
		slog.Debug("using saved token", "path", g.tokenPath)
		return tok, nil

	case err == nil && tok.RefreshToken != "":
		slog.Info("refreshing expired token", "path", g.tokenPath)
		fresh, err := g.config.TokenSource(ctx, tok).Token()
		if err != nil {
			return nil, errors.Wrapf(ErrAuthentication, "unable to refresh token: %v", err)
		}
		if err := g.saveToken(fresh); err != nil {
			return nil, err
		}
		return fresh, nil

	case err != nil && !errors.Is(err, os.ErrNotExist):
		slog.Warn("ignoring unreadable token file", "path", g.tokenPath, "error", err)
	}

	tok, err = g.getTokenFromWeb(ctx)
	if err != nil {
		return nil, errors.Wrapf(ErrAuthentication, "%v", err)
	}
	if err := g.saveToken(tok); err != nil {
		return nil, err
	}

	return tok, nil
}

// authorizedUser is the token layout written by Google's Python client
// libraries, accepted so existing token files keep working.
type authorizedUser struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expiry"`
}

func (g *GoogleAuthenticator) getTokenFromFile() (*oauth2.Token, error) {
	b, err := os.ReadFile(g.tokenPath)
	if err != nil {
		return nil, err
	}

	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, errors.Wrap(err, "failed to decode token")
	}
	if tok.AccessToken == "" {
		var user authorizedUser
		if err := json.Unmarshal(b, &user); err != nil {
			return nil, errors.Wrap(err, "failed to decode token")
		}
		if user.Token == "" && user.RefreshToken == "" {
			return nil, errors.New("token file holds no token")
		}
		tok = &oauth2.Token{
			AccessToken:  user.Token,
			TokenType:    "Bearer",
			RefreshToken: user.RefreshToken,
			Expiry:       user.Expiry,
		}
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, errors.New("token file holds no token")
	}

	return tok, nil
}

func (g *GoogleAuthenticator) saveToken(token *oauth2.Token) error {
	slog.Info("saving credential file", "path", g.tokenPath)
	f, err := os.OpenFile(g.tokenPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "unable to cache oauth token")
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return errors.Wrap(err, "unable to encode oauth token")
	}
	return nil
}

type persistingTokenSource struct {
	base oauth2.TokenSource
	save func(*oauth2.Token) error

	mu   sync.Mutex
	last string
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		if err := s.save(tok); err != nil {
			slog.Warn("failed to persist refreshed token", "error", err)
		}
	}

	return tok, nil
}
