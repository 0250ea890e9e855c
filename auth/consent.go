package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const consentPage = `<html><body>
<h1>Authorization complete</h1>
<p>You can close this window and return to backup-check.</p>
</body></html>`

// getTokenFromWeb runs the installed-app consent flow: a loopback server on
// an ephemeral port receives the redirect carrying the authorization code.
func (g *GoogleAuthenticator) getTokenFromWeb(ctx context.Context) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Wrap(err, "unable to start local redirect listener")
	}

	port := listener.Addr().(*net.TCPAddr).Port
	config := *g.config
	config.RedirectURL = fmt.Sprintf("http://localhost:%d/", port)

	state := uuid.NewString()
	codes := make(chan string, 1)
	failures := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/" {
			http.NotFound(w, rq)
			return
		}

		q := rq.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			return
		}

		if reason := q.Get("error"); reason != "" {
			http.Error(w, "authorization denied: "+reason, http.StatusForbidden)
			select {
			case failures <- errors.Errorf("authorization denied: %s", reason):
			default:
			}
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing authorization code", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, consentPage)

		select {
		case codes <- code:
		default:
		}
	})

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case failures <- errors.Wrap(err, "redirect listener failed"):
			default:
			}
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	slog.Info("requesting authorization in browser", "url", authURL)
	if err := g.openBrowser(authURL); err != nil {
		slog.Warn("could not open browser, open the authorization URL manually", "url", authURL, "error", err)
	}

	var code string
	select {
	case code = <-codes:
	case err := <-failures:
		return nil, err
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "authorization cancelled")
	case <-time.After(g.timeout):
		return nil, errors.New("authorization timed out")
	}

	tok, err := config.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "unable to retrieve token from web")
	}

	return tok, nil
}
