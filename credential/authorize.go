package credential

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// LoopbackAuthorizer runs the installed-app flow: it listens on an
// ephemeral 127.0.0.1 port, sends the user to the consent page and exchanges
// the returned code (with PKCE) for a token.
type LoopbackAuthorizer struct {
	// OpenURL presents the consent URL to the user. Defaults to printing it to Out.
	OpenURL func(url string) error
	// Out receives user-facing instructions. Defaults to os.Stderr.
	Out io.Writer
}

type callbackResult struct {
	code string
	err  error
}

// Authorize implements Authorizer.
func (a *LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("listen for oauth callback: %w", err)
	}

	conf := *cfg
	conf.RedirectURL = "http://" + ln.Addr().String() + "/"
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()

	results := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/{$}", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("error") != "":
			http.Error(w, "Authorization was denied.", http.StatusForbidden)
			deliver(callbackResult{err: fmt.Errorf("authorization denied: %s", q.Get("error"))})
		case q.Get("state") != state:
			http.Error(w, "State mismatch.", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("oauth state mismatch")})
		case q.Get("code") == "":
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			deliver(callbackResult{err: errors.New("missing authorization code")})
		default:
			fmt.Fprintln(w, "Authorization complete. You can close this window.")
			deliver(callbackResult{code: q.Get("code")})
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce, oauth2.S256ChallengeOption(verifier))
	if err := a.open(authURL); err != nil {
		return nil, fmt.Errorf("open consent page: %w", err)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}
	return tok, nil
}

func (a *LoopbackAuthorizer) open(url string) error {
	if a.OpenURL != nil {
		return a.OpenURL(url)
	}
	out := a.Out
	if out == nil {
		out = os.Stderr
	}
	_, err := fmt.Fprintf(out, "Open this URL in your browser to authorize access:\n\n  %s\n\n", url)
	return err
}

var _ Authorizer = (*LoopbackAuthorizer)(nil)
