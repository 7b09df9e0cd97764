package credential

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	ai "github.com/spetersoncode/learnpath"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// Authorizer obtains a brand new token through user interaction.
type Authorizer interface {
	Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error)
}

// renewTimeout bounds a shared renewal, which outlives any single caller.
const renewTimeout = 5 * time.Minute

// ErrNoInteractiveContext is returned by a headless source that has no
// usable credential and cannot ask the user for one.
var ErrNoInteractiveContext = errors.New("no interactive context available")

// Source hands out valid credentials, refreshing or re-authorizing as needed.
// It is safe for concurrent use.
type Source struct {
	identity   *ClientIdentity
	store      Store
	authorizer Authorizer
	logger     *slog.Logger
	now        func() time.Time
	group      singleflight.Group
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithAuthorizer enables the interactive fallback. Without one the source
// is headless.
func WithAuthorizer(a Authorizer) SourceOption {
	return func(s *Source) {
		s.authorizer = a
	}
}

// WithLogger sets the logger used for refresh and authorization events.
func WithLogger(l *slog.Logger) SourceOption {
	return func(s *Source) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSource creates a credential source over the given store.
func NewSource(identity *ClientIdentity, store Store, opts ...SourceOption) *Source {
	s := &Source{
		identity: identity,
		store:    store,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Headless reports whether the source lacks an interactive authorizer.
func (s *Source) Headless() bool {
	return s.authorizer == nil
}

// Obtain returns a credential that is valid now.
//
// A valid stored credential is returned as is. An expired one is refreshed
// when it carries a refresh token; otherwise the authorizer runs. New
// credentials are persisted before being returned. Concurrent renewals are
// collapsed into one, which keeps running if the caller that started it
// gives up.
func (s *Source) Obtain(ctx context.Context) (*Credential, error) {
	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, ai.NewAuthError("load credential", err)
	}
	if c.Valid(s.now()) {
		return c, nil
	}

	key := strings.Join(s.identity.Scopes(), " ")
	ch := s.group.DoChan(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), renewTimeout)
		defer cancel()
		return s.renew(rctx)
	})
	select {
	case <-ctx.Done():
		return nil, ai.NewAuthError("obtain credential", ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(*Credential), nil
	}
}

func (s *Source) renew(ctx context.Context) (*Credential, error) {
	// Another writer may have renewed since the first load.
	c, err := s.store.Load(ctx)
	if err != nil {
		return nil, ai.NewAuthError("load credential", err)
	}
	if c.Valid(s.now()) {
		return c, nil
	}

	if c.Refreshable() {
		fresh, err := s.refresh(ctx, c)
		if err == nil {
			return fresh, nil
		}
		if s.authorizer == nil {
			return nil, err
		}
		s.logger.Warn("credential refresh failed, falling back to authorization", "error", err)
	}

	if s.authorizer == nil {
		return nil, ai.NewAuthError("obtain credential", ErrNoInteractiveContext)
	}

	s.logger.Info("starting interactive authorization")
	tok, err := s.authorizer.Authorize(ctx, s.identity.Config)
	if err != nil {
		return nil, ai.NewAuthError("authorize", err)
	}
	fresh := FromToken(tok, s.identity.Scopes(), "")
	if err := s.store.Save(ctx, fresh); err != nil {
		return nil, ai.NewAuthError("persist credential", err)
	}
	return fresh, nil
}

func (s *Source) refresh(ctx context.Context, c *Credential) (*Credential, error) {
	ts := s.identity.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: c.RefreshToken})
	tok, err := ts.Token()
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil && re.Response.StatusCode >= 500 {
			return nil, ai.NewUpstreamError("refresh credential", re.Response.StatusCode, err)
		}
		return nil, ai.NewAuthError("refresh credential", err)
	}

	scopes := c.Scopes
	if len(scopes) == 0 {
		scopes = s.identity.Scopes()
	}
	fresh := FromToken(tok, scopes, c.RefreshToken)
	if err := s.store.Save(ctx, fresh); err != nil {
		return nil, ai.NewAuthError("persist credential", err)
	}
	s.logger.Debug("credential refreshed", "expiry", fresh.Expiry)
	return fresh, nil
}

// TokenSource adapts the source to oauth2. Each token request goes through
// Obtain with ctx.
func (s *Source) TokenSource(ctx context.Context) oauth2.TokenSource {
	return tokenSource{ctx: ctx, src: s}
}

// HTTPClient returns a client that authorizes every request with a
// credential from Obtain.
func (s *Source) HTTPClient(ctx context.Context) *http.Client {
	return &http.Client{Transport: &oauth2.Transport{Source: s.TokenSource(ctx), Base: http.DefaultTransport}}
}

type tokenSource struct {
	ctx context.Context
	src *Source
}

func (t tokenSource) Token() (*oauth2.Token, error) {
	c, err := t.src.Obtain(t.ctx)
	if err != nil {
		return nil, err
	}
	return c.Token(), nil
}
