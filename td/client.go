// Package td is the TD Ameritrade market-data and account client. All
// calls are authorized through the token manager and go over the request
// executor; a 401 triggers exactly one access-token refresh and retry.
package td

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/basilisk-trading/tdclient/broker"
	"github.com/basilisk-trading/tdclient/config"
	"github.com/basilisk-trading/tdclient/logger"
	"github.com/basilisk-trading/tdclient/rest"
	"github.com/basilisk-trading/tdclient/store"
	"github.com/basilisk-trading/tdclient/token"
)

// OAuthClientSuffix is appended to the registered client id in token
// endpoint exchanges, as the broker's OAuth implementation requires.
const OAuthClientSuffix = "@AMER.OAUTHAP"

// ErrInvalidParams is wrapped by all parameter validation failures.
var ErrInvalidParams = errors.New("invalid parameters")

// FieldError is returned when a quote response lacks a requested symbol
// or field.
type FieldError struct {
	Symbol string
	Field  string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("quote for %q has no field %q", e.Symbol, e.Field)
}

// Client is the broker-specific API surface.
type Client struct {
	baseURL string
	exec    *rest.Executor
	tokens  rest.TokenSource
	log     zerolog.Logger

	// refresher is non-nil when tokens supports forced refresh; it backs
	// the 401 retry policy.
	refresher interface {
		RefreshAccessToken(ctx context.Context) (string, error)
	}
}

var (
	_ broker.QuoteProvider   = (*Client)(nil)
	_ broker.AccountProvider = (*Client)(nil)
)

// Option configures a Client.
type Option func(*Client)

// WithExecutor replaces the request executor.
func WithExecutor(exec *rest.Executor) Option {
	return func(c *Client) { c.exec = exec }
}

// WithTokenSource replaces the token source used for authorized calls.
func WithTokenSource(src rest.TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
		c.refresher = nil
		if r, ok := src.(interface {
			RefreshAccessToken(ctx context.Context) (string, error)
		}); ok {
			c.refresher = r
		}
	}
}

// WithBaseURL overrides the data API root.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger sets the client logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New builds a Client wired to a token manager over the given credential
// store. The store keys the broker's credential record by cfg.ClientID.
// Options are applied first so an overridden logger or executor also
// reaches the token manager and its OAuth exchanges.
func New(cfg *config.Config, st store.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.exec == nil {
		c.exec = rest.NewExecutor(nil, c.log)
	}
	if c.tokens == nil {
		mgr := token.NewManager(token.Config{
			ClientID:      cfg.ClientID,
			OAuthClientID: cfg.ClientID + OAuthClientSuffix,
			TokenURL:      cfg.AuthURL + "/token",
		}, st, c.exec, c.log)
		c.tokens = mgr
		c.refresher = mgr
	}
	return c
}

// get performs an authorized GET with the required 401 policy: on an
// unauthorized response, refresh the access token once and retry once.
// A second 401 propagates; nothing here loops.
func (c *Client) get(ctx context.Context, rawURL string, params url.Values) (map[string]any, error) {
	body, err := c.exec.Get(ctx, rawURL, params, c.tokens)
	if err == nil || c.refresher == nil || !rest.IsStatus(err, http.StatusUnauthorized) {
		return body, err
	}

	c.log.Warn().Str("url", rawURL).Msg("unauthorized response, refreshing access token")
	if _, rerr := c.refresher.RefreshAccessToken(ctx); rerr != nil {
		return nil, rerr
	}
	return c.exec.Get(ctx, rawURL, params, c.tokens)
}
