// Package token owns the OAuth credential lifecycle for one client
// identity: a short-lived access token and a long-lived refresh token,
// cached in memory, persisted in a credential store, and renewed against
// the broker's OAuth token endpoint with safety-margined expiries.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/basilisk-trading/tdclient/rest"
	"github.com/basilisk-trading/tdclient/store"
)

// Config fixes the client identity and token endpoint for a Manager.
type Config struct {
	// ClientID keys the credential record in the store.
	ClientID string
	// OAuthClientID is the client_id form value sent to the token
	// endpoint. Brokers may require a suffix on the registered id.
	OAuthClientID string
	// TokenURL is the OAuth token endpoint.
	TokenURL string
}

// Manager mediates between the in-memory token cache, the credential
// store, and the OAuth token endpoint. The cache is a derived view; the
// store is the source of truth across restarts.
//
// All operations hold one mutex across the whole check-load-refresh-
// persist sequence, so two concurrent callers observing a stale token
// trigger exactly one refresh exchange: the second waits, then takes the
// fast path on the first caller's result.
type Manager struct {
	cfg   Config
	store store.CredentialStore
	exec  *rest.Executor
	log   zerolog.Logger

	mu            sync.Mutex
	accessToken   string
	accessExpiry  int64
	refreshToken  string
	refreshExpiry int64

	now func() time.Time
}

func NewManager(cfg Config, st store.CredentialStore, exec *rest.Executor, log zerolog.Logger) *Manager {
	return &Manager{
		cfg:   cfg,
		store: st,
		exec:  exec,
		log:   log,
		now:   time.Now,
	}
}

// AccessToken returns a valid access token, reading the store and
// refreshing against the OAuth endpoint only when needed. The common case
// is a cached fresh token and performs no I/O.
func (m *Manager) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	nowUnix := m.now().Unix()
	if m.accessToken != "" && m.accessExpiry > nowUnix {
		return m.accessToken, nil
	}

	rec, err := m.store.Get(ctx, m.cfg.ClientID)
	switch {
	case err == nil:
		if rec.RefreshToken != "" {
			m.refreshToken = rec.RefreshToken
			m.refreshExpiry = rec.RefreshTokenExpiry
		}
		if rec.AccessToken != "" && rec.AccessTokenExpiry > nowUnix {
			m.accessToken = rec.AccessToken
			m.accessExpiry = rec.AccessTokenExpiry
			return m.accessToken, nil
		}
	case errors.Is(err, store.ErrNotFound):
		// No record yet; the refresh path below reports ErrNotAuthorized.
	default:
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return m.refreshAccessLocked(ctx)
}

// RefreshAccessToken forces an access-token refresh regardless of the
// cached token's freshness.
func (m *Manager) RefreshAccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshAccessLocked(ctx)
}

func (m *Manager) refreshAccessLocked(ctx context.Context) (string, error) {
	refreshToken, err := m.currentRefreshTokenLocked(ctx)
	if err != nil {
		return "", err
	}

	body, err := m.exchange(ctx, refreshToken)
	if err != nil {
		return "", err
	}

	accessToken, ok := body["access_token"].(string)
	if !ok || accessToken == "" {
		return "", fmt.Errorf("%w: response missing access_token", ErrUpstreamRefresh)
	}
	lifetime, err := lifetimeField(body, "expires_in")
	if err != nil {
		return "", err
	}
	expiry, err := AccessExpiry(m.now().Unix(), lifetime)
	if err != nil {
		return "", err
	}

	err = m.store.Put(ctx, m.cfg.ClientID, store.Update{
		AccessToken:       store.String(accessToken),
		AccessTokenExpiry: store.Int64(expiry),
	})
	if err != nil {
		// Do not cache: memory and store must not silently diverge. The
		// next caller retries the whole refresh.
		return "", fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	m.accessToken = accessToken
	m.accessExpiry = expiry
	m.log.Info().
		Str("client_id", m.cfg.ClientID).
		Int64("expiry", expiry).
		Msg("access token refreshed")
	return accessToken, nil
}

// RefreshRefreshToken rotates the refresh token: exchanges the current
// one for a new refresh token, persists it with its margined expiry, and
// updates the cache. Independent of access-token refresh; the two tokens
// have separate lifetimes and rotation cadences.
func (m *Manager) RefreshRefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, err := m.currentRefreshTokenLocked(ctx)
	if err != nil {
		return "", err
	}

	body, err := m.exchange(ctx, current)
	if err != nil {
		return "", err
	}

	rotated, ok := body["refresh_token"].(string)
	if !ok || rotated == "" {
		return "", fmt.Errorf("%w: response missing refresh_token", ErrUpstreamRefresh)
	}
	lifetime, err := lifetimeField(body, "refresh_token_expires_in")
	if err != nil {
		return "", err
	}
	expiry, err := RefreshExpiry(m.now().Unix(), lifetime)
	if err != nil {
		return "", err
	}

	// The expiry is written on every rotation, not only when absent.
	err = m.store.Put(ctx, m.cfg.ClientID, store.Update{
		RefreshToken:       store.String(rotated),
		RefreshTokenExpiry: store.Int64(expiry),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	m.refreshToken = rotated
	m.refreshExpiry = expiry
	m.log.Info().
		Str("client_id", m.cfg.ClientID).
		Int64("expiry", expiry).
		Msg("refresh token rotated")
	return rotated, nil
}

// CurrentRefreshToken returns the refresh token, reading it from the
// store if it is not cached yet.
func (m *Manager) CurrentRefreshToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentRefreshTokenLocked(ctx)
}

func (m *Manager) currentRefreshTokenLocked(ctx context.Context) (string, error) {
	if m.refreshToken != "" {
		return m.refreshToken, nil
	}

	rec, err := m.store.Get(ctx, m.cfg.ClientID)
	if errors.Is(err, store.ErrNotFound) {
		return "", fmt.Errorf("%w: no credential record for %q", ErrNotAuthorized, m.cfg.ClientID)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if rec.RefreshToken == "" {
		return "", fmt.Errorf("%w: no refresh token for %q", ErrNotAuthorized, m.cfg.ClientID)
	}

	m.refreshToken = rec.RefreshToken
	m.refreshExpiry = rec.RefreshTokenExpiry
	return m.refreshToken, nil
}

// RefreshTokenDue reports whether the refresh token needs rotation: its
// margined expiry has passed or was never recorded. Callers are expected
// to follow up with RefreshRefreshToken.
func (m *Manager) RefreshTokenDue(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.currentRefreshTokenLocked(ctx); err != nil {
		return false, err
	}
	return m.refreshExpiry <= m.now().Unix(), nil
}

func (m *Manager) exchange(ctx context.Context, refreshToken string) (map[string]any, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"client_id":     {m.cfg.OAuthClientID},
	}
	body, err := m.exec.Post(ctx, m.cfg.TokenURL, form)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamRefresh, err)
	}
	return body, nil
}

func lifetimeField(body map[string]any, key string) (int64, error) {
	v, ok := body[key].(float64)
	if !ok {
		return 0, fmt.Errorf("%w: response missing %s", ErrUpstreamRefresh, key)
	}
	return int64(v), nil
}
