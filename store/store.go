// Package store persists OAuth credential records across process restarts.
// The token manager treats a store as the source of truth; its in-memory
// cache is only a derived view.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no record exists for a client
// identity. It is an expected condition, distinct from the store being
// unreachable, and callers are expected to match it with errors.Is.
var ErrNotFound = errors.New("credential record not found")

// Record is the persisted credential tuple for one client identity.
// Expiries are Unix seconds and already include the safety margin; a zero
// expiry means "unknown" and must be treated as expired.
type Record struct {
	ClientID           string `json:"client_id"`
	RefreshToken       string `json:"refresh_token,omitempty"`
	RefreshTokenExpiry int64  `json:"refresh_token_expiry,omitempty"`
	AccessToken        string `json:"access_token,omitempty"`
	AccessTokenExpiry  int64  `json:"access_token_expiry,omitempty"`
}

// Update is a partial write against a Record. Nil fields are left
// untouched.
type Update struct {
	RefreshToken       *string
	RefreshTokenExpiry *int64
	AccessToken        *string
	AccessTokenExpiry  *int64
}

// Apply merges the update into rec.
func (u Update) Apply(rec *Record) {
	if u.RefreshToken != nil {
		rec.RefreshToken = *u.RefreshToken
	}
	if u.RefreshTokenExpiry != nil {
		rec.RefreshTokenExpiry = *u.RefreshTokenExpiry
	}
	if u.AccessToken != nil {
		rec.AccessToken = *u.AccessToken
	}
	if u.AccessTokenExpiry != nil {
		rec.AccessTokenExpiry = *u.AccessTokenExpiry
	}
}

// CredentialStore is the durable key/value contract backing token
// persistence. Implementations must serialize concurrent Put calls for
// the same client id.
type CredentialStore interface {
	Get(ctx context.Context, clientID string) (*Record, error)
	Put(ctx context.Context, clientID string, update Update) error
}

// String returns a pointer to s, for building partial Updates.
func String(s string) *string { return &s }

// Int64 returns a pointer to v, for building partial Updates.
func Int64(v int64) *int64 { return &v }
