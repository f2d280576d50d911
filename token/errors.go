package token

import "errors"

var (
	// ErrInvalidLifetime is returned when the provider reports a
	// non-positive token lifetime.
	ErrInvalidLifetime = errors.New("invalid token lifetime")

	// ErrStoreUnavailable is returned when the credential store cannot be
	// reached. Distinct from a missing record.
	ErrStoreUnavailable = errors.New("credential store unavailable")

	// ErrNotAuthorized is returned when no refresh token exists for the
	// client identity. This is terminal: the client requires an
	// out-of-band authorization flow before any API call can succeed.
	ErrNotAuthorized = errors.New("client not authorized")

	// ErrUpstreamRefresh is returned when the OAuth token endpoint
	// rejects or errors on a refresh request.
	ErrUpstreamRefresh = errors.New("token refresh rejected upstream")

	// ErrPersistFailed is returned when a freshly obtained token could
	// not be written to the credential store. The in-memory cache is left
	// untouched so the next caller retries the whole refresh.
	ErrPersistFailed = errors.New("failed to persist token")
)
