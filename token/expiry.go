package token

import "fmt"

const (
	// AccessTokenMargin is subtracted from the provider-reported access
	// token lifetime so callers stop trusting the token five minutes
	// before the provider actually invalidates it.
	AccessTokenMargin = 300

	// RefreshTokenMargin is subtracted from the refresh token lifetime so
	// rotation happens a full week before the provider-side expiry.
	RefreshTokenMargin = 604800
)

// AccessExpiry computes the safety-margined Unix timestamp at which an
// access token issued at issuedAt with the given lifetime stops being
// trusted. The result is always earlier than the provider-side expiry and
// may be in the past for very short lifetimes.
func AccessExpiry(issuedAt, lifetimeSeconds int64) (int64, error) {
	if lifetimeSeconds <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLifetime, lifetimeSeconds)
	}
	return issuedAt + lifetimeSeconds - AccessTokenMargin, nil
}

// RefreshExpiry computes the safety-margined Unix timestamp at which a
// refresh token issued at issuedAt with the given lifetime is due for
// rotation.
func RefreshExpiry(issuedAt, lifetimeSeconds int64) (int64, error) {
	if lifetimeSeconds <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidLifetime, lifetimeSeconds)
	}
	return issuedAt + lifetimeSeconds - RefreshTokenMargin, nil
}
