// Package config loads broker credentials and connection settings from
// the environment, optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

const (
	defaultBaseURL = "https://api.tdameritrade.com/v1"
	defaultAuthURL = "https://api.tdameritrade.com/v1/oauth2"
)

type Config struct {
	// ClientID is the registered OAuth application id. Required.
	ClientID string
	// RedirectURI is the registered OAuth redirect, used only by the
	// out-of-band authorization flow.
	RedirectURI string
	// BaseURL is the data API root.
	BaseURL string
	// AuthURL is the OAuth API root; the token endpoint is AuthURL+"/token".
	AuthURL string
	// AccountID selects the brokerage account for account calls.
	AccountID string
	// CredentialsPath points a file-backed credential store at its JSON
	// file. Empty selects the default location.
	CredentialsPath string
	// DatabaseURL selects a Postgres-backed credential store when set.
	DatabaseURL string
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() (*Config, error) {
	// Missing .env is fine; real environments export variables directly.
	_ = godotenv.Load()

	cfg := &Config{
		ClientID:        os.Getenv("TD_CLIENT_ID"),
		RedirectURI:     os.Getenv("TD_REDIRECT_URI"),
		BaseURL:         envOr("TD_BASE_URL", defaultBaseURL),
		AuthURL:         envOr("TD_AUTH_URL", defaultAuthURL),
		AccountID:       os.Getenv("TD_ACCOUNT_ID"),
		CredentialsPath: os.Getenv("TD_CREDENTIALS_PATH"),
		DatabaseURL:     os.Getenv("TD_DATABASE_URL"),
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("TD_CLIENT_ID is required")
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
