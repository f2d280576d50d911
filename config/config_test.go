package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basilisk-trading/tdclient/config"
)

func TestLoad(t *testing.T) {
	t.Setenv("TD_CLIENT_ID", "client-id")
	t.Setenv("TD_REDIRECT_URI", "https://localhost/callback")
	t.Setenv("TD_ACCOUNT_ID", "123456")
	t.Setenv("TD_BASE_URL", "")
	t.Setenv("TD_AUTH_URL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "client-id", cfg.ClientID)
	require.Equal(t, "https://localhost/callback", cfg.RedirectURI)
	require.Equal(t, "123456", cfg.AccountID)
	require.Equal(t, "https://api.tdameritrade.com/v1", cfg.BaseURL)
	require.Equal(t, "https://api.tdameritrade.com/v1/oauth2", cfg.AuthURL)
}

func TestLoad_OverriddenEndpoints(t *testing.T) {
	t.Setenv("TD_CLIENT_ID", "client-id")
	t.Setenv("TD_BASE_URL", "http://localhost:8080/v1")
	t.Setenv("TD_AUTH_URL", "http://localhost:8080/v1/oauth2")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	require.Equal(t, "http://localhost:8080/v1/oauth2", cfg.AuthURL)
}

func TestLoad_MissingClientID(t *testing.T) {
	t.Setenv("TD_CLIENT_ID", "")

	_, err := config.Load()
	require.Error(t, err)
}
