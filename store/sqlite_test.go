package store_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/basilisk-trading/tdclient/store"
)

func openSQLite(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.OpenSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)

	_, err := s.Get(t.Context(), "td")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(t.Context(), "td", store.Update{
		RefreshToken:       store.String("rt-1"),
		RefreshTokenExpiry: store.Int64(1_700_000_000),
	}))

	rec, err := s.Get(t.Context(), "td")
	require.NoError(t, err)
	require.Equal(t, "td", rec.ClientID)
	require.Equal(t, "rt-1", rec.RefreshToken)
	require.EqualValues(t, 1_700_000_000, rec.RefreshTokenExpiry)
	require.Empty(t, rec.AccessToken)
}

func TestSQLiteStore_PartialUpdate(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)

	require.NoError(t, s.Put(t.Context(), "td", store.Update{
		RefreshToken:       store.String("rt-1"),
		RefreshTokenExpiry: store.Int64(500),
	}))
	require.NoError(t, s.Put(t.Context(), "td", store.Update{
		AccessToken:       store.String("at-1"),
		AccessTokenExpiry: store.Int64(900),
	}))

	rec, err := s.Get(t.Context(), "td")
	require.NoError(t, err)
	require.Equal(t, "rt-1", rec.RefreshToken, "refresh fields survive an access-token write")
	require.Equal(t, "at-1", rec.AccessToken)
	require.EqualValues(t, 900, rec.AccessTokenExpiry)
}

func TestSQLiteStore_EmptyUpdateIsNoop(t *testing.T) {
	t.Parallel()

	s := openSQLite(t)
	require.NoError(t, s.Put(t.Context(), "td", store.Update{}))

	_, err := s.Get(t.Context(), "td")
	require.ErrorIs(t, err, store.ErrNotFound, "an empty update must not create a row")
}
