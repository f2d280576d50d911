package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps credential records in a Postgres table, one row per
// client identity. The table is expected to exist:
//
//	CREATE TABLE IF NOT EXISTS tokens (
//	    client_id            TEXT PRIMARY KEY,
//	    refresh_token        TEXT,
//	    refresh_token_expiry BIGINT,
//	    access_token         TEXT,
//	    access_token_expiry  BIGINT
//	)
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to connString and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}

func (p *PostgresStore) Get(ctx context.Context, clientID string) (*Record, error) {
	query := `
		SELECT client_id,
		       COALESCE(refresh_token, ''),
		       COALESCE(refresh_token_expiry, 0),
		       COALESCE(access_token, ''),
		       COALESCE(access_token_expiry, 0)
		FROM tokens WHERE client_id = $1`

	var rec Record
	err := p.pool.QueryRow(ctx, query, clientID).Scan(
		&rec.ClientID,
		&rec.RefreshToken,
		&rec.RefreshTokenExpiry,
		&rec.AccessToken,
		&rec.AccessTokenExpiry,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token row: %w", err)
	}
	return &rec, nil
}

func (p *PostgresStore) Put(ctx context.Context, clientID string, update Update) error {
	sets := []string{}
	args := pgx.NamedArgs{"client_id": clientID}
	if update.RefreshToken != nil {
		sets = append(sets, "refresh_token = @refresh_token")
		args["refresh_token"] = *update.RefreshToken
	}
	if update.RefreshTokenExpiry != nil {
		sets = append(sets, "refresh_token_expiry = @refresh_token_expiry")
		args["refresh_token_expiry"] = *update.RefreshTokenExpiry
	}
	if update.AccessToken != nil {
		sets = append(sets, "access_token = @access_token")
		args["access_token"] = *update.AccessToken
	}
	if update.AccessTokenExpiry != nil {
		sets = append(sets, "access_token_expiry = @access_token_expiry")
		args["access_token_expiry"] = *update.AccessTokenExpiry
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf(`UPDATE tokens SET %s WHERE client_id = @client_id`, strings.Join(sets, ", "))
	tag, err := p.pool.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to update token row: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	rec := Record{ClientID: clientID}
	update.Apply(&rec)
	_, err = p.pool.Exec(ctx, `
		INSERT INTO tokens (client_id, refresh_token, refresh_token_expiry, access_token, access_token_expiry)
		VALUES (@client_id, @refresh_token, @refresh_token_expiry, @access_token, @access_token_expiry)
		ON CONFLICT (client_id) DO NOTHING`,
		pgx.NamedArgs{
			"client_id":            rec.ClientID,
			"refresh_token":        rec.RefreshToken,
			"refresh_token_expiry": rec.RefreshTokenExpiry,
			"access_token":         rec.AccessToken,
			"access_token_expiry":  rec.AccessTokenExpiry,
		})
	if err != nil {
		return fmt.Errorf("failed to insert token row: %w", err)
	}
	return nil
}
