package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS tokens (
	client_id            TEXT PRIMARY KEY,
	refresh_token        TEXT,
	refresh_token_expiry INTEGER,
	access_token         TEXT,
	access_token_expiry  INTEGER
)`

// SQLiteStore keeps credential records in a local sqlite database, one
// row per client identity.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the tokens database at path.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tokens table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, clientID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT client_id, refresh_token, refresh_token_expiry, access_token, access_token_expiry
		FROM tokens WHERE client_id = ?`, clientID)

	var rec Record
	var refreshToken, accessToken sql.NullString
	var refreshExpiry, accessExpiry sql.NullInt64
	err := row.Scan(&rec.ClientID, &refreshToken, &refreshExpiry, &accessToken, &accessExpiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read token row: %w", err)
	}
	rec.RefreshToken = refreshToken.String
	rec.RefreshTokenExpiry = refreshExpiry.Int64
	rec.AccessToken = accessToken.String
	rec.AccessTokenExpiry = accessExpiry.Int64
	return &rec, nil
}

func (s *SQLiteStore) Put(ctx context.Context, clientID string, update Update) error {
	sets, args := updateColumns(update)
	if len(sets) == 0 {
		return nil
	}

	args = append(args, clientID)
	res, err := s.db.ExecContext(ctx,
		fmt.Sprintf(`UPDATE tokens SET %s WHERE client_id = ?`, strings.Join(sets, ", ")), args...)
	if err != nil {
		return fmt.Errorf("failed to update token row: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if n > 0 {
		return nil
	}

	// First write for this client id: insert a fresh row.
	rec := Record{ClientID: clientID}
	update.Apply(&rec)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tokens (client_id, refresh_token, refresh_token_expiry, access_token, access_token_expiry)
		VALUES (?, ?, ?, ?, ?)`,
		rec.ClientID, rec.RefreshToken, rec.RefreshTokenExpiry, rec.AccessToken, rec.AccessTokenExpiry)
	if err != nil {
		return fmt.Errorf("failed to insert token row: %w", err)
	}
	return nil
}

func updateColumns(update Update) ([]string, []any) {
	var sets []string
	var args []any
	if update.RefreshToken != nil {
		sets = append(sets, "refresh_token = ?")
		args = append(args, *update.RefreshToken)
	}
	if update.RefreshTokenExpiry != nil {
		sets = append(sets, "refresh_token_expiry = ?")
		args = append(args, *update.RefreshTokenExpiry)
	}
	if update.AccessToken != nil {
		sets = append(sets, "access_token = ?")
		args = append(args, *update.AccessToken)
	}
	if update.AccessTokenExpiry != nil {
		sets = append(sets, "access_token_expiry = ?")
		args = append(args, *update.AccessTokenExpiry)
	}
	return sets, args
}
