// Package tokenstore persists OAuth tokens in a local sqlite database, one
// row per account label.
package tokenstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var ErrNoToken = errors.New("no token found - please authenticate first")

const schema = `
CREATE TABLE IF NOT EXISTS tokens (
	account       TEXT PRIMARY KEY,
	access_token  TEXT NOT NULL,
	refresh_token TEXT,
	token_type    TEXT NOT NULL,
	expiry        TIMESTAMP NOT NULL,
	user_id       TEXT NOT NULL DEFAULT '',
	updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

type Token struct {
	AccessToken  string
	RefreshToken *string
	TokenType    string
	Expiry       time.Time
	// UserID is the Fitbit user id returned alongside the token grant; every
	// endpoint path embeds it.
	UserID string
}

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening token database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating tokens table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, account string) (Token, error) {
	const query = `
SELECT access_token, refresh_token, token_type, expiry, user_id
FROM tokens WHERE account = ?`

	var t Token
	err := s.db.QueryRowContext(ctx, query, account).Scan(
		&t.AccessToken,
		&t.RefreshToken,
		&t.TokenType,
		&t.Expiry,
		&t.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Token{}, ErrNoToken
		}
		return Token{}, fmt.Errorf("loading token for %s: %w", account, err)
	}
	return t, nil
}

func (s *Store) Upsert(ctx context.Context, account string, t Token) error {
	const query = `
INSERT INTO tokens (account, access_token, refresh_token, token_type, expiry, user_id, updated_at)
VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(account) DO UPDATE SET
	access_token  = excluded.access_token,
	refresh_token = excluded.refresh_token,
	token_type    = excluded.token_type,
	expiry        = excluded.expiry,
	user_id       = CASE WHEN excluded.user_id != '' THEN excluded.user_id ELSE tokens.user_id END,
	updated_at    = CURRENT_TIMESTAMP`

	if _, err := s.db.ExecContext(ctx, query,
		account, t.AccessToken, t.RefreshToken, t.TokenType, t.Expiry, t.UserID,
	); err != nil {
		return fmt.Errorf("saving token for %s: %w", account, err)
	}
	return nil
}
