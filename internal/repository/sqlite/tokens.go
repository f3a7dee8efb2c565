package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"storeadmin/internal/auth"
)

const tokenKey = "token"

// TokenStore keeps the session token in a key-value table.
type TokenStore struct {
	DB  *sql.DB
	log *slog.Logger
}

func Open(ctx context.Context, dsn string, log *slog.Logger) (*TokenStore, error) {
	if log == nil {
		log = slog.Default()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer; the slot is tiny
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &TokenStore{DB: db, log: log}
	if err := s.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TokenStore) initSchema(ctx context.Context) error {
	const q = `
	CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := s.DB.ExecContext(ctx, q); err != nil {
		s.log.Error("kv schema", "err", err)
		return fmt.Errorf("init kv schema: %w", err)
	}
	return nil
}

func (s *TokenStore) Load(ctx context.Context) (string, error) {
	var v string
	err := s.DB.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, tokenKey).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", auth.ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *TokenStore) Save(ctx context.Context, token string) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		tokenKey, token)
	return err
}

func (s *TokenStore) Delete(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, tokenKey)
	return err
}

func (s *TokenStore) Close() error { return s.DB.Close() }
