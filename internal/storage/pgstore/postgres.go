package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS app_storage (
    key        TEXT PRIMARY KEY,
    value      TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
)`

type entry struct {
	Key       string    `db:"key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

type PGStore struct {
	DB *sqlx.DB
}

func New(db *sqlx.DB) *PGStore {
	return &PGStore{DB: db}
}

// Migrate creates the backing table when missing.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create app_storage: %w", err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB.GetContext(ctx, &value, `SELECT value FROM app_storage WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (s *PGStore) Set(ctx context.Context, key, value string) error {
	query := `
        INSERT INTO app_storage (key, value, updated_at)
        VALUES (:key, :value, :updated_at)
        ON CONFLICT (key)
        DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `
	_, err := s.DB.NamedExecContext(ctx, query, entry{Key: key, Value: value, UpdatedAt: time.Now().UTC()})
	return err
}

func (s *PGStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM app_storage WHERE key IN (?)`, keys)
	if err != nil {
		return err
	}
	_, err = s.DB.ExecContext(ctx, s.DB.Rebind(query), args...)
	return err
}
