package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Mkhisamo/learn-english/internal/logger"
)

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a Store backed by the kv_store table.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("kv")

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("key not found: %s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to read key %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (s *sqliteStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("kv")
	log.Debug("writing key: %s (%d bytes)", key, len(value))

	_, err := s.db.ExecContext(ctx, `
INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	if err != nil {
		log.Error("failed to write key %s: %v", key, err)
	}
	return err
}

func (s *sqliteStore) SetMulti(ctx context.Context, entries map[string]string) error {
	log := logger.FromContext(ctx).WithPrefix("kv")
	log.Debug("writing %d keys", len(entries))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for key, value := range entries {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value); err != nil {
			log.Error("failed to write key %s: %v", key, err)
			return err
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Remove(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("kv")
	log.Debug("removing key: %s", key)

	_, err := s.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, key)
	if err != nil {
		log.Error("failed to remove key %s: %v", key, err)
	}
	return err
}
