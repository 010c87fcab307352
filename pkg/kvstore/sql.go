package kvstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/looply/looply-backend/pkg/database"
)

const (
	postgresSchema = `CREATE TABLE IF NOT EXISTS kv_entries (entry_key TEXT PRIMARY KEY, value JSONB NOT NULL, updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW())`
	sqliteSchema   = `CREATE TABLE IF NOT EXISTS kv_entries (entry_key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`

	queryGet    = `SELECT value FROM kv_entries WHERE entry_key = ?`
	queryUpsert = `INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (entry_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	queryDelete = `DELETE FROM kv_entries WHERE entry_key = ?`
	queryScan   = `SELECT entry_key, value FROM kv_entries WHERE entry_key LIKE ? ESCAPE '\' ORDER BY entry_key`
)

// SQLStore persists documents in a single kv_entries table (postgres or sqlite)
type SQLStore struct {
	db *database.DB
}

// NewSQLStore creates a store over an open connection. Call Migrate before use.
func NewSQLStore(db *database.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Migrate creates the kv_entries table if needed
func (s *SQLStore) Migrate(ctx context.Context) error {
	schema := sqliteSchema
	if s.db.IsPostgres() {
		schema = postgresSchema
	}

	return s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return fmt.Errorf("create kv_entries: %w", err)
		}
		return nil
	})
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(queryGet), key)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(queryUpsert), key, string(value)); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(queryDelete), key); err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) ScanByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	var rows []struct {
		Key   string `db:"entry_key"`
		Value string `db:"value"`
	}
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(queryScan), escapeLike(prefix)+"%"); err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}

	out := make([]Entry, 0, len(rows))
	for _, r := range rows {
		out = append(out, Entry{Key: r.Key, Value: []byte(r.Value)})
	}
	return out, nil
}

func (s *SQLStore) Health(ctx context.Context) map[string]string {
	return s.db.Health(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
