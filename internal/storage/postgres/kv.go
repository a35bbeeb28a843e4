package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart/storefront/internal/storage/kv"
)

const (
	getKVSQL    = `SELECT value FROM kv_store WHERE key = $1`
	setKVSQL    = `INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	removeKVSQL = `DELETE FROM kv_store WHERE key = $1`
)

var _ kv.Store = (*KVStore)(nil)

// KVStore implements kv.Store on top of a PostgreSQL table, giving the
// storefront a durable session store shared across restarts.
type KVStore struct {
	pool *pgxpool.Pool
	ctx  context.Context
}

// NewKVStore returns a KVStore that uses the given pool. The context
// bounds all store operations; the kv.Store contract itself is
// context-free because its callers are synchronous UI-event handlers.
func NewKVStore(ctx context.Context, pool *pgxpool.Pool) *KVStore {
	return &KVStore{pool: pool, ctx: ctx}
}

func (s *KVStore) Get(key string) (string, bool, error) {
	var value string
	err := s.pool.QueryRow(s.ctx, getKVSQL, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "get key %q", key)
	}
	return value, true, nil
}

func (s *KVStore) Set(key, value string) error {
	if _, err := s.pool.Exec(s.ctx, setKVSQL, key, value); err != nil {
		return errors.Wrapf(err, "set key %q", key)
	}
	return nil
}

func (s *KVStore) Remove(key string) error {
	if _, err := s.pool.Exec(s.ctx, removeKVSQL, key); err != nil {
		return errors.Wrapf(err, "remove key %q", key)
	}
	return nil
}
