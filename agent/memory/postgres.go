package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	contractx "github.com/tanpawarit/Chative-Music-Store-Support/agent/contract"
)

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true"`
}

const createKVTable = `
CREATE TABLE IF NOT EXISTS store_kv (
	namespace  TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (namespace, key)
)`

// PostgresKV stores values in a single store_kv table.
type PostgresKV struct {
	pool *pgxpool.Pool
}

func NewPostgresKV(ctx context.Context, cfg PostgresConfig) (*PostgresKV, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: connect postgres: %v", contractx.ErrStoreUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping postgres: %v", contractx.ErrStoreUnavailable, err)
	}
	kv := &PostgresKV{pool: pool}
	if err := kv.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return kv, nil
}

func (p *PostgresKV) CreateSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("%w: create store_kv: %v", contractx.ErrStoreUnavailable, err)
	}
	return nil
}

func (p *PostgresKV) Close() {
	p.pool.Close()
}

func (p *PostgresKV) Get(ctx context.Context, namespace []string, key string) ([]byte, bool, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value::text FROM store_kv WHERE namespace = $1 AND key = $2`,
		joinNamespace(namespace), key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: read store_kv: %v", contractx.ErrStoreUnavailable, err)
	}
	return value, true, nil
}

func (p *PostgresKV) Put(ctx context.Context, namespace []string, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO store_kv (namespace, key, value, updated_at)
VALUES ($1, $2, $3::jsonb, now())
ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		joinNamespace(namespace), key, string(value),
	)
	if err != nil {
		return fmt.Errorf("%w: write store_kv: %v", contractx.ErrStoreUnavailable, err)
	}
	return nil
}
