package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/ticket-tally/helpdesk-service/internal/config"
)

// PostgresStore persists collection documents in a single table with one
// JSONB payload per key. Rows are replaced wholesale on write so the
// get-all/replace-all contract holds unchanged over SQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore establishes a connection pool when a DSN is provided.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		logger.Warn("POSTGRES_DSN not provided; skipping database connection")
		return &PostgresStore{pool: nil}, nil
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Read(ctx context.Context, key string) ([]byte, error) {
	const query = `SELECT payload FROM collections WHERE key=$1`
	var payload []byte
	err := s.pool.QueryRow(ctx, query, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *PostgresStore) Write(ctx context.Context, key string, payload []byte) error {
	const query = `
        INSERT INTO collections (key, payload, updated_at) VALUES ($1, $2, NOW())
        ON CONFLICT (key) DO UPDATE SET payload=EXCLUDED.payload, updated_at=NOW()`
	_, err := s.pool.Exec(ctx, query, key, payload)
	return err
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	const query = `DELETE FROM collections WHERE key=$1`
	_, err := s.pool.Exec(ctx, query, key)
	return err
}

// Close releases pool resources.
func (s *PostgresStore) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

// PoolHandle returns the underlying pgx pool.
func (s *PostgresStore) PoolHandle() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}
