// Package db is the persistence sink: one Save method per entity, each
// obeying one of three disciplines (insert-if-absent, height-gated upsert,
// singleton upsert), following the bulk-UNNEST insert pattern used by
// production Postgres ingest pipelines rather than issuing one INSERT per
// row.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Sink owns the connection pool and is the single write path for every
// entity namadexer persists.
type Sink struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

// Open connects to the database at url with the given max pool size and
// returns a ready Sink.
func Open(ctx context.Context, url string, maxConns uint32, logger *zap.SugaredLogger) (*Sink, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("db: parsing connection url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: opening pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return &Sink{pool: pool, logger: logger.Named("db")}, nil
}

// Close releases the connection pool.
func (s *Sink) Close() {
	s.pool.Close()
}
