package db

import (
	"context"
	"time"

	"github.com/blocklayer/namadexer/internal/model"
)

// SaveAverageBlockTimeHour singleton-upserts the hourly rolling average,
// conflicting on the sentinel one_row_id scalar.
func (s *Sink) SaveAverageBlockTimeHour(ctx context.Context, v model.AverageBlockTimeHour) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO average_block_time_hour (one_row_id, average_block_time, height)
		VALUES (true, $1, $2)
		ON CONFLICT (one_row_id) DO UPDATE
			SET average_block_time = EXCLUDED.average_block_time, height = EXCLUDED.height
			WHERE average_block_time_hour.height <= EXCLUDED.height
	`, v.AverageBlockTime.String(), v.Height)
	return err
}

// SaveAverageBlockTimeDay singleton-upserts the daily rolling average.
func (s *Sink) SaveAverageBlockTimeDay(ctx context.Context, v model.AverageBlockTimeDay) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO average_block_time_day (one_row_id, average_block_time, height)
		VALUES (true, $1, $2)
		ON CONFLICT (one_row_id) DO UPDATE
			SET average_block_time = EXCLUDED.average_block_time, height = EXCLUDED.height
			WHERE average_block_time_day.height <= EXCLUDED.height
	`, v.AverageBlockTime.String(), v.Height)
	return err
}

// LatestBlock returns the block with the greatest height, or ok=false on an
// empty table.
func (s *Sink) LatestBlock(ctx context.Context) (b model.Block, ok bool, err error) {
	row := s.pool.QueryRow(ctx, `
		SELECT height, hash, num_txs, total_gas, proposer_address, timestamp
		FROM blocks ORDER BY height DESC LIMIT 1
	`)
	if scanErr := row.Scan(&b.Height, &b.Hash, &b.NumTxs, &b.TotalGas, &b.ProposerAddress, &b.Timestamp); scanErr != nil {
		return model.Block{}, false, nil
	}
	return b, true, nil
}

// BlockBefore returns the latest block with timestamp <= cutoff, or
// ok=false if no such block exists yet.
func (s *Sink) BlockBefore(ctx context.Context, cutoff time.Time) (b model.Block, ok bool, err error) {
	row := s.pool.QueryRow(ctx, `
		SELECT height, hash, num_txs, total_gas, proposer_address, timestamp
		FROM blocks WHERE timestamp <= $1 ORDER BY timestamp DESC LIMIT 1
	`, cutoff)
	if scanErr := row.Scan(&b.Height, &b.Hash, &b.NumTxs, &b.TotalGas, &b.ProposerAddress, &b.Timestamp); scanErr != nil {
		return model.Block{}, false, nil
	}
	return b, true, nil
}
