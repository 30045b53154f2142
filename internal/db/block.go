package db

import (
	"context"
	"time"

	"github.com/blocklayer/namadexer/internal/model"
)

// SaveBlock inserts a block. Duplicate heights are silently discarded
// (insert-if-absent): Block rows are immutable once written.
func (s *Sink) SaveBlock(ctx context.Context, b model.Block) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO blocks (height, hash, num_txs, total_gas, proposer_address, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (height) DO NOTHING
	`, b.Height, b.Hash, b.NumTxs, b.TotalGas, b.ProposerAddress, b.Timestamp)
	return err
}

// SaveTransaction inserts a transaction row. Insert-if-absent keyed on hash.
func (s *Sink) SaveTransaction(ctx context.Context, tx model.Transaction) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO transactions (hash, height, success, memo, tx_type, gas_wanted, gas_used, raw_log)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (hash) DO NOTHING
	`, tx.Hash, tx.Height, tx.Success, tx.Memo, tx.TxType, tx.GasWanted, tx.GasUsed, tx.RawLog)
	return err
}

// SaveMessage inserts a decoded message. Insert-if-absent keyed on tx_hash.
func (s *Sink) SaveMessage(ctx context.Context, m model.Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (height, tx_hash, message_type, value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tx_hash) DO NOTHING
	`, m.Height, m.TxHash, m.MessageType, m.Value)
	return err
}

// SaveValidatorSet inserts any validators not already known. An empty slice
// is a no-op; it never issues an empty statement.
func (s *Sink) SaveValidatorSet(ctx context.Context, validators []model.Validator) error {
	if len(validators) == 0 {
		return nil
	}

	addresses := make([]string, len(validators))
	pubkeys := make([]string, len(validators))
	for i, v := range validators {
		addresses[i] = v.ConsensusAddress
		pubkeys[i] = v.ConsensusPubkey
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validators (consensus_address, consensus_pubkey)
		SELECT u.consensus_address, u.consensus_pubkey
		FROM UNNEST($1::text[], $2::text[]) AS u(consensus_address, consensus_pubkey)
		ON CONFLICT (consensus_address) DO NOTHING
	`, addresses, pubkeys)
	return err
}

// SavePreCommits bulk-inserts a block's pre-commit signatures in a single
// round trip via UNNEST. An empty slice is a no-op.
func (s *Sink) SavePreCommits(ctx context.Context, commits []model.PreCommit) error {
	if len(commits) == 0 {
		return nil
	}

	addresses := make([]string, len(commits))
	heights := make([]int64, len(commits))
	timestamps := make([]time.Time, len(commits))
	votingPowers := make([]int64, len(commits))
	priorities := make([]int64, len(commits))
	for i, c := range commits {
		addresses[i] = c.ValidatorAddress
		heights[i] = c.Height
		timestamps[i] = c.Timestamp
		votingPowers[i] = c.VotingPower
		priorities[i] = c.ProposerPriority
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO pre_commits (validator_address, height, timestamp, voting_power, proposer_priority)
		SELECT u.validator_address, u.height, u.timestamp, u.voting_power, u.proposer_priority
		FROM UNNEST($1::text[], $2::bigint[], $3::timestamptz[], $4::bigint[], $5::bigint[])
			AS u(validator_address, height, timestamp, voting_power, proposer_priority)
		ON CONFLICT DO NOTHING
	`, addresses, heights, timestamps, votingPowers, priorities)
	return err
}
