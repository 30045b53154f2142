// Package worker is the worker pool (C5): N goroutines consuming heights
// from the bounded queue, fetching block data concurrently, decoding
// transactions, and driving the registered modules.
package worker

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sync"

	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/blocklayer/namadexer/internal/bech32"
	"github.com/blocklayer/namadexer/internal/codec"
	"github.com/blocklayer/namadexer/internal/epoch"
	"github.com/blocklayer/namadexer/internal/model"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/queue"
)

// encodeAddress renders a raw consensus address the way every table keyed
// by validator_address expects it.
func encodeAddress(raw []byte) string {
	return bech32.EncodeValidatorAddress(raw)
}

// NodeClient is the subset of *client.Node the worker pool needs, kept as
// an interface so tests can drive processHeight against a fake.
type NodeClient interface {
	Block(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error)
	BlockResults(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error)
	Validators(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error)
	Epoch(ctx context.Context, height int64) (int64, bool, error)
}

// Sink is the subset of *db.Sink the worker pool writes through.
type Sink interface {
	SaveValidatorSet(ctx context.Context, validators []model.Validator) error
	SaveBlock(ctx context.Context, b model.Block) error
	SavePreCommits(ctx context.Context, commits []model.PreCommit) error
	SaveTransaction(ctx context.Context, tx model.Transaction) error
	SaveMessage(ctx context.Context, m model.Message) error
}

// Pool owns the shared dependencies every worker goroutine needs and
// supervises their lifetime.
type Pool struct {
	queue     *queue.HeightQueue
	node      NodeClient
	sink      Sink
	checksums *codec.ChecksumMap
	modules   []modules.Module
	tracker   *epoch.Tracker
	logger    *zap.SugaredLogger
}

// New builds a worker pool over the given dependencies. modules are invoked
// in the given order for every epoch edge and every decoded message.
func New(q *queue.HeightQueue, node NodeClient, sink Sink, checksums *codec.ChecksumMap, mods []modules.Module, tracker *epoch.Tracker, logger *zap.SugaredLogger) *Pool {
	return &Pool{
		queue:     q,
		node:      node,
		sink:      sink,
		checksums: checksums,
		modules:   mods,
		tracker:   tracker,
		logger:    logger.Named("worker"),
	}
}

// Run launches n worker goroutines and blocks until they all exit, which
// happens only once the queue is closed and drained.
func (p *Pool) Run(ctx context.Context, n int) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.loop(ctx, id)
		}(i)
	}
	wg.Wait()
}

// loop repeatedly dequeues a height, processes it, and re-enqueues it on
// any error. Workers never terminate on a processing error; they exit only
// once the queue is closed and drained.
func (p *Pool) loop(ctx context.Context, id int) {
	workerLogger := p.logger.With("worker_id", id)
	for {
		height, ok := p.queue.Dequeue()
		if !ok {
			workerLogger.Info("queue closed, worker exiting")
			return
		}

		if err := p.processHeight(ctx, height); err != nil {
			workerLogger.Errorw("failed to process height, re-enqueueing", "height", height, "error", err)
			if enqErr := p.queue.Enqueue(height); enqErr != nil {
				workerLogger.Errorw("failed to re-enqueue height, dropping", "height", height, "error", enqErr)
			}
		}
	}
}

// processHeight implements the fixed per-height ordering: validators →
// block → epoch-edge fan-out → pre-commits → per-tx in index order.
func (p *Pool) processHeight(ctx context.Context, height int64) error {
	var block *cmtcoretypes.ResultBlock
	var results *cmtcoretypes.ResultBlockResults
	var validatorPages []*cmtcoretypes.ResultValidators

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		block, err = p.node.Block(gctx, height)
		return err
	})
	g.Go(func() (err error) {
		results, err = p.node.BlockResults(gctx, height)
		return err
	})
	g.Go(func() (err error) {
		validatorPages, err = p.node.Validators(gctx, height)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if err := p.sink.SaveValidatorSet(ctx, flattenValidators(validatorPages)); err != nil {
		return err
	}

	blockRecord := buildBlockRecord(block, results)
	if err := p.sink.SaveBlock(ctx, blockRecord); err != nil {
		return err
	}

	if err := p.handleEpochEdge(ctx, height); err != nil {
		return err
	}

	if block.Block.LastCommit != nil {
		commits := buildPreCommits(block.Block.LastCommit, validatorPages, height)
		if err := p.sink.SavePreCommits(ctx, commits); err != nil {
			return err
		}
	}

	return p.processTransactions(ctx, height, block, results, blockRecord)
}

func (p *Pool) handleEpochEdge(ctx context.Context, height int64) error {
	epochValue, ok, err := p.node.Epoch(ctx, height)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if !p.tracker.Advance(epochValue) {
		return nil
	}
	for _, m := range p.modules {
		if err := m.HandleEpoch(ctx, height, epochValue); err != nil {
			return fmt.Errorf("module %s handle_epoch: %w", m.Name(), err)
		}
	}
	return nil
}

func (p *Pool) processTransactions(ctx context.Context, height int64, block *cmtcoretypes.ResultBlock, results *cmtcoretypes.ResultBlockResults, blockRecord model.Block) error {
	txsResults := results.TxsResults // may legitimately be nil; ranging over nil is a no-op

	for i, rawTx := range block.Block.Data.Txs {
		txHash := fmt.Sprintf("%X", cmttypes.Tx(rawTx).Hash())
		codeHash, payload := extractCodeSection(rawTx)

		success := false
		var gasWanted, gasUsed int64
		var rawLog string
		if i < len(txsResults) && txsResults[i] != nil {
			success = txsResults[i].Code == 0
			gasWanted = txsResults[i].GasWanted
			gasUsed = txsResults[i].GasUsed
			rawLog = txsResults[i].Log
		}

		txRecord := model.Transaction{
			Hash:      txHash,
			Height:    height,
			Success:   success,
			TxType:    model.TxTypeWrapper,
			GasWanted: gasWanted,
			GasUsed:   gasUsed,
			RawLog:    rawLog,
		}
		if err := p.sink.SaveTransaction(ctx, txRecord); err != nil {
			return err
		}

		if !success {
			continue
		}

		decoded, err := codec.Decode(p.checksums, codeHash, payload, txHash)
		if err != nil {
			p.logger.Errorw("failed to decode transaction", "height", height, "tx_hash", txHash, "error", err)
			continue
		}

		msg := model.Message{
			Height:      height,
			TxHash:      txHash,
			MessageType: decoded.MessageType,
			Value:       decoded.Value,
		}
		if err := p.sink.SaveMessage(ctx, msg); err != nil {
			return err
		}

		processed := modules.ProcessedMessage{
			Height:         height,
			TxHash:         txHash,
			BlockTimestamp: blockRecord.Timestamp,
			Kind:           decoded.MessageType,
			Value:          decoded.Value,
		}
		for _, m := range p.modules {
			if err := m.HandleMessage(ctx, processed); err != nil {
				return fmt.Errorf("module %s handle_message: %w", m.Name(), err)
			}
		}
	}
	return nil
}

// extractCodeSection is a stand-in for Namada's real tx-envelope parsing
// (out of scope here): it hashes a fixed-size prefix of the raw transaction
// to produce a lookup key for the checksum map, and treats the whole
// transaction as the payload handed to the typed decoders.
func extractCodeSection(rawTx []byte) (codeHashHex string, payload []byte) {
	prefixLen := len(rawTx)
	if prefixLen > 32 {
		prefixLen = 32
	}
	sum := sha256.Sum256(rawTx[:prefixLen])
	return codec.CodeHashHex(sum[:]), rawTx
}

func flattenValidators(pages []*cmtcoretypes.ResultValidators) []model.Validator {
	var out []model.Validator
	for _, page := range pages {
		for _, v := range page.Validators {
			out = append(out, model.Validator{
				ConsensusAddress: encodeAddress(v.Address),
				ConsensusPubkey:  v.PubKey.String(),
			})
		}
	}
	return out
}

func buildBlockRecord(block *cmtcoretypes.ResultBlock, results *cmtcoretypes.ResultBlockResults) model.Block {
	var totalGas int64
	for _, r := range results.TxsResults {
		if r != nil {
			totalGas += r.GasUsed
		}
	}
	return model.Block{
		Height:          block.Block.Height,
		Hash:            block.BlockID.Hash.String(),
		NumTxs:          int32(len(block.Block.Data.Txs)),
		TotalGas:        totalGas,
		ProposerAddress: encodeAddress(block.Block.ProposerAddress),
		Timestamp:       block.Block.Time,
	}
}

// buildPreCommits keeps only BlockIDFlagCommit signatures with a non-empty
// signature, resolving each signer's power/priority from the block's
// validator set; an unresolved signer records zeros rather than failing.
func buildPreCommits(lastCommit *cmttypes.Commit, validatorPages []*cmtcoretypes.ResultValidators, height int64) []model.PreCommit {
	powerByAddress := make(map[string]struct {
		power    int64
		priority int64
	})
	for _, page := range validatorPages {
		for _, v := range page.Validators {
			powerByAddress[encodeAddress(v.Address)] = struct {
				power    int64
				priority int64
			}{power: v.VotingPower, priority: v.ProposerPriority}
		}
	}

	var out []model.PreCommit
	for _, sig := range lastCommit.Signatures {
		if sig.BlockIDFlag != cmttypes.BlockIDFlagCommit || len(sig.Signature) == 0 {
			continue
		}
		addr := encodeAddress(sig.ValidatorAddress)
		entry := powerByAddress[addr]
		out = append(out, model.PreCommit{
			ValidatorAddress: addr,
			Height:           height,
			Timestamp:        sig.Timestamp,
			VotingPower:      entry.power,
			ProposerPriority: entry.priority,
		})
	}
	return out
}
