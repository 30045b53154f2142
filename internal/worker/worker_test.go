package worker

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/codec"
	"github.com/blocklayer/namadexer/internal/epoch"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/queue"
	"github.com/blocklayer/namadexer/internal/testutil"
)

func testAddress(b byte) cmttypes.Address {
	return cmttypes.Address(append([]byte{b}, make([]byte, 19)...))
}

func oneValidatorPage(power int64) []*cmtcoretypes.ResultValidators {
	pk := ed25519.GenPrivKeyFromSecret([]byte("validator-one")).PubKey()
	return []*cmtcoretypes.ResultValidators{{
		BlockHeight: 10,
		Validators: []*cmttypes.Validator{{
			Address:          pk.Address(),
			PubKey:           pk,
			VotingPower:      power,
			ProposerPriority: 1,
		}},
		Count: 1,
		Total: 1,
	}}
}

func simpleBlock(height int64, txs ...[]byte) *cmtcoretypes.ResultBlock {
	rawTxs := make(cmttypes.Txs, 0, len(txs))
	for _, tx := range txs {
		rawTxs = append(rawTxs, cmttypes.Tx(tx))
	}
	return &cmtcoretypes.ResultBlock{
		BlockID: cmttypes.BlockID{Hash: []byte{0xAB, 0xCD}},
		Block: &cmttypes.Block{
			Header: cmttypes.Header{
				Height:          height,
				Time:            time.Unix(1700000000, 0).UTC(),
				ProposerAddress: testAddress(0x01),
			},
			Data: cmttypes.Data{Txs: rawTxs},
		},
	}
}

func TestPool_ProcessHeight_NoLastCommitNoTxs(t *testing.T) {
	node := &testutil.FakeNode{
		BlockFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
			return simpleBlock(height), nil
		},
		BlockResultsFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
			return &cmtcoretypes.ResultBlockResults{Height: height}, nil
		},
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return oneValidatorPage(100), nil
		},
		EpochFunc: func(ctx context.Context, height int64) (int64, bool, error) {
			return 0, false, nil
		},
	}
	sink := testutil.NewFakeSink()
	cm := codec.NewChecksumMap(nil)

	p := New(queue.New(1, zap.NewNop().Sugar()), node, sink, cm, nil, epoch.NewTracker(), zap.NewNop().Sugar())

	require.NoError(t, p.processHeight(context.Background(), 10))

	require.Len(t, sink.Blocks, 1)
	assert.Equal(t, int64(10), sink.Blocks[0].Height)
	assert.Empty(t, sink.PreCommits)
	assert.Empty(t, sink.Transactions)
	require.Len(t, sink.Validators, 1)
}

func TestPool_ProcessHeight_EpochEdgeFiresModulesOnce(t *testing.T) {
	node := &testutil.FakeNode{
		BlockFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
			return simpleBlock(height), nil
		},
		BlockResultsFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
			return &cmtcoretypes.ResultBlockResults{Height: height}, nil
		},
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return oneValidatorPage(100), nil
		},
		EpochFunc: func(ctx context.Context, height int64) (int64, bool, error) {
			return 5, true, nil
		},
	}
	sink := testutil.NewFakeSink()
	cm := codec.NewChecksumMap(nil)
	tracker := epoch.NewTracker()

	mod := &countingModule{}
	p := New(queue.New(1, zap.NewNop().Sugar()), node, sink, cm, []modules.Module{mod}, tracker, zap.NewNop().Sugar())

	require.NoError(t, p.processHeight(context.Background(), 10))
	require.NoError(t, p.processHeight(context.Background(), 11))

	assert.Equal(t, 1, mod.epochCalls)
}

func TestPool_ProcessHeight_DecodesSuccessfulTxAndDrivesModules(t *testing.T) {
	// codec.Decode is handed the whole raw transaction as its payload, so the
	// fake transaction bytes are themselves the JSON the decoder expects.
	tx := []byte(`{"source":"src","target":"dst","token":"NAM","amount":"1"}`)

	node := &testutil.FakeNode{
		BlockFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
			return simpleBlock(height, tx), nil
		},
		BlockResultsFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
			return &cmtcoretypes.ResultBlockResults{
				Height: height,
				TxsResults: []*abcitypes.ExecTxResult{
					{Code: 0, GasWanted: 10, GasUsed: 5},
				},
			}, nil
		},
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return oneValidatorPage(100), nil
		},
		EpochFunc: func(ctx context.Context, height int64) (int64, bool, error) {
			return 0, false, nil
		},
	}
	sink := testutil.NewFakeSink()

	codeHash := codec.CodeHashHex(sha256Prefix(tx))
	cm := codec.NewChecksumMap(map[string]string{codeHash: "tx_transfer"})
	mod := &countingModule{}

	p := New(queue.New(1, zap.NewNop().Sugar()), node, sink, cm, []modules.Module{mod}, epoch.NewTracker(), zap.NewNop().Sugar())
	require.NoError(t, p.processHeight(context.Background(), 10))

	require.Len(t, sink.Transactions, 1)
	assert.True(t, sink.Transactions[0].Success)
	require.Len(t, sink.Messages, 1)
	assert.Equal(t, "tx_transfer", sink.Messages[0].MessageType)
	assert.Equal(t, 1, mod.messageCalls)
}

func TestLoop_ReEnqueuesOnFailureAndExitsWhenQueueClosed(t *testing.T) {
	attempts := 0
	node := &testutil.FakeNode{
		BlockFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
			attempts++
			if attempts == 1 {
				return nil, assert.AnError
			}
			return simpleBlock(height), nil
		},
		BlockResultsFunc: func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
			return &cmtcoretypes.ResultBlockResults{Height: height}, nil
		},
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return oneValidatorPage(100), nil
		},
		EpochFunc: func(ctx context.Context, height int64) (int64, bool, error) {
			return 0, false, nil
		},
	}
	sink := testutil.NewFakeSink()
	q := queue.New(4, zap.NewNop().Sugar())
	require.NoError(t, q.Enqueue(1))

	p := New(q, node, sink, codec.NewChecksumMap(nil), nil, epoch.NewTracker(), zap.NewNop().Sugar())

	done := make(chan struct{})
	go func() {
		p.Run(context.Background(), 1)
		close(done)
	}()

	assert.Eventually(t, func() bool { return sink.BlockCount() >= 1 }, 2*time.Second, 10*time.Millisecond)
	q.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not exit after queue close")
	}
	assert.GreaterOrEqual(t, attempts, 2)
}

type countingModule struct {
	epochCalls   int
	messageCalls int
}

func (m *countingModule) Name() string { return "counting" }
func (m *countingModule) HandleEpoch(ctx context.Context, height, epoch int64) error {
	m.epochCalls++
	return nil
}
func (m *countingModule) HandleMessage(ctx context.Context, msg modules.ProcessedMessage) error {
	m.messageCalls++
	return nil
}
func (m *countingModule) RegisterPeriodic(r modules.Registrar) error { return nil }

func sha256Prefix(rawTx []byte) []byte {
	prefixLen := len(rawTx)
	if prefixLen > 32 {
		prefixLen = 32
	}
	sum := sha256.Sum256(rawTx[:prefixLen])
	return sum[:]
}
