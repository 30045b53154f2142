package modules_test

import (
	"context"
	"testing"

	"github.com/cometbft/cometbft/crypto/ed25519"
	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/bech32"
	"github.com/blocklayer/namadexer/internal/client"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/testutil"
)

func oneValidatorPage(address string) []*cmtcoretypes.ResultValidators {
	pk := ed25519.GenPrivKeyFromSecret([]byte(address)).PubKey()
	return []*cmtcoretypes.ResultValidators{{
		Validators: []*cmttypes.Validator{{
			Address:          pk.Address(),
			PubKey:           pk,
			VotingPower:      100,
			ProposerPriority: 1,
		}},
		Total: 1,
	}}
}

func TestStaking_HandleEpoch_SkipsAbsentCommissionAndMetadata(t *testing.T) {
	pages := oneValidatorPage("validator-one")
	addr := bech32.EncodeValidatorAddress(pages[0].Validators[0].Address)

	node := &testutil.FakeNode{
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return pages, nil
		},
		ValidatorInfosFunc: func(ctx context.Context, epoch int64, addresses []string) ([]client.ValidatorDetail, error) {
			require.Equal(t, []string{addr}, addresses)
			return []client.ValidatorDetail{{
				Address:         addr,
				State:           "consensus",
				Stake:           500,
				HasCommission:   false,
				HasMetadata:     false,
				HasConsensusKey: true,
				ConsensusPubkey: "pubkey123",
			}}, nil
		},
	}
	sink := testutil.NewFakeSink()
	s := modules.NewStaking(node, sink, zap.NewNop().Sugar())

	require.NoError(t, s.HandleEpoch(context.Background(), 10, 2))

	require.Len(t, sink.Validators, 1)
	require.Contains(t, sink.ValidatorInfos, addr)
	assert.Equal(t, int64(500), sink.ValidatorVotingPowers[addr].VotingPower)
	assert.Empty(t, sink.ValidatorCommissions)
	assert.Empty(t, sink.ValidatorDescriptions)
	require.Contains(t, sink.ConsensusKeys, addr)
	assert.Equal(t, "pubkey123", sink.ConsensusKeys[addr].ConsensusPubkey)
}

func TestStaking_HandleEpoch_SavesCommissionAndMetadataWhenPresent(t *testing.T) {
	pages := oneValidatorPage("validator-two")
	addr := bech32.EncodeValidatorAddress(pages[0].Validators[0].Address)

	node := &testutil.FakeNode{
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return pages, nil
		},
		ValidatorInfosFunc: func(ctx context.Context, epoch int64, addresses []string) ([]client.ValidatorDetail, error) {
			return []client.ValidatorDetail{{
				Address:        addr,
				State:          "consensus",
				Stake:          500,
				HasCommission:  true,
				CommissionRate: decimal.NewFromFloat(0.05),
				HasMetadata:    true,
				Moniker:        "node-one",
			}}, nil
		},
	}
	sink := testutil.NewFakeSink()
	s := modules.NewStaking(node, sink, zap.NewNop().Sugar())

	require.NoError(t, s.HandleEpoch(context.Background(), 10, 2))

	require.Contains(t, sink.ValidatorCommissions, addr)
	require.Contains(t, sink.ValidatorDescriptions, addr)
	assert.Equal(t, "node-one", sink.ValidatorDescriptions[addr].Moniker)
	assert.Empty(t, sink.ConsensusKeys)
}

func TestStaking_HandleEpoch_NoValidatorsIsNoop(t *testing.T) {
	node := &testutil.FakeNode{
		ValidatorsFunc: func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
			return nil, nil
		},
	}
	sink := testutil.NewFakeSink()
	s := modules.NewStaking(node, sink, zap.NewNop().Sugar())

	require.NoError(t, s.HandleEpoch(context.Background(), 10, 2))
	assert.Empty(t, sink.Validators)
}

func TestStaking_HandleMessageAndRegisterPeriodic_AreNoops(t *testing.T) {
	s := modules.NewStaking(&testutil.FakeNode{}, testutil.NewFakeSink(), zap.NewNop().Sugar())
	require.NoError(t, s.HandleMessage(context.Background(), modules.ProcessedMessage{Kind: "tx_bond"}))
	require.NoError(t, s.RegisterPeriodic(nil))
	assert.Equal(t, "staking", s.Name())
}
