package modules

import (
	"context"

	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/bech32"
	"github.com/blocklayer/namadexer/internal/model"
)

// Staking reacts to epoch edges by refreshing every validator's info,
// voting power, commission, status, description, and consensus key.
type Staking struct {
	node   NodeClient
	sink   Sink
	logger *zap.SugaredLogger
}

// NewStaking builds the staking module.
func NewStaking(node NodeClient, sink Sink, logger *zap.SugaredLogger) *Staking {
	return &Staking{node: node, sink: sink, logger: logger.Named("staking")}
}

func (s *Staking) Name() string { return "staking" }

// HandleEpoch refreshes validator state for the new epoch, in the order
// required: infos, voting powers, commissions (skipping absent), statuses
// (skipping absent), descriptions (skipping absent), then one consensus-key
// update per validator.
func (s *Staking) HandleEpoch(ctx context.Context, height, epoch int64) error {
	pages, err := s.node.Validators(ctx, height)
	if err != nil {
		return err
	}

	var addresses []string
	for _, page := range pages {
		for _, v := range page.Validators {
			addresses = append(addresses, bech32.EncodeValidatorAddress(v.Address))
		}
	}
	if len(addresses) == 0 {
		return nil
	}

	if err := s.sink.SaveValidatorSet(ctx, validatorSet(addresses, pages)); err != nil {
		return err
	}

	details, err := s.node.ValidatorInfos(ctx, epoch, addresses)
	if err != nil {
		return err
	}

	var infos []model.ValidatorInfo
	var powers []model.ValidatorVotingPower
	var commissions []model.ValidatorCommission
	var statuses []model.ValidatorStatus
	var descriptions []model.ValidatorDescription

	for _, d := range details {
		if d.State != "" {
			infos = append(infos, model.ValidatorInfo{
				ValidatorAddress: d.Address,
				State:            model.ValidatorState(d.State),
				Height:           height,
			})
			statuses = append(statuses, model.ValidatorStatus{
				ValidatorAddress: d.Address,
				Status:           d.State,
				Height:           height,
			})
		}
		powers = append(powers, model.ValidatorVotingPower{
			ValidatorAddress: d.Address,
			VotingPower:      d.Stake,
			Height:           height,
		})
		if d.HasCommission {
			commissions = append(commissions, model.ValidatorCommission{
				ValidatorAddress: d.Address,
				CommissionRate:   d.CommissionRate,
				Height:           height,
			})
		}
		if d.HasMetadata {
			descriptions = append(descriptions, model.ValidatorDescription{
				ValidatorAddress: d.Address,
				Moniker:          d.Moniker,
				Website:          d.Website,
				Email:            d.Email,
				DiscordHandle:    d.DiscordHandle,
				Avatar:           d.Avatar,
				Description:      d.Description,
				Height:           height,
			})
		}
	}

	if err := s.sink.SaveValidatorInfos(ctx, infos); err != nil {
		return err
	}
	if err := s.sink.SaveValidatorVotingPowers(ctx, powers); err != nil {
		return err
	}
	if err := s.sink.SaveValidatorCommissions(ctx, commissions); err != nil {
		return err
	}
	if err := s.sink.SaveValidatorStatuses(ctx, statuses); err != nil {
		return err
	}
	if err := s.sink.SaveValidatorDescriptions(ctx, descriptions); err != nil {
		return err
	}

	for _, d := range details {
		if !d.HasConsensusKey {
			continue
		}
		if err := s.sink.SaveConsensusKey(ctx, model.ConsensusKey{
			ValidatorAddress: d.Address,
			ConsensusPubkey:  d.ConsensusPubkey,
			Height:           height,
		}); err != nil {
			return err
		}
	}

	return nil
}

// HandleMessage is a no-op for staking: bond/unbond side effects surface
// through the next epoch's validator_infos refresh, not per-message.
func (s *Staking) HandleMessage(ctx context.Context, msg ProcessedMessage) error { return nil }

// RegisterPeriodic has nothing to attach; staking only reacts to epoch edges.
func (s *Staking) RegisterPeriodic(r Registrar) error { return nil }

func validatorSet(addresses []string, pages []*cmtcoretypes.ResultValidators) []model.Validator {
	out := make([]model.Validator, 0, len(addresses))
	for _, page := range pages {
		for _, v := range page.Validators {
			out = append(out, model.Validator{
				ConsensusAddress: bech32.EncodeValidatorAddress(v.Address),
				ConsensusPubkey:  v.PubKey.String(),
			})
		}
	}
	return out
}
