package db

import (
	"context"

	"github.com/blocklayer/namadexer/internal/model"
)

// SaveValidatorInfos height-gated upserts a batch of validator states in a
// single round trip.
func (s *Sink) SaveValidatorInfos(ctx context.Context, infos []model.ValidatorInfo) error {
	if len(infos) == 0 {
		return nil
	}
	addresses := make([]string, len(infos))
	states := make([]string, len(infos))
	heights := make([]int64, len(infos))
	for i, v := range infos {
		addresses[i] = v.ValidatorAddress
		states[i] = string(v.State)
		heights[i] = v.Height
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validator_infos (validator_address, state, height)
		SELECT u.validator_address, u.state, u.height
		FROM UNNEST($1::text[], $2::text[], $3::bigint[]) AS u(validator_address, state, height)
		ON CONFLICT (validator_address) DO UPDATE
			SET state = EXCLUDED.state, height = EXCLUDED.height
			WHERE validator_infos.height <= EXCLUDED.height
	`, addresses, states, heights)
	return err
}

// SaveValidatorVotingPowers height-gated upserts a batch of voting powers.
func (s *Sink) SaveValidatorVotingPowers(ctx context.Context, powers []model.ValidatorVotingPower) error {
	if len(powers) == 0 {
		return nil
	}
	addresses := make([]string, len(powers))
	values := make([]int64, len(powers))
	heights := make([]int64, len(powers))
	for i, p := range powers {
		addresses[i] = p.ValidatorAddress
		values[i] = p.VotingPower
		heights[i] = p.Height
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validator_voting_powers (validator_address, voting_power, height)
		SELECT u.validator_address, u.voting_power, u.height
		FROM UNNEST($1::text[], $2::bigint[], $3::bigint[]) AS u(validator_address, voting_power, height)
		ON CONFLICT (validator_address) DO UPDATE
			SET voting_power = EXCLUDED.voting_power, height = EXCLUDED.height
			WHERE validator_voting_powers.height <= EXCLUDED.height
	`, addresses, values, heights)
	return err
}

// SaveValidatorCommissions height-gated upserts a batch of commission rates.
// Callers skip entries whose commission is absent before calling this.
func (s *Sink) SaveValidatorCommissions(ctx context.Context, commissions []model.ValidatorCommission) error {
	if len(commissions) == 0 {
		return nil
	}
	addresses := make([]string, len(commissions))
	rates := make([]string, len(commissions))
	heights := make([]int64, len(commissions))
	for i, c := range commissions {
		addresses[i] = c.ValidatorAddress
		rates[i] = c.CommissionRate.String()
		heights[i] = c.Height
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validator_commissions (validator_address, commission_rate, height)
		SELECT u.validator_address, u.commission_rate::numeric, u.height
		FROM UNNEST($1::text[], $2::text[], $3::bigint[]) AS u(validator_address, commission_rate, height)
		ON CONFLICT (validator_address) DO UPDATE
			SET commission_rate = EXCLUDED.commission_rate, height = EXCLUDED.height
			WHERE validator_commissions.height <= EXCLUDED.height
	`, addresses, rates, heights)
	return err
}

// SaveValidatorStatuses height-gated upserts a batch of status flags.
// Callers skip entries whose status is absent before calling this.
func (s *Sink) SaveValidatorStatuses(ctx context.Context, statuses []model.ValidatorStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	addresses := make([]string, len(statuses))
	values := make([]string, len(statuses))
	heights := make([]int64, len(statuses))
	for i, st := range statuses {
		addresses[i] = st.ValidatorAddress
		values[i] = st.Status
		heights[i] = st.Height
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validator_statuses (validator_address, status, height)
		SELECT u.validator_address, u.status, u.height
		FROM UNNEST($1::text[], $2::text[], $3::bigint[]) AS u(validator_address, status, height)
		ON CONFLICT (validator_address) DO UPDATE
			SET status = EXCLUDED.status, height = EXCLUDED.height
			WHERE validator_statuses.height <= EXCLUDED.height
	`, addresses, values, heights)
	return err
}

// SaveValidatorDescriptions height-gated upserts a batch of metadata blocks.
// Callers skip entries whose description is absent before calling this.
func (s *Sink) SaveValidatorDescriptions(ctx context.Context, descs []model.ValidatorDescription) error {
	if len(descs) == 0 {
		return nil
	}
	addresses := make([]string, len(descs))
	monikers := make([]string, len(descs))
	websites := make([]string, len(descs))
	emails := make([]string, len(descs))
	discords := make([]string, len(descs))
	avatars := make([]string, len(descs))
	descriptions := make([]string, len(descs))
	heights := make([]int64, len(descs))
	for i, d := range descs {
		addresses[i] = d.ValidatorAddress
		monikers[i] = d.Moniker
		websites[i] = d.Website
		emails[i] = d.Email
		discords[i] = d.DiscordHandle
		avatars[i] = d.Avatar
		descriptions[i] = d.Description
		heights[i] = d.Height
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO validator_descriptions
			(validator_address, moniker, website, email, discord_handle, avatar, description, height)
		SELECT u.validator_address, u.moniker, u.website, u.email, u.discord_handle, u.avatar, u.description, u.height
		FROM UNNEST($1::text[], $2::text[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[], $8::bigint[])
			AS u(validator_address, moniker, website, email, discord_handle, avatar, description, height)
		ON CONFLICT (validator_address) DO UPDATE
			SET moniker = EXCLUDED.moniker, website = EXCLUDED.website, email = EXCLUDED.email,
				discord_handle = EXCLUDED.discord_handle, avatar = EXCLUDED.avatar,
				description = EXCLUDED.description, height = EXCLUDED.height
			WHERE validator_descriptions.height <= EXCLUDED.height
	`, addresses, monikers, websites, emails, discords, avatars, descriptions, heights)
	return err
}

// SaveConsensusKey height-gated upserts a single validator's bound consensus
// key. One UPDATE statement per key, per the staking module's contract.
func (s *Sink) SaveConsensusKey(ctx context.Context, key model.ConsensusKey) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO consensus_keys (validator_address, consensus_pubkey, height)
		VALUES ($1, $2, $3)
		ON CONFLICT (validator_address) DO UPDATE
			SET consensus_pubkey = EXCLUDED.consensus_pubkey, height = EXCLUDED.height
			WHERE consensus_keys.height <= EXCLUDED.height
	`, key.ValidatorAddress, key.ConsensusPubkey, key.Height)
	return err
}
