package model

import "github.com/shopspring/decimal"

// Validator is the insertion-only set of known consensus identities.
type Validator struct {
	ConsensusAddress string
	ConsensusPubkey  string
}

// ValidatorState mirrors Namada's bonded/inactive/jailed lifecycle states.
type ValidatorState string

const (
	ValidatorStateConsensus ValidatorState = "consensus"
	ValidatorStateBelowCap  ValidatorState = "below-capacity"
	ValidatorStateInactive  ValidatorState = "inactive"
	ValidatorStateJailed    ValidatorState = "jailed"
)

// ValidatorInfo is a height-gated time series keyed by validator address.
type ValidatorInfo struct {
	ValidatorAddress string
	State            ValidatorState
	Height           int64
}

// ValidatorVotingPower is a height-gated time series of bonded stake.
type ValidatorVotingPower struct {
	ValidatorAddress string
	VotingPower      int64
	Height           int64
}

// ValidatorCommission is a height-gated time series of commission rate.
type ValidatorCommission struct {
	ValidatorAddress string
	CommissionRate   decimal.Decimal
	Height           int64
}

// ValidatorStatus is a height-gated time series of the validator's state
// string (the same value ValidatorInfo.State holds).
type ValidatorStatus struct {
	ValidatorAddress string
	Status           string
	Height           int64
}

// ValidatorDescription is the height-gated metadata block a validator
// publishes about itself.
type ValidatorDescription struct {
	ValidatorAddress string
	Moniker          string
	Website          string
	Email            string
	DiscordHandle    string
	Avatar           string
	Description      string
	Height           int64
}

// ConsensusKey is the height-gated consensus public key currently bound to a
// validator address.
type ConsensusKey struct {
	ValidatorAddress string
	ConsensusPubkey  string
	Height           int64
}
