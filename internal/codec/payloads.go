package codec

import "encoding/json"

// The payload types below stand in for Namada's borsh-encoded wire formats.
// The real wire decoder is out of scope here; each type captures the fields
// the indexer's modules actually consume, and Decode fills them from the raw
// payload bytes via a thin wrapper (see decoder.go) rather than a byte-exact
// reimplementation of borsh.

// TransferPayload is a plain value transfer.
type TransferPayload struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Token    string `json:"token"`
	Amount   string `json:"amount"`
}

// BondPayload is a delegation/self-bond.
type BondPayload struct {
	Validator string `json:"validator"`
	Source    string `json:"source,omitempty"`
	Amount    string `json:"amount"`
}

// UnbondPayload is a request to unlock a bond.
type UnbondPayload struct {
	Validator string `json:"validator"`
	Source    string `json:"source,omitempty"`
	Amount    string `json:"amount"`
}

// WithdrawPayload claims an unbonded amount past its unbonding period.
type WithdrawPayload struct {
	Validator string `json:"validator"`
	Source    string `json:"source,omitempty"`
}

// InitProposalPayload submits a new governance proposal.
type InitProposalPayload struct {
	ID               int32  `json:"id"`
	Author           string `json:"author"`
	VotingStartEpoch int64  `json:"voting_start_epoch"`
	VotingEndEpoch   int64  `json:"voting_end_epoch"`
	GraceEpoch       int64  `json:"grace_epoch"`
}

// VoteProposalPayload casts a vote on an open proposal.
type VoteProposalPayload struct {
	ID     int32  `json:"id"`
	Voter  string `json:"voter"`
	Vote   string `json:"vote"`
}

// RevealPKPayload reveals the public key behind an implicit address.
type RevealPKPayload struct {
	PublicKey string `json:"public_key"`
}

// BecomeValidatorPayload registers a new validator.
type BecomeValidatorPayload struct {
	Address        string `json:"address"`
	ConsensusKey   string `json:"consensus_key"`
	CommissionRate string `json:"commission_rate"`
}

// ChangeValidatorCommissionPayload updates a validator's commission rate.
type ChangeValidatorCommissionPayload struct {
	Validator string `json:"validator"`
	NewRate   string `json:"new_rate"`
}

// ChangeValidatorMetadataPayload updates a validator's published metadata.
type ChangeValidatorMetadataPayload struct {
	Validator     string  `json:"validator"`
	Moniker       *string `json:"moniker,omitempty"`
	Website       *string `json:"website,omitempty"`
	Email         *string `json:"email,omitempty"`
	DiscordHandle *string `json:"discord_handle,omitempty"`
	Avatar        *string `json:"avatar,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// UnjailValidatorPayload requests removal of a jailed status.
type UnjailValidatorPayload struct {
	Validator string `json:"validator"`
}

func decodeJSON[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}
