package model

import "time"

// ProposalStatus enumerates the strictly forward-moving lifecycle of a
// governance proposal.
type ProposalStatus string

const (
	ProposalStatusInit         ProposalStatus = "INIT"
	ProposalStatusVotingPeriod ProposalStatus = "VOTING_PERIOD"
	ProposalStatusPassed       ProposalStatus = "PASSED"
	ProposalStatusRejected     ProposalStatus = "REJECTED"
)

// VoteOption enumerates the normalized vote choices.
type VoteOption string

const (
	VoteOptionYes     VoteOption = "yes"
	VoteOptionNo      VoteOption = "no"
	VoteOptionAbstain VoteOption = "abstain"
)

// Proposal is a height-gated upsert keyed by proposal id.
type Proposal struct {
	ID                int32
	Title             string
	Description       string
	Metadata          string
	Content           []byte // structured JSON
	SubmitTime        time.Time
	VotingStartEpoch  int64
	VotingEndEpoch    int64
	GraceEpoch        int64
	ProposerAddress   string
	Status            ProposalStatus
	Height            int64
}

// ProposalVote is a height-gated upsert keyed by (proposal_id, voter_address).
type ProposalVote struct {
	ProposalID   int32
	VoterAddress string
	Option       VoteOption
	Height       int64
}

// ProposalTallyResult is a height-gated upsert keyed by proposal id.
type ProposalTallyResult struct {
	ProposalID int32
	TallyType  string
	Total      string
	Yes        string
	No         string
	Abstain    string
	Height     int64
}

// TallyVerdict is the outcome a proposal_result RPC call resolves to.
type TallyVerdict string

const (
	TallyVerdictPassed   TallyVerdict = "passed"
	TallyVerdictRejected TallyVerdict = "rejected"
)
