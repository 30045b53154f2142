// Package modules implements the domain reactions (staking, governance,
// consensus-time) that the worker pool and scheduler drive: epoch edges,
// decoded messages, and periodic timer ticks.
package modules

import (
	"context"
	"time"

	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"

	"github.com/blocklayer/namadexer/internal/client"
	"github.com/blocklayer/namadexer/internal/db"
	"github.com/blocklayer/namadexer/internal/model"
)

// ProcessedMessage is a successfully-decoded message belonging to a
// successful transaction, handed to every module's HandleMessage.
type ProcessedMessage struct {
	Height         int64
	TxHash         string
	BlockTimestamp time.Time
	Kind           string
	Value          []byte
}

// Registrar is the subset of the periodic scheduler a module needs to
// attach timer-driven tasks at startup, kept as a narrow interface here so
// this package doesn't import the scheduler package directly.
type Registrar interface {
	Every(name string, interval time.Duration, fn func(ctx context.Context) error) error
}

// Module is the capability set every domain module implements.
type Module interface {
	Name() string
	HandleEpoch(ctx context.Context, height, epoch int64) error
	HandleMessage(ctx context.Context, msg ProcessedMessage) error
	RegisterPeriodic(r Registrar) error
}

// NodeClient is the subset of *client.Node the staking and governance
// modules query, kept as an interface so their tests can drive a fake
// instead of a live RPC endpoint.
type NodeClient interface {
	Validators(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error)
	ValidatorInfos(ctx context.Context, epoch int64, addresses []string) ([]client.ValidatorDetail, error)
	Proposal(ctx context.Context, id int32) (client.ProposalResponse, bool, error)
	ProposalResult(ctx context.Context, id int32) (client.TallyResponse, bool, error)
}

// Sink is the subset of *db.Sink the staking, governance, and
// consensus-time modules write through and query.
type Sink interface {
	SaveValidatorSet(ctx context.Context, validators []model.Validator) error
	SaveValidatorInfos(ctx context.Context, infos []model.ValidatorInfo) error
	SaveValidatorVotingPowers(ctx context.Context, powers []model.ValidatorVotingPower) error
	SaveValidatorCommissions(ctx context.Context, commissions []model.ValidatorCommission) error
	SaveValidatorStatuses(ctx context.Context, statuses []model.ValidatorStatus) error
	SaveValidatorDescriptions(ctx context.Context, descs []model.ValidatorDescription) error
	SaveConsensusKey(ctx context.Context, key model.ConsensusKey) error

	SaveProposal(ctx context.Context, p model.Proposal) error
	SaveProposalVote(ctx context.Context, v model.ProposalVote) error
	SaveProposalTallyResult(ctx context.Context, t model.ProposalTallyResult) error
	LoadProposalsPendingTransition(ctx context.Context, epoch int64) (db.ProposalsPendingTransition, error)
	ProposalsInVotingPeriod(ctx context.Context) ([]int32, error)
	UpdateProposalStatus(ctx context.Context, id int32, status model.ProposalStatus, height int64) error

	SaveAverageBlockTimeHour(ctx context.Context, v model.AverageBlockTimeHour) error
	SaveAverageBlockTimeDay(ctx context.Context, v model.AverageBlockTimeDay) error
	LatestBlock(ctx context.Context) (model.Block, bool, error)
	BlockBefore(ctx context.Context, cutoff time.Time) (model.Block, bool, error)
}
