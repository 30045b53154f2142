package modules

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/model"
)

// governanceTallyInterval is how often the periodic tally task re-fetches
// results for every proposal currently accepting votes.
const governanceTallyInterval = 10 * time.Minute

// Governance reacts to proposal lifecycle messages, epoch edges that open
// or close voting windows, and a periodic tally refresh.
type Governance struct {
	node   NodeClient
	sink   Sink
	logger *zap.SugaredLogger
}

// NewGovernance builds the governance module.
func NewGovernance(node NodeClient, sink Sink, logger *zap.SugaredLogger) *Governance {
	return &Governance{node: node, sink: sink, logger: logger.Named("governance")}
}

func (g *Governance) Name() string { return "governance" }

// HandleMessage persists new proposals on tx_init_proposal and votes on
// tx_vote_proposal.
func (g *Governance) HandleMessage(ctx context.Context, msg ProcessedMessage) error {
	switch msg.Kind {
	case "tx_init_proposal":
		var payload struct {
			ID int32 `json:"id"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return err
		}
		proposal, ok, err := g.node.Proposal(ctx, payload.ID)
		if err != nil {
			return err
		}
		if !ok {
			g.logger.Warnw("proposal not found after tx_init_proposal", "id", payload.ID)
			return nil
		}
		return g.sink.SaveProposal(ctx, model.Proposal{
			ID:               proposal.ID,
			Title:            proposal.Title,
			Description:      proposal.Description,
			Metadata:         proposal.Metadata,
			Content:          proposal.Content,
			SubmitTime:       msg.BlockTimestamp,
			VotingStartEpoch: proposal.VotingStartEpoch,
			VotingEndEpoch:   proposal.VotingEndEpoch,
			GraceEpoch:       proposal.GraceEpoch,
			ProposerAddress:  proposal.Author,
			Status:           model.ProposalStatusInit,
			Height:           msg.Height,
		})

	case "tx_vote_proposal":
		var payload struct {
			ID    int32  `json:"id"`
			Voter string `json:"voter"`
			Vote  string `json:"vote"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			return err
		}
		return g.sink.SaveProposalVote(ctx, model.ProposalVote{
			ProposalID:   payload.ID,
			VoterAddress: payload.Voter,
			Option:       normalizeVoteOption(payload.Vote),
			Height:       msg.Height,
		})
	}
	return nil
}

// normalizeVoteOption maps Namada's yay/nay vocabulary onto the stored
// yes/no/abstain options, passing anything else through unchanged.
func normalizeVoteOption(raw string) model.VoteOption {
	switch raw {
	case "yay":
		return model.VoteOptionYes
	case "nay":
		return model.VoteOptionNo
	default:
		return model.VoteOption(raw)
	}
}

// HandleEpoch opens proposals whose voting window has started and tallies
// proposals whose voting window has closed.
func (g *Governance) HandleEpoch(ctx context.Context, height, epoch int64) error {
	pending, err := g.sink.LoadProposalsPendingTransition(ctx, epoch)
	if err != nil {
		return err
	}

	for _, p := range pending.ReadyToOpen {
		if err := g.sink.UpdateProposalStatus(ctx, p.ID, model.ProposalStatusVotingPeriod, height); err != nil {
			return err
		}
	}

	for _, p := range pending.ReadyToTally {
		if err := g.tallyAndClose(ctx, p.ID, height); err != nil {
			return err
		}
	}
	return nil
}

func (g *Governance) tallyAndClose(ctx context.Context, id int32, height int64) error {
	result, ok, err := g.node.ProposalResult(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if err := g.sink.SaveProposalTallyResult(ctx, model.ProposalTallyResult{
		ProposalID: id,
		TallyType:  result.TallyType,
		Total:      result.Total,
		Yes:        result.Yes,
		No:         result.No,
		Abstain:    result.Abstain,
		Height:     height,
	}); err != nil {
		return err
	}

	status := model.ProposalStatusRejected
	if result.Passed {
		status = model.ProposalStatusPassed
	}
	return g.sink.UpdateProposalStatus(ctx, id, status, height)
}

// RegisterPeriodic attaches the 10-minute tally refresh for every proposal
// currently in its voting period.
func (g *Governance) RegisterPeriodic(r Registrar) error {
	return r.Every("governance-tally", governanceTallyInterval, g.refreshOpenTallies)
}

func (g *Governance) refreshOpenTallies(ctx context.Context) error {
	ids, err := g.sink.ProposalsInVotingPeriod(ctx)
	if err != nil {
		return err
	}

	latest, ok, err := g.sink.LatestBlock(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for _, id := range ids {
		result, found, err := g.node.ProposalResult(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			continue
		}
		if err := g.sink.SaveProposalTallyResult(ctx, model.ProposalTallyResult{
			ProposalID: id,
			TallyType:  result.TallyType,
			Total:      result.Total,
			Yes:        result.Yes,
			No:         result.No,
			Abstain:    result.Abstain,
			Height:     latest.Height,
		}); err != nil {
			return err
		}
	}
	return nil
}
