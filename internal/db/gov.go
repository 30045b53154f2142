package db

import (
	"context"

	"github.com/blocklayer/namadexer/internal/model"
)

// SaveProposal height-gated upserts a governance proposal keyed by id.
func (s *Sink) SaveProposal(ctx context.Context, p model.Proposal) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO proposals
			(id, title, description, metadata, content, submit_time, voting_start_epoch,
			 voting_end_epoch, grace_epoch, proposer_address, status, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE
			SET title = EXCLUDED.title, description = EXCLUDED.description,
				metadata = EXCLUDED.metadata, content = EXCLUDED.content,
				submit_time = EXCLUDED.submit_time, voting_start_epoch = EXCLUDED.voting_start_epoch,
				voting_end_epoch = EXCLUDED.voting_end_epoch, grace_epoch = EXCLUDED.grace_epoch,
				proposer_address = EXCLUDED.proposer_address, status = EXCLUDED.status,
				height = EXCLUDED.height
			WHERE proposals.height <= EXCLUDED.height
	`, p.ID, p.Title, p.Description, p.Metadata, p.Content, p.SubmitTime, p.VotingStartEpoch,
		p.VotingEndEpoch, p.GraceEpoch, p.ProposerAddress, p.Status, p.Height)
	return err
}

// SaveProposalVote height-gated upserts a vote keyed by (proposal_id, voter_address).
func (s *Sink) SaveProposalVote(ctx context.Context, v model.ProposalVote) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO proposal_votes (proposal_id, voter_address, option, height)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (proposal_id, voter_address) DO UPDATE
			SET option = EXCLUDED.option, height = EXCLUDED.height
			WHERE proposal_votes.height <= EXCLUDED.height
	`, v.ProposalID, v.VoterAddress, v.Option, v.Height)
	return err
}

// SaveProposalTallyResult height-gated upserts a tally keyed by proposal id.
func (s *Sink) SaveProposalTallyResult(ctx context.Context, t model.ProposalTallyResult) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO proposal_tally_results (proposal_id, tally_type, total, yes, no, abstain, height)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (proposal_id) DO UPDATE
			SET tally_type = EXCLUDED.tally_type, total = EXCLUDED.total, yes = EXCLUDED.yes,
				no = EXCLUDED.no, abstain = EXCLUDED.abstain, height = EXCLUDED.height
			WHERE proposal_tally_results.height <= EXCLUDED.height
	`, t.ProposalID, t.TallyType, t.Total, t.Yes, t.No, t.Abstain, t.Height)
	return err
}

// ProposalsPendingTransition returns the ids+metadata needed by the
// governance module's handle_epoch step: INIT proposals whose voting has
// started, and open proposals whose voting has ended.
type ProposalsPendingTransition struct {
	ReadyToOpen  []model.Proposal
	ReadyToTally []model.Proposal
}

// LoadProposalsPendingTransition fetches the two proposal sets the
// governance module needs to react to an epoch edge.
func (s *Sink) LoadProposalsPendingTransition(ctx context.Context, epoch int64) (ProposalsPendingTransition, error) {
	var out ProposalsPendingTransition

	openRows, err := s.pool.Query(ctx, `
		SELECT id, voting_start_epoch, voting_end_epoch, grace_epoch, status, height
		FROM proposals WHERE status = $1 AND voting_start_epoch <= $2
	`, model.ProposalStatusInit, epoch)
	if err != nil {
		return out, err
	}
	for openRows.Next() {
		var p model.Proposal
		if err := openRows.Scan(&p.ID, &p.VotingStartEpoch, &p.VotingEndEpoch, &p.GraceEpoch, &p.Status, &p.Height); err != nil {
			openRows.Close()
			return out, err
		}
		out.ReadyToOpen = append(out.ReadyToOpen, p)
	}
	openRows.Close()
	if err := openRows.Err(); err != nil {
		return out, err
	}

	tallyRows, err := s.pool.Query(ctx, `
		SELECT id, voting_start_epoch, voting_end_epoch, grace_epoch, status, height
		FROM proposals
		WHERE voting_end_epoch <= $1 AND status NOT IN ($2, $3)
	`, epoch, model.ProposalStatusPassed, model.ProposalStatusRejected)
	if err != nil {
		return out, err
	}
	defer tallyRows.Close()
	for tallyRows.Next() {
		var p model.Proposal
		if err := tallyRows.Scan(&p.ID, &p.VotingStartEpoch, &p.VotingEndEpoch, &p.GraceEpoch, &p.Status, &p.Height); err != nil {
			return out, err
		}
		out.ReadyToTally = append(out.ReadyToTally, p)
	}
	return out, tallyRows.Err()
}

// ProposalsInVotingPeriod returns every proposal currently accepting votes,
// for the governance module's periodic tally task.
func (s *Sink) ProposalsInVotingPeriod(ctx context.Context) ([]int32, error) {
	rows, err := s.pool.Query(ctx, `SELECT id FROM proposals WHERE status = $1`, model.ProposalStatusVotingPeriod)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateProposalStatus transitions a proposal's status, honoring the same
// height gate as the other upserts.
func (s *Sink) UpdateProposalStatus(ctx context.Context, id int32, status model.ProposalStatus, height int64) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE proposals SET status = $2, height = $3 WHERE id = $1 AND height <= $3
	`, id, status, height)
	return err
}
