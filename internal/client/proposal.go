package client

import (
	"context"
	"encoding/json"
)

// ProposalResponse is the raw shape of a governance proposal as returned by
// the node; nil fields mean the node didn't include that piece.
type ProposalResponse struct {
	ID               int32  `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Metadata         string `json:"metadata"`
	Content          json.RawMessage `json:"content"`
	VotingStartEpoch int64  `json:"voting_start_epoch"`
	VotingEndEpoch   int64  `json:"voting_end_epoch"`
	GraceEpoch       int64  `json:"grace_epoch"`
	Author           string `json:"author"`
}

// TallyResponse is the raw shape of a proposal's vote tally.
type TallyResponse struct {
	TallyType string `json:"tally_type"`
	Total     string `json:"total"`
	Yes       string `json:"yes"`
	No        string `json:"no"`
	Abstain   string `json:"abstain"`
	Passed    bool   `json:"passed"`
}

// Proposal fetches a governance proposal by id. A missing proposal is not an
// error (ProposalNotFound ⇒ None): the second return value is false.
func (n *Node) Proposal(ctx context.Context, id int32) (ProposalResponse, bool, error) {
	res, err := n.abciQuery(ctx, "/vp/governance/proposal", encodeID(id), 0)
	if err != nil {
		return ProposalResponse{}, false, err
	}
	if res == nil || len(res.Response.Value) == 0 {
		return ProposalResponse{}, false, nil
	}

	var p ProposalResponse
	if err := json.Unmarshal(res.Response.Value, &p); err != nil {
		return ProposalResponse{}, false, err
	}
	return p, true, nil
}

// ProposalResult fetches a proposal's current tally. A missing result is
// not an error: the second return value is false.
func (n *Node) ProposalResult(ctx context.Context, id int32) (TallyResponse, bool, error) {
	res, err := n.abciQuery(ctx, "/vp/governance/proposal/result", encodeID(id), 0)
	if err != nil {
		return TallyResponse{}, false, err
	}
	if res == nil || len(res.Response.Value) == 0 {
		return TallyResponse{}, false, nil
	}

	var t TallyResponse
	if err := json.Unmarshal(res.Response.Value, &t); err != nil {
		return TallyResponse{}, false, err
	}
	return t, true, nil
}

func encodeID(id int32) []byte {
	b, _ := json.Marshal(id)
	return b
}
