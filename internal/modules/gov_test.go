package modules_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/client"
	"github.com/blocklayer/namadexer/internal/model"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/testutil"
)

func TestGovernance_HandleMessage_InitProposalPersistsFetchedDetail(t *testing.T) {
	node := &testutil.FakeNode{
		ProposalFunc: func(ctx context.Context, id int32) (client.ProposalResponse, bool, error) {
			require.Equal(t, int32(7), id)
			return client.ProposalResponse{
				ID: 7, Title: "Raise staking cap", Author: "validator-a",
				VotingStartEpoch: 5, VotingEndEpoch: 10, GraceEpoch: 12,
			}, true, nil
		},
	}
	sink := testutil.NewFakeSink()
	g := modules.NewGovernance(node, sink, zap.NewNop().Sugar())

	payload, err := json.Marshal(struct {
		ID int32 `json:"id"`
	}{ID: 7})
	require.NoError(t, err)

	err = g.HandleMessage(context.Background(), modules.ProcessedMessage{
		Kind: "tx_init_proposal", Height: 100, BlockTimestamp: time.Unix(1700000000, 0), Value: payload,
	})
	require.NoError(t, err)

	require.Contains(t, sink.Proposals, int32(7))
	p := sink.Proposals[7]
	assert.Equal(t, "Raise staking cap", p.Title)
	assert.Equal(t, model.ProposalStatusInit, p.Status)
	assert.Equal(t, int64(100), p.Height)
}

func TestGovernance_HandleMessage_InitProposalNotFoundIsNotAnError(t *testing.T) {
	node := &testutil.FakeNode{
		ProposalFunc: func(ctx context.Context, id int32) (client.ProposalResponse, bool, error) {
			return client.ProposalResponse{}, false, nil
		},
	}
	sink := testutil.NewFakeSink()
	g := modules.NewGovernance(node, sink, zap.NewNop().Sugar())

	payload, _ := json.Marshal(struct {
		ID int32 `json:"id"`
	}{ID: 9})
	require.NoError(t, g.HandleMessage(context.Background(), modules.ProcessedMessage{Kind: "tx_init_proposal", Value: payload}))
	assert.Empty(t, sink.Proposals)
}

func TestGovernance_HandleMessage_VoteNormalizesYayNay(t *testing.T) {
	sink := testutil.NewFakeSink()
	g := modules.NewGovernance(&testutil.FakeNode{}, sink, zap.NewNop().Sugar())

	payload, _ := json.Marshal(struct {
		ID    int32  `json:"id"`
		Voter string `json:"voter"`
		Vote  string `json:"vote"`
	}{ID: 1, Voter: "voter-a", Vote: "yay"})

	require.NoError(t, g.HandleMessage(context.Background(), modules.ProcessedMessage{Kind: "tx_vote_proposal", Height: 5, Value: payload}))

	key := [2]string{"1", "voter-a"}
	require.Contains(t, sink.ProposalVotes, key)
	assert.Equal(t, model.VoteOptionYes, sink.ProposalVotes[key].Option)
}

func TestGovernance_HandleEpoch_OpensAndTalliesProposals(t *testing.T) {
	sink := testutil.NewFakeSink()
	sink.Proposals[1] = model.Proposal{ID: 1, Status: model.ProposalStatusInit, VotingStartEpoch: 5, VotingEndEpoch: 10, Height: 1}
	sink.Proposals[2] = model.Proposal{ID: 2, Status: model.ProposalStatusVotingPeriod, VotingStartEpoch: 1, VotingEndEpoch: 5, Height: 1}

	node := &testutil.FakeNode{
		ProposalResultFunc: func(ctx context.Context, id int32) (client.TallyResponse, bool, error) {
			require.Equal(t, int32(2), id)
			return client.TallyResponse{TallyType: "two-thirds", Total: "100", Yes: "80", No: "20", Passed: true}, true, nil
		},
	}
	g := modules.NewGovernance(node, sink, zap.NewNop().Sugar())

	require.NoError(t, g.HandleEpoch(context.Background(), 50, 6))

	assert.Equal(t, model.ProposalStatusVotingPeriod, sink.Proposals[1].Status)
	assert.Equal(t, model.ProposalStatusPassed, sink.Proposals[2].Status)
	require.Contains(t, sink.ProposalTallyResults, int32(2))
}

func TestGovernance_RefreshOpenTallies_SkipsMissingResults(t *testing.T) {
	sink := testutil.NewFakeSink()
	sink.Proposals[3] = model.Proposal{ID: 3, Status: model.ProposalStatusVotingPeriod}
	require.NoError(t, sink.SaveBlock(context.Background(), model.Block{Height: 99, Timestamp: time.Now()}))

	calls := 0
	node := &testutil.FakeNode{
		ProposalResultFunc: func(ctx context.Context, id int32) (client.TallyResponse, bool, error) {
			calls++
			return client.TallyResponse{}, false, nil
		},
	}
	g := modules.NewGovernance(node, sink, zap.NewNop().Sugar())

	reg := &fakeRegistrar{everyFunc: func(name string, interval time.Duration, fn func(context.Context) error) error {
		return fn(context.Background())
	}}
	require.NoError(t, g.RegisterPeriodic(reg))

	assert.Equal(t, 1, calls)
	assert.Empty(t, sink.ProposalTallyResults)
}

type fakeRegistrar struct {
	everyFunc func(name string, interval time.Duration, fn func(context.Context) error) error
}

func (f *fakeRegistrar) Every(name string, interval time.Duration, fn func(context.Context) error) error {
	return f.everyFunc(name, interval, fn)
}
