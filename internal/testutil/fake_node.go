// Package testutil provides in-memory doubles for the node client and
// persistence layer so worker and module tests run against canned data
// instead of a live RPC endpoint or Postgres instance.
package testutil

import (
	"context"
	"fmt"

	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"

	"github.com/blocklayer/namadexer/internal/client"
)

// FakeNode is a test double for the node client surface the worker pool and
// domain modules depend on. Each method delegates to a settable function
// field. Block, BlockResults, and Validators panic with a message naming the
// missing stub when their field is nil; Epoch, ValidatorInfos, Proposal, and
// ProposalResult return zero values and ok=false (not found) instead.
type FakeNode struct {
	BlockFunc          func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error)
	BlockResultsFunc   func(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error)
	ValidatorsFunc     func(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error)
	EpochFunc          func(ctx context.Context, height int64) (int64, bool, error)
	ValidatorInfosFunc func(ctx context.Context, epoch int64, addresses []string) ([]client.ValidatorDetail, error)
	ProposalFunc       func(ctx context.Context, id int32) (client.ProposalResponse, bool, error)
	ProposalResultFunc func(ctx context.Context, id int32) (client.TallyResponse, bool, error)
}

func (f *FakeNode) Block(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
	if f.BlockFunc == nil {
		panic(fmt.Sprintf("testutil.FakeNode: BlockFunc not set (height %d)", height))
	}
	return f.BlockFunc(ctx, height)
}

func (f *FakeNode) BlockResults(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
	if f.BlockResultsFunc == nil {
		panic(fmt.Sprintf("testutil.FakeNode: BlockResultsFunc not set (height %d)", height))
	}
	return f.BlockResultsFunc(ctx, height)
}

func (f *FakeNode) Validators(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
	if f.ValidatorsFunc == nil {
		panic(fmt.Sprintf("testutil.FakeNode: ValidatorsFunc not set (height %d)", height))
	}
	return f.ValidatorsFunc(ctx, height)
}

func (f *FakeNode) Epoch(ctx context.Context, height int64) (int64, bool, error) {
	if f.EpochFunc == nil {
		return 0, false, nil
	}
	return f.EpochFunc(ctx, height)
}

func (f *FakeNode) ValidatorInfos(ctx context.Context, epoch int64, addresses []string) ([]client.ValidatorDetail, error) {
	if f.ValidatorInfosFunc == nil {
		return nil, nil
	}
	return f.ValidatorInfosFunc(ctx, epoch, addresses)
}

func (f *FakeNode) Proposal(ctx context.Context, id int32) (client.ProposalResponse, bool, error) {
	if f.ProposalFunc == nil {
		return client.ProposalResponse{}, false, nil
	}
	return f.ProposalFunc(ctx, id)
}

func (f *FakeNode) ProposalResult(ctx context.Context, id int32) (client.TallyResponse, bool, error) {
	if f.ProposalResultFunc == nil {
		return client.TallyResponse{}, false, nil
	}
	return f.ProposalResultFunc(ctx, id)
}
