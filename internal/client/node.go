// Package client is the typed node client (C2): a thin wrapper over the
// chain's CometBFT RPC that the rest of the indexer talks to instead of the
// raw JSON-RPC envelope.
package client

import (
	"context"
	"encoding/json"
	"fmt"

	cmtclient "github.com/cometbft/cometbft/rpc/client"
	cmthttp "github.com/cometbft/cometbft/rpc/client/http"
	cmtcoretypes "github.com/cometbft/cometbft/rpc/core/types"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/errs"
)

// Node wraps a CometBFT JSON-RPC HTTP client with the operations namadexer
// needs: block/tx data through the standard RPC surface, chain-specific
// lookups (epoch, validator metadata, proposals) through ABCI queries.
type Node struct {
	rpc    cmtclient.Client
	logger *zap.SugaredLogger
}

// Dial builds a Node bound to the given RPC address (e.g.
// "http://localhost:26657").
func Dial(address, clientName string, logger *zap.SugaredLogger) (*Node, error) {
	c, err := cmthttp.NewWithClient(address, clientName, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: dialing %s: %v", errs.ErrNodeUnavailable, address, err)
	}
	return &Node{rpc: c, logger: logger.Named("node")}, nil
}

// LatestHeight returns the chain's current height from sync_info.
func (n *Node) LatestHeight(ctx context.Context) (int64, error) {
	status, err := n.rpc.Status(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: status: %v", errs.ErrNodeUnavailable, err)
	}
	return status.SyncInfo.LatestBlockHeight, nil
}

// Block fetches the block envelope at height.
func (n *Node) Block(ctx context.Context, height int64) (*cmtcoretypes.ResultBlock, error) {
	block, err := n.rpc.Block(ctx, &height)
	if err != nil {
		return nil, fmt.Errorf("%w: block(%d): %v", errs.ErrNodeUnavailable, height, err)
	}
	return block, nil
}

// BlockResults fetches block results at height. TxsResults may legitimately
// be nil; callers treat that as an empty list, not an error.
func (n *Node) BlockResults(ctx context.Context, height int64) (*cmtcoretypes.ResultBlockResults, error) {
	results, err := n.rpc.BlockResults(ctx, &height)
	if err != nil {
		return nil, fmt.Errorf("%w: block_results(%d): %v", errs.ErrNodeUnavailable, height, err)
	}
	return results, nil
}

// Validators fetches the full validator set at height, paging through the
// RPC's page/per_page cursor until every validator is collected.
func (n *Node) Validators(ctx context.Context, height int64) ([]*cmtcoretypes.ResultValidators, error) {
	const perPage = 100
	var all []*cmtcoretypes.ResultValidators

	page := 1
	for {
		pp := perPage
		pg := page
		res, err := n.rpc.Validators(ctx, &height, &pg, &pp)
		if err != nil {
			return nil, fmt.Errorf("%w: validators(%d) page %d: %v", errs.ErrNodeUnavailable, height, page, err)
		}
		all = append(all, res)
		if page*perPage >= res.Total {
			break
		}
		page++
	}
	return all, nil
}

// Epoch queries the epoch bound to a given height through an ABCI query,
// the way Namada-specific lookups that have no generic CometBFT RPC
// counterpart are resolved. EpochNotFound is not an error here; callers get
// (0, false, nil) and treat it as None.
func (n *Node) Epoch(ctx context.Context, height int64) (epoch int64, ok bool, err error) {
	res, err := n.abciQuery(ctx, "/shell/epoch", nil, height)
	if err != nil {
		return 0, false, err
	}
	if res == nil || len(res.Response.Value) == 0 {
		return 0, false, nil
	}
	if err := json.Unmarshal(res.Response.Value, &epoch); err != nil {
		return 0, false, fmt.Errorf("%w: decoding epoch response: %v", errs.ErrNodeUnavailable, err)
	}
	return epoch, true, nil
}

// abciQuery issues a raw ABCI query and returns nil (not an error) when the
// node reports a query-level failure, matching spec's "EpochNotFound /
// ProposalNotFound ⇒ None, not an error" rule.
func (n *Node) abciQuery(ctx context.Context, path string, data []byte, height int64) (*cmtcoretypes.ResultABCIQuery, error) {
	opts := cmtclient.ABCIQueryOptions{Height: height, Prove: false}
	res, err := n.rpc.ABCIQueryWithOptions(ctx, path, data, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: abci_query(%s): %v", errs.ErrNodeUnavailable, path, err)
	}
	if res.Response.IsErr() {
		return nil, nil
	}
	return res, nil
}
