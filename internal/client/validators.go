package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/blocklayer/namadexer/internal/errs"
)

// validatorInfoChunkSize bounds how many validators are queried concurrently
// per round, so a large validator set doesn't fire hundreds of in-flight
// ABCI queries at once.
const validatorInfoChunkSize = 20

// ValidatorDetail is the joined result of the four per-validator sub-queries
// the staking module needs for one epoch.
type ValidatorDetail struct {
	Address         string
	State           string
	Stake           int64
	HasCommission   bool
	CommissionRate  decimal.Decimal
	HasMetadata     bool
	Moniker         string
	Website         string
	Email           string
	DiscordHandle   string
	Avatar          string
	Description     string
	HasConsensusKey bool
	ConsensusPubkey string
}

// ValidatorInfos fans out the per-validator detail join in chunks of
// validatorInfoChunkSize, processed sequentially so the in-flight RPC count
// stays bounded. A failure in any validator's sub-queries fails the whole
// call: no partial result is returned.
func (n *Node) ValidatorInfos(ctx context.Context, epoch int64, addresses []string) ([]ValidatorDetail, error) {
	var out []ValidatorDetail

	for start := 0; start < len(addresses); start += validatorInfoChunkSize {
		end := start + validatorInfoChunkSize
		if end > len(addresses) {
			end = len(addresses)
		}
		chunk := addresses[start:end]

		details := make([]ValidatorDetail, len(chunk))
		g, gctx := errgroup.WithContext(ctx)
		for i, addr := range chunk {
			i, addr := i, addr
			g.Go(func() error {
				d, err := n.validatorDetail(gctx, epoch, addr)
				if err != nil {
					return err
				}
				details[i] = d
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		out = append(out, details...)
	}

	return out, nil
}

// validatorDetail joins state, stake, metadata+commission, and consensus key
// for one validator. All four sub-queries must succeed, or the whole entry
// fails (all-or-fail semantics, modeled directly by errgroup's
// first-error-wins behavior).
func (n *Node) validatorDetail(ctx context.Context, epoch int64, address string) (ValidatorDetail, error) {
	detail := ValidatorDetail{Address: address}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		res, err := n.abciQuery(gctx, "/vp/pos/validator/state", []byte(address), epoch)
		if err != nil {
			return err
		}
		if res == nil || len(res.Response.Value) == 0 {
			return nil
		}
		return json.Unmarshal(res.Response.Value, &detail.State)
	})

	g.Go(func() error {
		res, err := n.abciQuery(gctx, "/vp/pos/validator/stake", []byte(address), epoch)
		if err != nil {
			return err
		}
		if res == nil || len(res.Response.Value) == 0 {
			return nil
		}
		return json.Unmarshal(res.Response.Value, &detail.Stake)
	})

	g.Go(func() error {
		res, err := n.abciQuery(gctx, "/vp/pos/validator/metadata", []byte(address), epoch)
		if err != nil {
			return err
		}
		if res == nil || len(res.Response.Value) == 0 {
			return nil
		}
		var meta struct {
			CommissionRate *decimal.Decimal `json:"commission_rate"`
			Moniker        string            `json:"moniker"`
			Website        string            `json:"website"`
			Email          string            `json:"email"`
			DiscordHandle  string            `json:"discord_handle"`
			Avatar         string            `json:"avatar"`
			Description    string            `json:"description"`
		}
		if err := json.Unmarshal(res.Response.Value, &meta); err != nil {
			return err
		}
		if meta.CommissionRate != nil {
			detail.HasCommission = true
			detail.CommissionRate = *meta.CommissionRate
		}
		detail.HasMetadata = true
		detail.Moniker = meta.Moniker
		detail.Website = meta.Website
		detail.Email = meta.Email
		detail.DiscordHandle = meta.DiscordHandle
		detail.Avatar = meta.Avatar
		detail.Description = meta.Description
		return nil
	})

	g.Go(func() error {
		res, err := n.abciQuery(gctx, "/vp/pos/validator/consensus_key", []byte(address), epoch)
		if err != nil {
			return err
		}
		if res == nil || len(res.Response.Value) == 0 {
			return nil
		}
		detail.HasConsensusKey = true
		return json.Unmarshal(res.Response.Value, &detail.ConsensusPubkey)
	})

	if err := g.Wait(); err != nil {
		return ValidatorDetail{}, fmt.Errorf("%w: validator %s: %v", errs.ErrNodeUnavailable, address, err)
	}
	return detail, nil
}
