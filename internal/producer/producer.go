// Package producer is the block producer (C6): it discovers which heights
// need processing from the node's current height and feeds them into the
// bounded queue, logging and continuing past a failed poll.
package producer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/queue"
)

// tailPollInterval is how long the tail phase sleeps between latest_height
// checks. A var, not a const, so tests can shrink it instead of waiting out
// the real 5 seconds.
var tailPollInterval = 5 * time.Second

// NodeClient is the subset of *client.Node the producer needs.
type NodeClient interface {
	LatestHeight(ctx context.Context) (int64, error)
}

// Producer discovers block heights and submits them to the queue, in two
// phases: an optional one-shot backfill over a known range, and an optional
// tail phase that polls for newly produced heights forever.
type Producer struct {
	node  NodeClient
	queue *queue.HeightQueue

	startHeight     int64
	backfillEnabled bool
	tailEnabled     bool

	highWaterMark int64 // last height handed to the queue; startHeight-1 if none yet

	logger *zap.SugaredLogger
}

// New builds a Producer. startHeight is the first height backfill submits;
// backfill runs up to (but not including) the height observed at startup.
func New(node NodeClient, q *queue.HeightQueue, startHeight int64, backfillEnabled, tailEnabled bool, logger *zap.SugaredLogger) *Producer {
	return &Producer{
		node:            node,
		queue:           q,
		startHeight:     startHeight,
		backfillEnabled: backfillEnabled,
		tailEnabled:     tailEnabled,
		highWaterMark:   startHeight - 1,
		logger:          logger.Named("producer"),
	}
}

// Run executes the backfill phase (if enabled) followed by the tail phase
// (if enabled), both honoring ctx for shutdown. It returns once both
// requested phases finish — the tail phase only finishes when ctx is
// cancelled, since it never gives up on a failed latest_height call.
func (p *Producer) Run(ctx context.Context) error {
	if p.backfillEnabled {
		if err := p.backfill(ctx); err != nil {
			return err
		}
	}
	if p.tailEnabled {
		p.tail(ctx)
	}
	return nil
}

// backfill observes the chain's current height once, then streams every
// height from startHeight up to (but not including) that observed height
// into the queue. Queue pressure blocks the producer, same as enqueueing
// from the tail phase.
func (p *Producer) backfill(ctx context.Context) error {
	currentHeight, err := p.node.LatestHeight(ctx)
	if err != nil {
		return err
	}
	p.logger.Infow("starting backfill", "start_height", p.startHeight, "current_height", currentHeight)

	for height := p.startHeight; height < currentHeight; height++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := p.queue.Enqueue(height); err != nil {
			return err
		}
		p.highWaterMark = height
	}
	p.logger.Infow("backfill complete", "enqueued_through", currentHeight-1)
	return nil
}

// tail repeatedly polls latest_height and enqueues every newly observed
// height. A failed latest_height call is logged and retried after the same
// poll interval; tail never exits on its own, only when ctx is cancelled.
func (p *Producer) tail(ctx context.Context) {
	p.logger.Infow("starting tail poll", "from_height", p.highWaterMark+1)

	ticker := time.NewTicker(tailPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		latest, err := p.node.LatestHeight(ctx)
		if err != nil {
			p.logger.Errorw("tail: latest_height failed, continuing", "error", err)
			continue
		}

		for height := p.highWaterMark + 1; height <= latest; height++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if err := p.queue.Enqueue(height); err != nil {
				p.logger.Errorw("tail: failed to enqueue height, will retry next poll", "height", height, "error", err)
				break
			}
			p.highWaterMark = height
		}
	}
}
