package modules

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/model"
)

// ConsensusTime maintains rolling hourly and daily average block-production
// times. It has no reaction to epoch edges or messages; it is driven purely
// by the periodic scheduler.
type ConsensusTime struct {
	sink   Sink
	logger *zap.SugaredLogger
}

// NewConsensusTime builds the consensus-time module.
func NewConsensusTime(sink Sink, logger *zap.SugaredLogger) *ConsensusTime {
	return &ConsensusTime{sink: sink, logger: logger.Named("consensus-time")}
}

func (c *ConsensusTime) Name() string { return "consensus-time" }

func (c *ConsensusTime) HandleEpoch(ctx context.Context, height, epoch int64) error { return nil }

func (c *ConsensusTime) HandleMessage(ctx context.Context, msg ProcessedMessage) error { return nil }

// RegisterPeriodic attaches the hourly and daily average-block-time tasks.
func (c *ConsensusTime) RegisterPeriodic(r Registrar) error {
	if err := r.Every("average-block-time-hour", time.Hour, func(ctx context.Context) error {
		return c.updateAverage(ctx, time.Hour, c.sink.SaveAverageBlockTimeHour)
	}); err != nil {
		return err
	}
	return r.Every("average-block-time-day", 24*time.Hour, func(ctx context.Context) error {
		return c.updateAverageDaily(ctx, 24*time.Hour)
	})
}

func (c *ConsensusTime) updateAverage(ctx context.Context, window time.Duration, save func(context.Context, model.AverageBlockTimeHour) error) error {
	latest, ok, err := c.sink.LatestBlock(ctx)
	if err != nil || !ok {
		return err
	}
	anchor, ok, err := c.sink.BlockBefore(ctx, time.Now().Add(-window))
	if err != nil || !ok {
		return err
	}

	avg := averageBlockTime(latest, anchor)
	return save(ctx, model.AverageBlockTimeHour{AverageBlockTime: avg, Height: latest.Height})
}

func (c *ConsensusTime) updateAverageDaily(ctx context.Context, window time.Duration) error {
	latest, ok, err := c.sink.LatestBlock(ctx)
	if err != nil || !ok {
		return err
	}
	anchor, ok, err := c.sink.BlockBefore(ctx, time.Now().Add(-window))
	if err != nil || !ok {
		return err
	}

	avg := averageBlockTime(latest, anchor)
	return c.sink.SaveAverageBlockTimeDay(ctx, model.AverageBlockTimeDay{AverageBlockTime: avg, Height: latest.Height})
}

// averageBlockTime computes seconds-per-block between two anchor blocks,
// returning zero when the height delta is zero to avoid a division by zero.
func averageBlockTime(latest, anchor model.Block) decimal.Decimal {
	deltaHeight := latest.Height - anchor.Height
	if deltaHeight <= 0 {
		return decimal.Zero
	}
	deltaSeconds := decimal.NewFromFloat(latest.Timestamp.Sub(anchor.Timestamp).Seconds())
	return deltaSeconds.Div(decimal.NewFromInt(deltaHeight))
}
