package modules_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/model"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/testutil"
)

func TestConsensusTime_RegisterPeriodic_ComputesHourlyAverage(t *testing.T) {
	sink := testutil.NewFakeSink()
	now := time.Now()
	require.NoError(t, sink.SaveBlock(context.Background(), model.Block{Height: 100, Timestamp: now}))
	require.NoError(t, sink.SaveBlock(context.Background(), model.Block{Height: 50, Timestamp: now.Add(-time.Hour)}))

	c := modules.NewConsensusTime(sink, zap.NewNop().Sugar())

	var tasks []func(context.Context) error
	reg := &fakeRegistrar{everyFunc: func(name string, interval time.Duration, fn func(context.Context) error) error {
		tasks = append(tasks, fn)
		return nil
	}}
	require.NoError(t, c.RegisterPeriodic(reg))
	require.Len(t, tasks, 2)

	require.NoError(t, tasks[0](context.Background()))
	require.NotNil(t, sink.AverageBlockTimeHour)
	assert.Equal(t, int64(100), sink.AverageBlockTimeHour.Height)
	assert.True(t, sink.AverageBlockTimeHour.AverageBlockTime.GreaterThan(decimal.Zero))
}

func TestConsensusTime_RegisterPeriodic_NoBlocksIsNoop(t *testing.T) {
	sink := testutil.NewFakeSink()
	c := modules.NewConsensusTime(sink, zap.NewNop().Sugar())

	var tasks []func(context.Context) error
	reg := &fakeRegistrar{everyFunc: func(name string, interval time.Duration, fn func(context.Context) error) error {
		tasks = append(tasks, fn)
		return nil
	}}
	require.NoError(t, c.RegisterPeriodic(reg))

	for _, task := range tasks {
		require.NoError(t, task(context.Background()))
	}
	assert.Nil(t, sink.AverageBlockTimeHour)
	assert.Nil(t, sink.AverageBlockTimeDay)
}

func TestConsensusTime_HandleEpochAndHandleMessage_AreNoops(t *testing.T) {
	c := modules.NewConsensusTime(testutil.NewFakeSink(), zap.NewNop().Sugar())
	require.NoError(t, c.HandleEpoch(context.Background(), 1, 1))
	require.NoError(t, c.HandleMessage(context.Background(), modules.ProcessedMessage{}))
	assert.Equal(t, "consensus-time", c.Name())
}
