package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEvery_FiresTask(t *testing.T) {
	s := New(zap.NewNop().Sugar())
	var calls int32

	require.NoError(t, s.Every("test-task", time.Second, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, 3*time.Second, 50*time.Millisecond)
}

func TestStop_IsIdempotent(t *testing.T) {
	s := New(zap.NewNop().Sugar())
	s.Start()
	s.Stop()
	s.Stop()
}
