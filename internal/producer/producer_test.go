package producer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/queue"
)

type fakeNode struct {
	height atomic.Int64
	calls  atomic.Int32
	fail   atomic.Bool
}

func (f *fakeNode) LatestHeight(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if f.fail.Load() {
		return 0, assert.AnError
	}
	return f.height.Load(), nil
}

func drain(q *queue.HeightQueue, n int) []int64 {
	var out []int64
	for i := 0; i < n; i++ {
		h, ok := q.Dequeue()
		if !ok {
			break
		}
		out = append(out, h)
	}
	return out
}

func TestBackfill_EnqueuesUpToButExcludingCurrentHeight(t *testing.T) {
	node := &fakeNode{}
	node.height.Store(5)
	q := queue.New(10, zap.NewNop().Sugar())

	p := New(node, q, 1, true, false, zap.NewNop().Sugar())
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, []int64{1, 2, 3, 4}, drain(q, 10))
}

func TestBackfill_Disabled_EnqueuesNothing(t *testing.T) {
	node := &fakeNode{}
	node.height.Store(5)
	q := queue.New(10, zap.NewNop().Sugar())

	p := New(node, q, 1, false, false, zap.NewNop().Sugar())
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, 0, q.Len())
}

func TestTail_PollsAndEnqueuesNewHeights(t *testing.T) {
	original := tailPollInterval
	tailPollInterval = 20 * time.Millisecond
	defer func() { tailPollInterval = original }()

	node := &fakeNode{}
	node.height.Store(10)
	q := queue.New(100, zap.NewNop().Sugar())

	p := New(node, q, 10, false, true, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return q.Len() >= 1 }, 2*time.Second, 5*time.Millisecond)
	node.height.Store(12)
	assert.Eventually(t, func() bool { return q.Len() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tail did not exit after context cancel")
	}

	assert.Equal(t, []int64{10, 11, 12}, drain(q, 10))
}

func TestTail_SurvivesLatestHeightFailure(t *testing.T) {
	original := tailPollInterval
	tailPollInterval = 20 * time.Millisecond
	defer func() { tailPollInterval = original }()

	node := &fakeNode{}
	node.height.Store(10)
	node.fail.Store(true)
	q := queue.New(100, zap.NewNop().Sugar())

	p := New(node, q, 10, false, true, zap.NewNop().Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return node.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, q.Len())

	node.fail.Store(false)
	assert.Eventually(t, func() bool { return q.Len() >= 1 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("tail did not exit after context cancel")
	}
}
