package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnqueueDequeue(t *testing.T) {
	q := New(4, zap.NewNop().Sugar())

	require.NoError(t, q.Enqueue(1))
	require.NoError(t, q.Enqueue(2))

	h, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, int64(1), h)

	h, ok = q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, int64(2), h)
}

func TestCloseDrainsBufferedThenStops(t *testing.T) {
	q := New(4, zap.NewNop().Sugar())
	require.NoError(t, q.Enqueue(10))
	q.Close()

	h, ok := q.Dequeue()
	assert.True(t, ok)
	assert.Equal(t, int64(10), h)

	_, ok = q.Dequeue()
	assert.False(t, ok)
}

func TestEnqueueAfterCloseReturnsError(t *testing.T) {
	q := New(2, zap.NewNop().Sugar())
	q.Close()

	err := q.Enqueue(5)
	require.Error(t, err)
}
