// Package queue implements the bounded channel of block heights that sits
// between the producer and the worker pool; its only job is to hand heights
// to whichever worker is free next.
package queue

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/errs"
)

// DefaultCapacity is the bounded queue depth namadexer runs with.
const DefaultCapacity = 100

// HeightQueue is a bounded, closeable channel of block heights.
type HeightQueue struct {
	heights chan int64
	logger  *zap.SugaredLogger
}

// New creates a height queue with the given capacity.
func New(capacity int, logger *zap.SugaredLogger) *HeightQueue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &HeightQueue{
		heights: make(chan int64, capacity),
		logger:  logger.Named("queue"),
	}
}

// Enqueue blocks until there is room in the queue or the queue is closed.
// Enqueueing onto a closed queue returns ErrQueueClosed instead of panicking.
func (q *HeightQueue) Enqueue(height int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errs.ErrQueueClosed, r)
		}
	}()
	q.heights <- height
	return nil
}

// Dequeue returns the next height to process. The second return value is
// false once the queue is closed and drained.
func (q *HeightQueue) Dequeue() (int64, bool) {
	h, ok := <-q.heights
	return h, ok
}

// Close makes every later Enqueue return ErrQueueClosed, whether or not the
// queue is drained; heights already buffered are still delivered to Dequeue
// callers.
func (q *HeightQueue) Close() {
	q.logger.Info("closing height queue")
	close(q.heights)
}

// Len reports the number of heights currently buffered.
func (q *HeightQueue) Len() int {
	return len(q.heights)
}
