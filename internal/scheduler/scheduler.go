// Package scheduler is the periodic task runner (C7): modules register
// fixed-interval tasks here once at startup, and a background loop fires
// them on schedule independently of worker progress. It combines
// robfig/cron's interval scheduling with a ticker+context+WaitGroup+
// atomic.Bool+sync.Once start/stop lifecycle.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// pollInterval is the coarse wakeup cadence the scheduler additionally
// exposes via Tick, independent of whatever intervals individual tasks ask
// the underlying cron engine for.
const pollInterval = 10 * time.Second

// Scheduler runs named, fixed-interval tasks. It satisfies the
// modules.Registrar interface that package modules declares; neither
// package imports the other.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.SugaredLogger

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	isRunning atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once

	tickMu   sync.Mutex
	tickHooks []func(ctx context.Context)
}

// New builds a Scheduler backed by a seconds-resolution cron engine.
func New(logger *zap.SugaredLogger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.Named("scheduler"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Every registers a task to run at a fixed interval. Errors from the task
// are logged; they do not stop the scheduler or other tasks.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context) error) error {
	spec := fmt.Sprintf("@every %s", interval.String())
	_, err := s.cron.AddFunc(spec, func() {
		if err := fn(s.ctx); err != nil {
			s.logger.Errorw("periodic task failed", "task", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduler: registering task %s: %w", name, err)
	}
	return nil
}

// OnTick registers a hook invoked on the scheduler's coarse 10-second poll,
// for callers that want drift-tolerant scheduling outside cron's own
// interval entries.
func (s *Scheduler) OnTick(fn func(ctx context.Context)) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()
	s.tickHooks = append(s.tickHooks, fn)
}

// Start launches the cron engine and the coarse poll loop.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.isRunning.Store(true)
		s.cron.Start()
		s.wg.Add(1)
		go s.pollLoop()
		s.logger.Info("scheduler started")
	})
}

// Stop halts both the cron engine and the poll loop, waiting for any
// in-flight tick to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.cron.Stop().Done()
		s.wg.Wait()
		s.isRunning.Store(false)
		s.logger.Info("scheduler stopped")
	})
}

func (s *Scheduler) pollLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runTickHooks()
		}
	}
}

func (s *Scheduler) runTickHooks() {
	s.tickMu.Lock()
	hooks := make([]func(ctx context.Context), len(s.tickHooks))
	copy(hooks, s.tickHooks)
	s.tickMu.Unlock()

	for _, hook := range hooks {
		hook(s.ctx)
	}
}
