// Package scheduler runs named periodic tasks. A task never overlaps
// itself: a tick that finds the previous run still in flight is skipped.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"plant_buddy/internal/logger"
	"plant_buddy/internal/metrics"
)

// Task is one periodic job. Timeout bounds a single run; zero leaves the
// run bounded only by shutdown.
type Task struct {
	Name       string
	Interval   time.Duration
	RunOnStart bool
	Timeout    time.Duration
	Fn         func(ctx context.Context) error
}

type Scheduler struct {
	tasks   []Task
	log     *logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

func New(log *logger.Logger, m *metrics.Metrics, tasks ...Task) *Scheduler {
	return &Scheduler{
		tasks:   tasks,
		log:     logger.OrNop(log),
		metrics: m,
	}
}

// Start launches one loop per task and returns immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	for _, t := range s.tasks {
		if t.Interval <= 0 {
			return fmt.Errorf("scheduler: task %q: interval must be positive", t.Name)
		}
		if t.Fn == nil {
			return fmt.Errorf("scheduler: task %q: nil func", t.Name)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return errors.New("scheduler: already started")
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)
	for _, t := range s.tasks {
		s.wg.Add(1)
		go s.loop(ctx, t)
	}
	s.log.Infow("scheduler_started", "tasks", len(s.tasks))
	return nil
}

// Stop cancels every loop and waits for in-flight runs to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.log.Infow("scheduler_stopped")
}

func (s *Scheduler) loop(ctx context.Context, t Task) {
	defer s.wg.Done()

	var running atomic.Bool
	if t.RunOnStart {
		s.launch(ctx, t, &running)
	}

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.launch(ctx, t, &running)
		}
	}
}

// launch starts a run unless the previous one is still in flight.
func (s *Scheduler) launch(ctx context.Context, t Task, running *atomic.Bool) {
	if !running.CompareAndSwap(false, true) {
		s.log.Warnw("task_skipped_overlap", "task", t.Name)
		s.metrics.JobSkipped(t.Name)
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer running.Store(false)
		s.run(ctx, t)
	}()
}

func (s *Scheduler) run(ctx context.Context, t Task) {
	start := time.Now()
	outcome := metrics.OutcomeOK
	defer func() {
		if r := recover(); r != nil {
			outcome = metrics.OutcomeFailed
			s.log.Errorw("task_panic", "task", t.Name, "panic", r)
		}
		s.metrics.JobFinished(t.Name, outcome, time.Since(start))
	}()

	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}

	if err := t.Fn(ctx); err != nil {
		outcome = metrics.OutcomeFailed
		s.log.Errorw("task_failed", "task", t.Name, "error", err, "took", time.Since(start))
		return
	}
	s.log.Debugw("task_done", "task", t.Name, "took", time.Since(start))
}
