package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Task is one periodic activity. Run is never invoked concurrently with itself.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// FatalHandler is called when a task reports corrupted internal state.
type FatalHandler func(task string, err error)

// Scheduler runs each task on its own ticker until Stop or until the parent context ends.
// A task error is logged and the task runs again at its next tick; a slow run only delays
// that task's next run. Errors wrapping util.ErrInvariantViolation go to the fatal handler.
type Scheduler struct {
	clock   clock.Clock
	logger  *zap.Logger
	tasks   []Task
	onFatal FatalHandler

	mu      sync.Mutex
	cancel  context.CancelFunc
	group   *errgroup.Group
	running bool
}

type Option func(*Scheduler)

func WithClock(clk clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = clk
	}
}

func WithFatalHandler(h FatalHandler) Option {
	return func(s *Scheduler) {
		s.onFatal = h
	}
}

func New(logger *zap.Logger, tasks []Task, opts ...Option) (*Scheduler, error) {
	for _, task := range tasks {
		if task.Interval <= 0 {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "task %s has non-positive interval %v", task.Name, task.Interval)
		}
		if task.Run == nil {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "task %s has nothing to run", task.Name)
		}
	}

	s := &Scheduler{
		clock:  clock.New(),
		logger: logger,
		tasks:  tasks,
	}
	s.onFatal = func(task string, err error) {
		s.logger.Fatal("periodic task found corrupted state", zap.String("task", task), zap.Error(err))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start launches every task. Tickers are created before Start returns, so a mock clock can be
// advanced right away.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return errors.New("scheduler already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)

	for _, task := range s.tasks {
		task := task
		ticker := s.clock.Ticker(task.Interval)
		group.Go(func() error {
			defer ticker.Stop()
			return s.loop(ctx, task, ticker)
		})
		s.logger.Info("scheduled periodic task", zap.String("task", task.Name), zap.Duration("interval", task.Interval))
	}

	s.cancel = cancel
	s.group = group
	s.running = true
	return nil
}

func (s *Scheduler) loop(ctx context.Context, task Task, ticker *clock.Ticker) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runOnce(ctx, task)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("periodic task panicked", zap.String("task", task.Name), zap.Any("panic", r))
		}
	}()

	err := task.Run(ctx)
	switch {
	case err == nil:
	case errors.Is(err, util.ErrInvariantViolation):
		s.onFatal(task.Name, err)
	default:
		s.logger.Warn("periodic task failed, retrying next cycle", zap.String("task", task.Name), zap.Error(err))
	}
}

// Stop cancels every task and waits for in-flight runs to return.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	cancel, group := s.cancel, s.group
	s.running = false
	s.mu.Unlock()

	cancel()
	if err := group.Wait(); err != nil {
		return fmt.Errorf("scheduler stopped with error: %w", err)
	}
	s.logger.Info("scheduler stopped")
	return nil
}

// IsMultipleOf reports whether interval is a whole multiple of base.
func IsMultipleOf(interval, base time.Duration) bool {
	return base > 0 && interval >= base && interval%base == 0
}
