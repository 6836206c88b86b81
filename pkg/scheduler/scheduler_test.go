package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lintang-b-s/livetraffic/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const waitFor = 2 * time.Second

func TestSchedulerCadence(t *testing.T) {
	mock := clock.NewMock()
	var simulated, updated atomic.Int64

	s, err := New(zap.NewNop(), []Task{
		{Name: "simulate", Interval: 5 * time.Second, Run: func(ctx context.Context) error {
			simulated.Add(1)
			return nil
		}},
		{Name: "update", Interval: 10 * time.Second, Run: func(ctx context.Context) error {
			updated.Add(1)
			return nil
		}},
	}, WithClock(mock))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	for step := 1; step <= 4; step++ {
		mock.Add(5 * time.Second)
		wantSim, wantUpd := int64(step), int64(step/2)
		assert.Eventually(t, func() bool {
			return simulated.Load() == wantSim && updated.Load() == wantUpd
		}, waitFor, time.Millisecond, "after %d steps", step)
	}
}

func TestSchedulerContinuesAfterErrorsAndPanics(t *testing.T) {
	mock := clock.NewMock()
	var runs atomic.Int64

	s, err := New(zap.NewNop(), []Task{
		{Name: "flaky", Interval: time.Second, Run: func(ctx context.Context) error {
			n := runs.Add(1)
			switch n {
			case 1:
				return errors.New("transient")
			case 2:
				panic("boom")
			}
			return nil
		}},
	}, WithClock(mock))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	for step := int64(1); step <= 3; step++ {
		mock.Add(time.Second)
		want := step
		assert.Eventually(t, func() bool { return runs.Load() == want }, waitFor, time.Millisecond)
	}
}

func TestSchedulerFatalHandler(t *testing.T) {
	mock := clock.NewMock()

	var (
		mu       sync.Mutex
		gotTask  string
		gotError error
	)
	s, err := New(zap.NewNop(), []Task{
		{Name: "update", Interval: time.Second, Run: func(ctx context.Context) error {
			return util.WrapErrorf(nil, util.ErrInvariantViolation, "edge sets differ")
		}},
	}, WithClock(mock), WithFatalHandler(func(task string, err error) {
		mu.Lock()
		defer mu.Unlock()
		gotTask, gotError = task, err
	}))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	mock.Add(time.Second)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return gotTask == "update" && errors.Is(gotError, util.ErrInvariantViolation)
	}, waitFor, time.Millisecond)
}

func TestSchedulerStop(t *testing.T) {
	mock := clock.NewMock()
	var runs atomic.Int64

	s, err := New(zap.NewNop(), []Task{
		{Name: "simulate", Interval: time.Second, Run: func(ctx context.Context) error {
			runs.Add(1)
			return nil
		}},
	}, WithClock(mock))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	assert.Error(t, s.Start(context.Background()), "cannot start twice")

	mock.Add(time.Second)
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, time.Millisecond)

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())

	mock.Add(time.Second)
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int64(1), runs.Load(), "no runs after Stop")
}

func TestNewRejectsInvalidTasks(t *testing.T) {
	_, err := New(zap.NewNop(), []Task{{Name: "zero", Run: func(context.Context) error { return nil }}})
	assert.True(t, errors.Is(err, util.ErrBadParamInput))

	_, err = New(zap.NewNop(), []Task{{Name: "nil", Interval: time.Second}})
	assert.True(t, errors.Is(err, util.ErrBadParamInput))
}

func TestIsMultipleOf(t *testing.T) {
	assert.True(t, IsMultipleOf(10*time.Second, 5*time.Second))
	assert.True(t, IsMultipleOf(5*time.Second, 5*time.Second))
	assert.False(t, IsMultipleOf(7*time.Second, 5*time.Second))
	assert.False(t, IsMultipleOf(time.Second, 5*time.Second))
	assert.False(t, IsMultipleOf(time.Second, 0))
}
