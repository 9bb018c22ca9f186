package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSweeper) SweepExpired(_ context.Context, _ time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 1, f.err
}

func (f *fakeSweeper) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_SweepsOnStartAndTick(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := NewScheduler(sweeper, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return sweeper.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_ErrorDoesNotStopLoop(t *testing.T) {
	sweeper := &fakeSweeper{err: errors.New("db down")}
	s := NewScheduler(sweeper, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	assert.Eventually(t, func() bool { return sweeper.Calls() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()
}

type fakePruner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakePruner) PruneDialogs() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 2
}

func (f *fakePruner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestScheduler_PrunesDialogsWithSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	pruner := &fakePruner{}
	s := NewScheduler(sweeper, 10*time.Millisecond, zap.NewNop())
	s.SetDialogPruner(pruner)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)

	assert.Eventually(t, func() bool { return pruner.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()
}
