//go:build unit

// file: sessionstore/sweeper_test.go
package sessionstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type countingStore struct {
	Store
	sweeps atomic.Int32
	fail   bool
}

func (c *countingStore) Sweep(ctx context.Context) (int, error) {
	c.sweeps.Add(1)
	if c.fail {
		return 0, errors.New("database is locked")
	}
	return c.Store.Sweep(ctx)
}

func TestRunSweeper_EvictsAndStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	clock := &fakeClock{now: time.Now()}
	mem := NewMemory(WithClock(clock.Now), WithTTL(time.Minute))
	_, err := mem.Create(context.Background(), 1)
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)

	store := &countingStore{Store: mem}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunSweeper(ctx, store, 5*time.Millisecond) }()

	assert.Eventually(t, func() bool { return mem.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}

func TestRunSweeper_KeepsGoingAfterFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &countingStore{Store: NewMemory(), fail: true}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunSweeper(ctx, store, 2*time.Millisecond) }()

	assert.Eventually(t, func() bool { return store.sweeps.Load() >= 3 }, time.Second, 2*time.Millisecond)
	cancel()
	require.NoError(t, <-done)
}
