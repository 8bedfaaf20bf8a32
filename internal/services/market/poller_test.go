package market

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/universiq/uvq/internal/domain"
)

// scriptedFetcher plays back a fixed sequence of results; the last entry
// repeats once the script runs out.
type scriptedFetcher struct {
	mu     sync.Mutex
	script []fetchResult
	calls  int
}

type fetchResult struct {
	snap domain.MarketSnapshot
	err  error
}

func (f *scriptedFetcher) CurrentMarket(ctx context.Context) (domain.MarketSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.calls
	if idx >= len(f.script) {
		idx = len(f.script) - 1
	}
	f.calls++
	result := f.script[idx]
	return result.snap, result.err
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollerFetchesImmediately(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{{snap: snapshotWithPrice(100)}}}
	store := NewStore()
	poller := NewPoller(fetcher, store, time.Hour, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return store.Snapshot() != nil
	}, time.Second, 5*time.Millisecond, "the first fetch fires on activation, not after the first interval")

	cancel()
	<-done
	assert.Equal(t, 1, fetcher.callCount())
}

func TestPollerFailureRetainsSnapshot(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{snap: snapshotWithPrice(100)},
		{err: errors.New("backend down")},
	}}
	store := NewStore()
	poller := NewPoller(fetcher, store, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(ctx)
	}()

	require.Eventually(t, store.FetchFailed, time.Second, 5*time.Millisecond)
	cancel()
	<-done

	snap := store.Snapshot()
	require.NotNil(t, snap, "a failed poll must not clear the last good snapshot")
	assert.True(t, snap.Price.Equal(decimal.NewFromInt(100)))
}

func TestPollerRecoversAfterFailure(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{
		{err: errors.New("backend down")},
		{snap: snapshotWithPrice(200)},
	}}
	store := NewStore()
	poller := NewPoller(fetcher, store, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return store.Snapshot() != nil && !store.FetchFailed()
	}, time.Second, 5*time.Millisecond, "a success replaces the snapshot and clears the error flag")

	cancel()
	<-done
}

func TestPollerStopsOnCancel(t *testing.T) {
	fetcher := &scriptedFetcher{script: []fetchResult{{snap: snapshotWithPrice(100)}}}
	store := NewStore()
	poller := NewPoller(fetcher, store, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		runErr = poller.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		return fetcher.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	require.ErrorIs(t, runErr, context.Canceled)

	settled := fetcher.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, settled, fetcher.callCount(), "no fetch may fire after deactivation")
}
