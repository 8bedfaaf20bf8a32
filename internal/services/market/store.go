// Package market keeps the latest market snapshot fresh. The store has a
// single writer, the poller, and any number of readers.
package market

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/universiq/uvq/internal/domain"
)

// Store holds the most recent market snapshot together with its fetch
// status. Every completion carries the poller's sequence number; a
// completion that lost the race to a newer one is discarded, so the
// display never regresses to older data.
type Store struct {
	mu        sync.RWMutex
	snapshot  *domain.MarketSnapshot
	lastSeq   uint64
	fetchErr  bool
	updatedAt time.Time
}

// NewStore creates an empty store; Snapshot returns nil until the first
// successful poll.
func NewStore() *Store {
	return &Store{}
}

// Apply installs a successfully fetched snapshot, replacing the previous
// one wholesale and clearing the error flag. It reports false when a newer
// completion already landed, in which case the store is left untouched.
func (s *Store) Apply(seq uint64, snap domain.MarketSnapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	s.snapshot = &snap
	s.fetchErr = false
	s.updatedAt = time.Now()
	return true
}

// Fail records a failed poll. The last good snapshot stays in place; only
// the error flag changes. Stale failures that lost the race to a newer
// completion are ignored.
func (s *Store) Fail(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.lastSeq {
		return false
	}
	s.lastSeq = seq
	s.fetchErr = true
	return true
}

// Snapshot returns the current snapshot, or nil when no fetch has
// succeeded yet. Snapshots are immutable once installed.
func (s *Store) Snapshot() *domain.MarketSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// FetchFailed reports whether the most recent completed poll failed.
func (s *Store) FetchFailed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}

// UpdatedAt returns when the held snapshot was installed; zero until the
// first success.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Price returns the current BTC price for USD conversion, reporting
// absence explicitly while no snapshot is held.
func (s *Store) Price() (decimal.Decimal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return decimal.Zero, false
	}
	return s.snapshot.Price, true
}
