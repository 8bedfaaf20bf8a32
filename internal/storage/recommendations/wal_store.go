// Package recommendations persists every recommendation the backend
// returns in a local WAL, so history survives restarts and can be streamed
// to the web dashboard. Market data itself is never persisted.
package recommendations

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"

	"github.com/universiq/uvq/internal/domain"
)

const (
	// DefaultDir default journal location.
	DefaultDir   = "./wal/recommendations"
	segmentLimit = 100
	maxSegments  = 10

	keyPrefix = "recommendation_"
)

// WALStore persists recommendation events in a WAL.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed recommendation journal.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "rec_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init recommendation WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save writes a received recommendation to the journal. Each event gets
// its own id, so re-analyzing a scenario appends a new record under a
// fresh key instead of reusing the previous one.
func (s *WALStore) Save(event domain.RecommendationEvent) error {
	if s == nil || s.wal == nil {
		return errors.New("recommendation store is not initialized")
	}
	if event.ScenarioID == "" {
		return errors.New("recommendation event scenario id is required")
	}
	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal recommendation event")
	}

	key := keyPrefix + event.EventID

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// EventsAfter returns all recommendation events written after the provided
// WAL index. Undecodable entries are skipped.
func (s *WALStore) EventsAfter(index uint64) ([]domain.RecommendationEventRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("recommendation store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]domain.RecommendationEventRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			continue
		}
		if !strings.HasPrefix(key, keyPrefix) {
			continue
		}

		var event domain.RecommendationEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			continue
		}
		records = append(records, domain.RecommendationEventRecord{Index: idx, Event: event})
	}

	return records, nil
}

// Close releases the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wal.Close()
}
