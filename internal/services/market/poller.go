package market

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/universiq/uvq/internal/domain"
)

// DefaultPollInterval refresh cadence when none is configured.
const DefaultPollInterval = 30 * time.Second

// Fetcher retrieves the current market snapshot from the backend.
type Fetcher interface {
	CurrentMarket(ctx context.Context) (domain.MarketSnapshot, error)
}

// Poller refreshes the store on a fixed interval. The first fetch fires
// immediately on Run; the ticker takes over afterwards. Every fetch gets a
// monotonically increasing sequence number so a slow response cannot
// overwrite newer data.
type Poller struct {
	fetcher  Fetcher
	store    *Store
	interval time.Duration
	logger   *zap.Logger
	seq      atomic.Uint64
}

// NewPoller wires a fetcher to a store. A non-positive interval falls back
// to DefaultPollInterval.
func NewPoller(fetcher Fetcher, store *Store, interval time.Duration, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		fetcher:  fetcher,
		store:    store,
		interval: interval,
		logger:   logger,
	}
}

// Run polls until ctx is cancelled and returns ctx.Err(). Cancellation is
// the only way to stop the loop; once it returns, no further fetch fires.
func (p *Poller) Run(ctx context.Context) error {
	p.logger.Info("market poller started", zap.Duration("interval", p.interval))

	p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("market poller stopped")
			return ctx.Err()
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	seq := p.seq.Add(1)

	snap, err := p.fetcher.CurrentMarket(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// teardown, not a poll failure
			return
		}
		if p.store.Fail(seq) {
			p.logger.Warn("market data fetch failed", zap.Uint64("seq", seq), zap.Error(err))
		}
		return
	}

	if !p.store.Apply(seq, snap) {
		p.logger.Debug("dropped stale market response", zap.Uint64("seq", seq))
		return
	}
	p.logger.Debug("market snapshot updated",
		zap.Uint64("seq", seq),
		zap.String("price", snap.Price.String()))
}
