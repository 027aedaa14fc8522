package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/oddsylabs/oddsy/internal/logging"
	"github.com/oddsylabs/oddsy/internal/markets"
)

// Sink receives each published snapshot after it replaces the current one.
// Sink failures are logged and never fail the refresh; the dashboard state
// does not depend on downstream systems.
type Sink func(ctx context.Context, snap *Snapshot) error

// Service runs refreshes across the configured exchanges and publishes the
// result to the store and the sinks.
type Service struct {
	exchanges []markets.Exchange
	store     *Store
	sinks     []Sink
}

func NewService(store *Store, exchanges []markets.Exchange, sinks ...Sink) *Service {
	return &Service{
		exchanges: exchanges,
		store:     store,
		sinks:     sinks,
	}
}

// Refresh fetches the selected exchanges and replaces the current snapshot
// with the combined result. One exchange failing degrades to a partial
// snapshot; the previous snapshot survives untouched only when every
// selected exchange fails.
func (s *Service) Refresh(ctx context.Context, selector Selector) (*Snapshot, error) {
	var (
		allRows  []markets.DisplayRow
		stats    markets.TopLevelStats
		fetched  int
		attempts int
	)

	for _, ex := range s.exchanges {
		if !selector.Includes(ex.Platform()) {
			continue
		}
		attempts++

		rows, err := ex.FetchRows(ctx)
		if err != nil {
			logging.Errorf("[%s] refresh failed: %v", ex.Name(), err)
			continue
		}
		fetched++
		allRows = append(allRows, rows...)

		exStats, err := ex.FetchStats(ctx, rows)
		if err != nil {
			logging.Warnf("[%s] stats unavailable this refresh: %v", ex.Name(), err)
			continue
		}
		switch ex.Platform() {
		case markets.PlatformKalshi:
			stats.Kalshi = &exStats
		case markets.PlatformPolymarket:
			stats.Polymarket = &exStats
		}
	}

	if attempts == 0 {
		return nil, fmt.Errorf("no exchange configured for selector %q", selector)
	}
	if fetched == 0 {
		return nil, fmt.Errorf("all exchanges failed for selector %q", selector)
	}

	snap := &Snapshot{
		ID:       uuid.New(),
		TakenAt:  time.Now().UTC(),
		Selector: selector,
		Rows:     allRows,
		Events:   markets.GroupEvents(allRows),
		Stats:    stats,
	}
	s.store.Replace(snap)
	logging.Infof("refresh %s: %d rows, %d events", snap.ID, len(snap.Rows), len(snap.Events))

	for _, sink := range s.sinks {
		if err := sink(ctx, snap); err != nil {
			logging.Errorf("snapshot sink failed: %v", err)
		}
	}
	return snap, nil
}
