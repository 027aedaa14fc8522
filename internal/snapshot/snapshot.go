package snapshot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oddsylabs/oddsy/internal/markets"
)

// Selector picks which exchanges a refresh covers.
type Selector string

const (
	SelectorKalshi     Selector = "kalshi"
	SelectorPolymarket Selector = "polymarket"
	SelectorBoth       Selector = "both"
)

// ParseSelector maps user input onto a Selector. Empty input means both.
func ParseSelector(s string) (Selector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all":
		return SelectorBoth, nil
	case "kalshi":
		return SelectorKalshi, nil
	case "polymarket":
		return SelectorPolymarket, nil
	}
	return "", fmt.Errorf("unknown platform %q (want kalshi, polymarket, or both)", s)
}

// Includes reports whether the selector covers the given platform.
func (s Selector) Includes(p markets.Platform) bool {
	switch s {
	case SelectorBoth:
		return true
	case SelectorKalshi:
		return p == markets.PlatformKalshi
	case SelectorPolymarket:
		return p == markets.PlatformPolymarket
	}
	return false
}

// Snapshot is one complete refresh result: every row fetched, the derived
// event grouping, and the per-exchange stats. Snapshots are immutable once
// published.
type Snapshot struct {
	ID       uuid.UUID             `json:"id"`
	TakenAt  time.Time             `json:"taken_at"`
	Selector Selector              `json:"selector"`
	Rows     []markets.DisplayRow  `json:"rows"`
	Events   []markets.EventGroup  `json:"events"`
	Stats    markets.TopLevelStats `json:"stats"`
}

// Store holds the current snapshot. Reads never block a refresh in progress;
// they see the previous snapshot until Replace publishes the new one whole.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot
}

func NewStore() *Store {
	return &Store{}
}

// Current returns the latest published snapshot, or nil before the first
// successful refresh.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Replace publishes a snapshot wholesale.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()
}
