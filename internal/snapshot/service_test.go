package snapshot

import (
	"context"
	"errors"
	"testing"

	"github.com/oddsylabs/oddsy/internal/markets"
)

type fakeExchange struct {
	platform markets.Platform
	rows     []markets.DisplayRow
	rowsErr  error
	statsErr error
}

func (f *fakeExchange) Name() string               { return string(f.platform) }
func (f *fakeExchange) Platform() markets.Platform { return f.platform }

func (f *fakeExchange) FetchRows(context.Context) ([]markets.DisplayRow, error) {
	return f.rows, f.rowsErr
}

func (f *fakeExchange) FetchStats(_ context.Context, rows []markets.DisplayRow) (markets.ExchangeStats, error) {
	if f.statsErr != nil {
		return markets.ExchangeStats{}, f.statsErr
	}
	return markets.ExchangeStats{Name: string(f.platform), ActiveMarkets: len(rows)}, nil
}

func kalshiRow(ticker string) markets.DisplayRow {
	return markets.DisplayRow{
		Ticker:      ticker,
		EventTicker: ticker,
		Platform:    markets.PlatformKalshi,
		Volume24h:   markets.Float(10),
	}
}

func polyRow(ticker string) markets.DisplayRow {
	return markets.DisplayRow{
		Ticker:      ticker,
		EventTicker: ticker,
		Platform:    markets.PlatformPolymarket,
		Volume24h:   markets.Float(10),
	}
}

func TestRefreshBothExchanges(t *testing.T) {
	store := NewStore()
	svc := NewService(store, []markets.Exchange{
		&fakeExchange{platform: markets.PlatformKalshi, rows: []markets.DisplayRow{kalshiRow("K1")}},
		&fakeExchange{platform: markets.PlatformPolymarket, rows: []markets.DisplayRow{polyRow("P1")}},
	})

	snap, err := svc.Refresh(context.Background(), SelectorBoth)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snap.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(snap.Rows))
	}
	if len(snap.Events) != 2 {
		t.Errorf("events = %d, want 2", len(snap.Events))
	}
	if snap.Stats.Kalshi == nil || snap.Stats.Polymarket == nil {
		t.Error("both stats entries should be set")
	}
	if store.Current() != snap {
		t.Error("store should hold the new snapshot")
	}
	if snap.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("snapshot ID not assigned")
	}
}

func TestRefreshSelectorSingleExchange(t *testing.T) {
	store := NewStore()
	svc := NewService(store, []markets.Exchange{
		&fakeExchange{platform: markets.PlatformKalshi, rows: []markets.DisplayRow{kalshiRow("K1")}},
		&fakeExchange{platform: markets.PlatformPolymarket, rows: []markets.DisplayRow{polyRow("P1")}},
	})

	snap, err := svc.Refresh(context.Background(), SelectorKalshi)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snap.Rows) != 1 || snap.Rows[0].Platform != markets.PlatformKalshi {
		t.Errorf("rows = %+v, want only the Kalshi row", snap.Rows)
	}
	if snap.Stats.Polymarket != nil {
		t.Error("unfetched exchange must have nil stats, not zeroed stats")
	}
}

func TestRefreshPartialFailure(t *testing.T) {
	store := NewStore()
	svc := NewService(store, []markets.Exchange{
		&fakeExchange{platform: markets.PlatformKalshi, rowsErr: errors.New("down")},
		&fakeExchange{platform: markets.PlatformPolymarket, rows: []markets.DisplayRow{polyRow("P1")}},
	})

	snap, err := svc.Refresh(context.Background(), SelectorBoth)
	if err != nil {
		t.Fatalf("Refresh should tolerate one exchange failing: %v", err)
	}
	if len(snap.Rows) != 1 {
		t.Errorf("rows = %d, want 1 from the healthy exchange", len(snap.Rows))
	}
	if snap.Stats.Kalshi != nil {
		t.Error("failed exchange must have nil stats")
	}
}

func TestRefreshTotalFailureKeepsPrevious(t *testing.T) {
	store := NewStore()
	previous := &Snapshot{Rows: []markets.DisplayRow{kalshiRow("OLD")}}
	store.Replace(previous)

	svc := NewService(store, []markets.Exchange{
		&fakeExchange{platform: markets.PlatformKalshi, rowsErr: errors.New("down")},
		&fakeExchange{platform: markets.PlatformPolymarket, rowsErr: errors.New("also down")},
	})

	if _, err := svc.Refresh(context.Background(), SelectorBoth); err == nil {
		t.Fatal("expected error when every exchange fails")
	}
	if store.Current() != previous {
		t.Error("previous snapshot must survive a failed refresh")
	}
}

func TestRefreshStatsErrorDoesNotFailRefresh(t *testing.T) {
	store := NewStore()
	svc := NewService(store, []markets.Exchange{
		&fakeExchange{
			platform: markets.PlatformKalshi,
			rows:     []markets.DisplayRow{kalshiRow("K1")},
			statsErr: errors.New("stats endpoint down"),
		},
	})

	snap, err := svc.Refresh(context.Background(), SelectorKalshi)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(snap.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(snap.Rows))
	}
	if snap.Stats.Kalshi != nil {
		t.Error("stats must be nil when the stats fetch fails")
	}
}

func TestRefreshSinkFailureIsNonFatal(t *testing.T) {
	store := NewStore()
	var sinkCalls int
	failing := func(ctx context.Context, snap *Snapshot) error {
		sinkCalls++
		return errors.New("broker unreachable")
	}

	svc := NewService(store, []markets.Exchange{
		&fakeExchange{platform: markets.PlatformKalshi, rows: []markets.DisplayRow{kalshiRow("K1")}},
	}, failing)

	if _, err := svc.Refresh(context.Background(), SelectorKalshi); err != nil {
		t.Fatalf("sink failure must not fail the refresh: %v", err)
	}
	if sinkCalls != 1 {
		t.Errorf("sink calls = %d, want 1", sinkCalls)
	}
}

func TestParseSelector(t *testing.T) {
	cases := map[string]Selector{
		"":           SelectorBoth,
		"both":       SelectorBoth,
		"all":        SelectorBoth,
		"Kalshi":     SelectorKalshi,
		"polymarket": SelectorPolymarket,
	}
	for in, want := range cases {
		got, err := ParseSelector(in)
		if err != nil {
			t.Errorf("ParseSelector(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseSelector(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseSelector("betfair"); err == nil {
		t.Error("expected error for unknown platform")
	}
}
