package kalshi

import (
	"testing"

	"github.com/oddsylabs/oddsy/internal/markets"
)

func TestBuildRowConvertsDollarsToPercent(t *testing.T) {
	row := buildRow(Market{
		Ticker:           "PRES-2028-DEM",
		EventTicker:      "PRES-2028",
		MarketType:       "binary",
		Title:            "Democratic nominee wins",
		Status:           "open",
		CloseTime:        "2028-11-07T00:00:00Z",
		YesBidDollars:    markets.Float(0.404),
		YesAskDollars:    markets.Float(0.606),
		LastPriceDollars: markets.Float(0.5),
		Volume24h:        markets.Float(1234),
	})

	if row.YesBidPct == nil || *row.YesBidPct != 40.4 {
		t.Errorf("yes bid = %v, want 40.4", row.YesBidPct)
	}
	if row.YesAskPct == nil || *row.YesAskPct != 60.6 {
		t.Errorf("yes ask = %v, want 60.6", row.YesAskPct)
	}
	if row.LastTraded == nil || *row.LastTraded != 50 {
		t.Errorf("last traded = %v, want 50", row.LastTraded)
	}
	if row.ImpliedProb == nil || *row.ImpliedProb != 50 {
		t.Errorf("implied prob = %v, want 50 from last traded", row.ImpliedProb)
	}
	if row.CloseTime.IsZero() {
		t.Error("close time not parsed")
	}
	if row.Platform != markets.PlatformKalshi {
		t.Errorf("platform = %q", row.Platform)
	}
}

func TestBuildRowEventTickerFallback(t *testing.T) {
	row := buildRow(Market{Ticker: "SOLO-MARKET"})
	if row.EventTicker != "SOLO-MARKET" {
		t.Errorf("event ticker = %q, want the market's own ticker", row.EventTicker)
	}
}

func TestBuildRowCategoricalHasNoImpliedProb(t *testing.T) {
	row := buildRow(Market{
		Ticker:           "CAT-1",
		MarketType:       "categorical",
		LastPriceDollars: markets.Float(0.7),
	})
	if row.ImpliedProb != nil {
		t.Errorf("implied prob = %v, want nil for categorical market", row.ImpliedProb)
	}
}

func TestBuildRowOptionName(t *testing.T) {
	row := buildRow(Market{
		Ticker:      "SISWIM-26-GH",
		Title:       "Will Gigi Hadid be on the cover of the 2026 Sports Illustrated Swimsuit issue?",
		YesSubTitle: "GH",
	})
	if row.OptionName != "Gigi Hadid" {
		t.Errorf("option name = %q, want Gigi Hadid", row.OptionName)
	}
}

func TestParseCloseTimeFormats(t *testing.T) {
	for _, s := range []string{"2026-12-31T23:59:59Z", "2026-12-31 23:59:59", "2026-12-31"} {
		if parseCloseTime(s).IsZero() {
			t.Errorf("parseCloseTime(%q) returned zero", s)
		}
	}
	if !parseCloseTime("garbage").IsZero() {
		t.Error("unparseable close time should be zero")
	}
	if !parseCloseTime("").IsZero() {
		t.Error("empty close time should be zero")
	}
}
