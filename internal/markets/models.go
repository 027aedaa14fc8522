package markets

import (
	"context"
	"time"
)

// Platform identifies the exchange a row was sourced from.
type Platform string

const (
	PlatformKalshi     Platform = "Kalshi"
	PlatformPolymarket Platform = "Polymarket"
)

// Market type classifications. Only binary markets (or rows whose type is
// unknown) carry an implied YES probability.
const (
	TypeBinary      = "binary"
	TypeCategorical = "categorical"
)

// Exchange is implemented by venue-specific adapters (Kalshi, Polymarket).
// FetchRows returns the full normalized row set for one refresh; FetchStats
// derives the exchange's headline numbers, fetching trade-level data where
// the venue provides it.
type Exchange interface {
	Name() string
	Platform() Platform
	FetchRows(ctx context.Context) ([]DisplayRow, error)
	FetchStats(ctx context.Context, rows []DisplayRow) (ExchangeStats, error)
}

// DisplayRow is the uniform cross-exchange row schema. Price fields are
// percentages in [0,100]; pointers distinguish "unknown" from an observed
// zero, which matters for the probability fallback chain.
type DisplayRow struct {
	Title        string    `json:"title"`
	Subtitle     string    `json:"subtitle,omitempty"`
	Ticker       string    `json:"ticker"`
	EventTicker  string    `json:"event_ticker"`
	Category     string    `json:"category,omitempty"`
	MarketType   string    `json:"market_type,omitempty"`
	Status       string    `json:"status,omitempty"`
	CloseTime    time.Time `json:"close_time,omitzero"`
	YesBidPct    *float64  `json:"yes_bid_pct,omitempty"`
	YesAskPct    *float64  `json:"yes_ask_pct,omitempty"`
	NoBidPct     *float64  `json:"no_bid_pct,omitempty"`
	NoAskPct     *float64  `json:"no_ask_pct,omitempty"`
	LastTraded   *float64  `json:"last_traded_pct,omitempty"`
	ImpliedProb  *float64  `json:"implied_yes_prob,omitempty"`
	Volume       *float64  `json:"volume,omitempty"`
	Volume24h    *float64  `json:"volume_24h,omitempty"`
	OpenInterest *float64  `json:"open_interest,omitempty"`
	YesSubTitle  string    `json:"yes_sub_title,omitempty"`
	OptionName   string    `json:"option_name,omitempty"`
	Platform     Platform  `json:"platform"`
}

// EventGroup aggregates the rows sharing an event ticker. Representative
// metadata comes from the highest-probability member; volume and open
// interest are summed across members with missing values counted as zero.
type EventGroup struct {
	EventTicker  string       `json:"event_ticker"`
	Title        string       `json:"title"`
	Category     string       `json:"category,omitempty"`
	Status       string       `json:"status,omitempty"`
	CloseTime    time.Time    `json:"close_time,omitzero"`
	Platform     Platform     `json:"platform"`
	Volume24h    float64      `json:"volume_24h"`
	OpenInterest float64      `json:"open_interest"`
	Outcomes     []DisplayRow `json:"outcomes"`
}

// Trade is a normalized trade-level record used for weekly stats. Price is
// in dollars per contract regardless of the venue's native unit; Size is the
// contract/unit count, zero when the venue does not report one.
type Trade struct {
	Price     float64   `json:"price"`
	Size      float64   `json:"size"`
	Timestamp time.Time `json:"timestamp"`
}

// ExchangeStats is the per-exchange headline snapshot shown above the grid.
type ExchangeStats struct {
	Name                 string  `json:"name"`
	WeeklyNotionalVolume float64 `json:"weekly_notional_volume"`
	ActiveMarkets        int     `json:"active_markets"`
	WeeklyTransactions   int     `json:"weekly_transactions"`
	OpenInterest         float64 `json:"open_interest"`
}

// TopLevelStats bundles per-exchange stats. A nil entry means the exchange
// was not fetched this refresh, which the UI renders differently from a
// fetched exchange with zero activity.
type TopLevelStats struct {
	Kalshi     *ExchangeStats `json:"kalshi,omitempty"`
	Polymarket *ExchangeStats `json:"polymarket,omitempty"`
}

// Float returns a pointer to v. Convenience for building rows.
func Float(v float64) *float64 {
	return &v
}
