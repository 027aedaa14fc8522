package kalshi

import (
	"time"

	"github.com/oddsylabs/oddsy/internal/markets"
)

// BuildDisplayRows converts raw Kalshi markets into the uniform row schema.
// Dollar fractions become percentages, the implied probability chain runs on
// the converted fields, and rows without an event ticker fall back to their
// own ticker so they group as singletons.
func BuildDisplayRows(raw []Market) []markets.DisplayRow {
	rows := make([]markets.DisplayRow, 0, len(raw))
	for _, m := range raw {
		rows = append(rows, buildRow(m))
	}
	return rows
}

func buildRow(m Market) markets.DisplayRow {
	row := markets.DisplayRow{
		Title:        m.Title,
		Subtitle:     m.Subtitle,
		Ticker:       m.Ticker,
		EventTicker:  m.EventTicker,
		Category:     m.Category,
		MarketType:   m.MarketType,
		Status:       m.Status,
		CloseTime:    parseCloseTime(m.CloseTime),
		YesBidPct:    markets.PctFromFraction(m.YesBidDollars),
		YesAskPct:    markets.PctFromFraction(m.YesAskDollars),
		NoBidPct:     markets.PctFromFraction(m.NoBidDollars),
		NoAskPct:     markets.PctFromFraction(m.NoAskDollars),
		LastTraded:   markets.PctFromFraction(m.LastPriceDollars),
		Volume:       m.Volume,
		Volume24h:    m.Volume24h,
		OpenInterest: m.OpenInterest,
		YesSubTitle:  m.YesSubTitle,
		OptionName:   markets.ExtractOptionName(m.Title, m.YesSubTitle),
		Platform:     markets.PlatformKalshi,
	}

	if row.EventTicker == "" {
		row.EventTicker = row.Ticker
	}
	row.ImpliedProb = markets.RowImpliedProbability(row)
	return row
}

func parseCloseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}
