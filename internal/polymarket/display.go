package polymarket

import (
	"strconv"
	"time"

	"github.com/oddsylabs/oddsy/internal/markets"
)

// BuildDisplayRows explodes each Gamma market into one row per outcome, so a
// multi-outcome market groups like an event with member markets. Book prices
// win over Gamma's outcome prices; a price array whose length disagrees with
// the outcomes array is discarded wholesale rather than misaligned.
func BuildDisplayRows(gamma []GammaMarket, books map[string]BookSummary) []markets.DisplayRow {
	var rows []markets.DisplayRow
	for _, m := range gamma {
		rows = append(rows, explodeMarket(m, books)...)
	}
	return rows
}

func explodeMarket(m GammaMarket, books map[string]BookSummary) []markets.DisplayRow {
	if len(m.Outcomes) == 0 {
		return nil
	}

	title := firstNonEmpty(m.Question, m.Title, m.Slug, "Polymarket market")
	eventTicker := firstNonEmpty(m.Slug, m.ConditionID, title)
	closeTime := parseCloseTime(firstNonEmpty(m.EndDateISO, m.EndDate))

	marketType := markets.TypeBinary
	if len(m.Outcomes) > 2 {
		marketType = markets.TypeCategorical
	}
	status := "open"
	if m.Closed {
		status = "closed"
	}

	vol24h := markets.Float(0)
	if m.Volume24hClob != nil {
		vol24h = markets.Float(*m.Volume24hClob)
	} else if m.Volume24h != nil {
		vol24h = markets.Float(*m.Volume24h)
	}

	prices := m.OutcomePrices
	if len(prices) != len(m.Outcomes) {
		prices = nil
	}

	rows := make([]markets.DisplayRow, 0, len(m.Outcomes))
	for i, outcome := range m.Outcomes {
		var tokenID string
		if i < len(m.ClobTokenIDs) {
			tokenID = m.ClobTokenIDs[i]
		}

		var yesBid, yesAsk *float64
		if tokenID != "" {
			if b, ok := books[tokenID]; ok {
				yesBid = b.BestBid
				yesAsk = b.BestAsk
			}
		}

		mid := midpoint(yesBid, yesAsk)
		if mid == nil && i < len(prices) {
			if v, err := strconv.ParseFloat(prices[i], 64); err == nil {
				mid = &v
			}
		}

		ticker := tokenID
		if ticker == "" {
			ticker = m.ConditionID + ":" + outcome
		}

		rows = append(rows, markets.DisplayRow{
			Title:       title,
			Ticker:      ticker,
			EventTicker: eventTicker,
			Category:    m.Category,
			MarketType:  marketType,
			Status:      status,
			CloseTime:   closeTime,
			YesBidPct:   markets.PctFromFraction(yesBid),
			YesAskPct:   markets.PctFromFraction(yesAsk),
			ImpliedProb: markets.PctFromFraction(mid),
			Volume24h:   vol24h,
			YesSubTitle: outcome,
			Platform:    markets.PlatformPolymarket,
		})
	}
	return rows
}

func midpoint(bid, ask *float64) *float64 {
	switch {
	case bid != nil && ask != nil:
		v := (*bid + *ask) / 2
		return &v
	case bid != nil:
		v := *bid
		return &v
	case ask != nil:
		v := *ask
		return &v
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func parseCloseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
