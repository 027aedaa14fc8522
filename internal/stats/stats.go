package stats

import "github.com/oddsylabs/oddsy/internal/markets"

// Compute derives one exchange's headline stats from its current rows and,
// when available, trade-level records from the reporting window.
//
// Trades always win over the proxy: notional is the sum of price*size in
// dollars and the transaction count is the total contract count (row count
// when the venue reports no sizes). Without trades, weekly figures are
// approximated as 24h volume * 7, weighted by last traded price when any
// row has one.
//
// openInterest overrides the row-level sum; venues with a dedicated
// aggregate endpoint pass it here.
func Compute(name string, rows []markets.DisplayRow, activeMarkets int, openInterest *float64, trades []markets.Trade) markets.ExchangeStats {
	out := markets.ExchangeStats{Name: name}
	if len(rows) == 0 && len(trades) == 0 && openInterest == nil {
		return out
	}

	out.ActiveMarkets = activeMarkets
	if openInterest != nil {
		out.OpenInterest = *openInterest
	} else {
		for _, r := range rows {
			if r.OpenInterest != nil {
				out.OpenInterest += *r.OpenInterest
			}
		}
	}

	if len(trades) > 0 {
		out.WeeklyNotionalVolume, out.WeeklyTransactions = fromTrades(trades)
		return out
	}

	out.WeeklyNotionalVolume, out.WeeklyTransactions = fromVolumeProxy(rows)
	return out
}

func fromTrades(trades []markets.Trade) (notional float64, transactions int) {
	var totalSize float64
	for _, t := range trades {
		notional += t.Price * t.Size
		totalSize += t.Size
	}
	if totalSize > 0 {
		transactions = int(totalSize)
	} else {
		transactions = len(trades)
	}
	return notional, transactions
}

// fromVolumeProxy approximates weekly figures from 24h volumes. Rows
// missing a last traded price contribute unweighted dollars only when no
// row at all carries a price; otherwise a missing price means zero notional
// for that row, mirroring how absent prices are treated elsewhere.
func fromVolumeProxy(rows []markets.DisplayRow) (notional float64, transactions int) {
	var v24, weighted float64
	anyPrice := false

	for _, r := range rows {
		if r.Volume24h == nil {
			continue
		}
		v24 += *r.Volume24h
		if r.LastTraded != nil {
			anyPrice = true
			weighted += *r.Volume24h * (*r.LastTraded / 100)
		}
	}

	transactions = int(v24 * 7)
	if anyPrice {
		notional = weighted * 7
	} else {
		notional = v24 * 7
	}
	return notional, transactions
}
