package markets

import "math"

// Round1 rounds to one decimal place, the display precision for percentages.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// PctFromFraction converts an exchange-native 0..1 price fraction into a
// percentage rounded to one decimal. Nil stays nil.
func PctFromFraction(v *float64) *float64 {
	if v == nil {
		return nil
	}
	p := Round1(*v * 100)
	return &p
}

// ImpliedProbability resolves a single implied YES probability (0-100) from
// the percent-denominated price fields. First applicable rule wins:
//
//  1. last traded, when known and strictly positive
//  2. mean of bid and ask, rounded to 1dp, when both are known and at least
//     one is positive
//  3. whichever single side is known and positive
//  4. unknown (nil)
//
// An observed zero price never satisfies a rule; nil means no price at all,
// and the two must not be conflated.
func ImpliedProbability(lastTraded, yesBid, yesAsk *float64) *float64 {
	if lastTraded != nil && *lastTraded > 0 {
		v := *lastTraded
		return &v
	}

	if yesBid != nil && yesAsk != nil && (*yesBid > 0 || *yesAsk > 0) {
		mid := Round1((*yesBid + *yesAsk) / 2)
		return &mid
	}

	for _, side := range []*float64{yesBid, yesAsk} {
		if side != nil && *side > 0 {
			v := *side
			return &v
		}
	}

	return nil
}

// RowImpliedProbability applies the fallback chain to a row, excluding
// markets with more than two outcomes: a categorical market has no single
// YES probability. Rows with an unspecified type are treated as binary.
func RowImpliedProbability(row DisplayRow) *float64 {
	if row.MarketType != "" && row.MarketType != TypeBinary {
		return nil
	}
	return ImpliedProbability(row.LastTraded, row.YesBidPct, row.YesAskPct)
}
