package markets

import "testing"

func f(v float64) *float64 { return &v }

func TestImpliedProbability_LastTradedWins(t *testing.T) {
	got := ImpliedProbability(f(62.5), f(40), f(60))
	if got == nil || *got != 62.5 {
		t.Fatalf("expected 62.5, got %v", got)
	}
}

func TestImpliedProbability_ZeroLastTradedFallsThrough(t *testing.T) {
	// A traded price of exactly zero is an observed price, but the chain
	// requires strictly positive; the bid/ask mean must win here.
	got := ImpliedProbability(f(0), f(40.0), f(60.0))
	if got == nil || *got != 50.0 {
		t.Fatalf("expected 50.0 from bid/ask mean, got %v", got)
	}
}

func TestImpliedProbability_MidpointRounding(t *testing.T) {
	got := ImpliedProbability(nil, f(33.3), f(33.4))
	if got == nil || *got != 33.4 {
		t.Fatalf("expected 33.4 (rounded mid of 33.35), got %v", got)
	}
}

func TestImpliedProbability_SingleSide(t *testing.T) {
	if got := ImpliedProbability(nil, f(30.0), nil); got == nil || *got != 30.0 {
		t.Fatalf("bid only: expected 30.0, got %v", got)
	}
	if got := ImpliedProbability(nil, nil, f(45.0)); got == nil || *got != 45.0 {
		t.Fatalf("ask only: expected 45.0, got %v", got)
	}
}

func TestImpliedProbability_AllUnknown(t *testing.T) {
	if got := ImpliedProbability(nil, nil, nil); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}
}

func TestImpliedProbability_BothSidesZero(t *testing.T) {
	// Both sides present but at zero: rule 2 needs a positive side and
	// rule 3 needs a positive value, so the result is unknown, not 0.
	if got := ImpliedProbability(nil, f(0), f(0)); got != nil {
		t.Fatalf("expected nil, got %v", *got)
	}
}

func TestImpliedProbability_RangeInvariant(t *testing.T) {
	cases := [][3]*float64{
		{f(100), nil, nil},
		{nil, f(0.1), f(99.9)},
		{f(0), f(0), f(1)},
		{nil, f(73.2), nil},
		{nil, nil, nil},
	}
	for i, c := range cases {
		got := ImpliedProbability(c[0], c[1], c[2])
		if got == nil {
			continue
		}
		if *got < 0 || *got > 100 {
			t.Errorf("case %d: probability %v out of [0,100]", i, *got)
		}
	}
}

func TestRowImpliedProbability_CategoricalExcluded(t *testing.T) {
	row := DisplayRow{MarketType: TypeCategorical, LastTraded: f(80)}
	if got := RowImpliedProbability(row); got != nil {
		t.Fatalf("categorical market must not get an implied probability, got %v", *got)
	}

	row.MarketType = ""
	if got := RowImpliedProbability(row); got == nil || *got != 80 {
		t.Fatalf("unspecified type should behave as binary, got %v", got)
	}
}

func TestPctFromFraction(t *testing.T) {
	if got := PctFromFraction(nil); got != nil {
		t.Fatalf("nil in, nil out; got %v", *got)
	}
	if got := PctFromFraction(f(0.625)); got == nil || *got != 62.5 {
		t.Fatalf("expected 62.5, got %v", got)
	}
	if got := PctFromFraction(f(0.3333)); got == nil || *got != 33.3 {
		t.Fatalf("expected 33.3, got %v", got)
	}
}
