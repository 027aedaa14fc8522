package markets

import "testing"

func TestGroupEvents_SortAndSum(t *testing.T) {
	rows := []DisplayRow{
		{EventTicker: "EVT1", Ticker: "EVT1-A", ImpliedProb: f(10), Volume24h: f(100)},
		{EventTicker: "EVT1", Ticker: "EVT1-B", ImpliedProb: f(70), Volume24h: f(250)},
		{EventTicker: "EVT1", Ticker: "EVT1-C", ImpliedProb: f(20)}, // missing volume counts as 0
	}

	groups := GroupEvents(rows)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}

	g := groups[0]
	want := []float64{70, 20, 10}
	for i, w := range want {
		if g.Outcomes[i].ImpliedProb == nil || *g.Outcomes[i].ImpliedProb != w {
			t.Fatalf("outcome %d: expected prob %v, got %v", i, w, g.Outcomes[i].ImpliedProb)
		}
	}
	if g.Volume24h != 350 {
		t.Fatalf("expected summed volume 350, got %v", g.Volume24h)
	}
}

func TestGroupEvents_RepresentativeFromTopRow(t *testing.T) {
	rows := []DisplayRow{
		{EventTicker: "E", Ticker: "E-LOW", Title: "Low", Category: "Politics", ImpliedProb: f(5)},
		{EventTicker: "E", Ticker: "E-HIGH", Title: "High", Category: "Elections", ImpliedProb: f(95)},
	}
	g := GroupEvents(rows)[0]
	if g.Title != "High" || g.Category != "Elections" {
		t.Fatalf("representative metadata should come from top-sorted row, got %q/%q", g.Title, g.Category)
	}
}

func TestGroupEvents_UnknownProbSortsLast(t *testing.T) {
	rows := []DisplayRow{
		{EventTicker: "E", Ticker: "E-A"},
		{EventTicker: "E", Ticker: "E-B", ImpliedProb: f(0)},
		{EventTicker: "E", Ticker: "E-C", ImpliedProb: f(1)},
	}
	g := GroupEvents(rows)[0]
	if g.Outcomes[2].Ticker != "E-A" {
		t.Fatalf("unknown probability must sort after known zero, order: %q %q %q",
			g.Outcomes[0].Ticker, g.Outcomes[1].Ticker, g.Outcomes[2].Ticker)
	}
}

func TestGroupEvents_StableTieOrder(t *testing.T) {
	rows := []DisplayRow{
		{EventTicker: "E", Ticker: "first", ImpliedProb: f(50)},
		{EventTicker: "E", Ticker: "second", ImpliedProb: f(50)},
	}
	g := GroupEvents(rows)[0]
	if g.Outcomes[0].Ticker != "first" || g.Outcomes[1].Ticker != "second" {
		t.Fatal("equal probabilities must preserve fetch order")
	}
}

func TestGroupEvents_RankedByVolume(t *testing.T) {
	rows := []DisplayRow{
		{EventTicker: "SMALL", Ticker: "S-1", Volume24h: f(10)},
		{EventTicker: "BIG", Ticker: "B-1", Volume24h: f(500)},
		{EventTicker: "MID", Ticker: "M-1", Volume24h: f(40)},
	}
	groups := GroupEvents(rows)
	if groups[0].EventTicker != "BIG" || groups[1].EventTicker != "MID" || groups[2].EventTicker != "SMALL" {
		t.Fatalf("groups not ranked by volume: %s %s %s",
			groups[0].EventTicker, groups[1].EventTicker, groups[2].EventTicker)
	}
}

func TestGroupEvents_SingletonForMissingEventTicker(t *testing.T) {
	rows := []DisplayRow{
		{Ticker: "LONER-A"},
		{Ticker: "LONER-B"},
	}
	groups := GroupEvents(rows)
	if len(groups) != 2 {
		t.Fatalf("rows without an event ticker must form singleton groups, got %d groups", len(groups))
	}
}
