package markets

import "testing"

func TestOutcomeLabel_DoubleColonMarkerStripped(t *testing.T) {
	row := DisplayRow{YesSubTitle: "::Democratic"}
	if got := OutcomeLabel(row); got != "Democratic" {
		t.Fatalf("expected Democratic, got %q", got)
	}
}

func TestOutcomeLabel_TickerSuffix(t *testing.T) {
	row := DisplayRow{Ticker: "PRES-2024-DEM"}
	if got := OutcomeLabel(row); got != "DEM" {
		t.Fatalf("expected DEM, got %q", got)
	}
}

func TestOutcomeLabel_NoHyphenUsesWholeTicker(t *testing.T) {
	row := DisplayRow{Ticker: "INXD"}
	if got := OutcomeLabel(row); got != "INXD" {
		t.Fatalf("expected INXD, got %q", got)
	}
}

func TestOutcomeLabel_AllEmpty(t *testing.T) {
	if got := OutcomeLabel(DisplayRow{}); got != UnknownLabel {
		t.Fatalf("expected %q, got %q", UnknownLabel, got)
	}
}

func TestOutcomeLabel_OptionNameWins(t *testing.T) {
	row := DisplayRow{
		OptionName:  "Taylor Swift",
		YesSubTitle: "::Other",
		Ticker:      "SI-2025-TS",
	}
	if got := OutcomeLabel(row); got != "Taylor Swift" {
		t.Fatalf("expected option name to win, got %q", got)
	}
}

func TestOutcomeLabel_WhitespaceHint(t *testing.T) {
	row := DisplayRow{YesSubTitle: "  ::  Green Party  ", Ticker: "X-GRN"}
	if got := OutcomeLabel(row); got != "Green Party" {
		t.Fatalf("expected marker and whitespace stripped, got %q", got)
	}
}

func TestExtractOptionName(t *testing.T) {
	title := "Will Taylor Swift be on the cover of the 2026 Sports Illustrated Swimsuit issue?"

	if got := ExtractOptionName(title, "TSWIFT"); got != "Taylor Swift" {
		t.Fatalf("expected Taylor Swift, got %q", got)
	}

	// Hint that is not a short all-caps code must not trigger extraction.
	if got := ExtractOptionName(title, "Yes"); got != "" {
		t.Fatalf("expected no extraction for lowercase hint, got %q", got)
	}
	if got := ExtractOptionName(title, "TOOLONGCODE"); got != "" {
		t.Fatalf("expected no extraction for 11-char hint, got %q", got)
	}

	// Ordinary titles never match, even with a valid short code.
	if got := ExtractOptionName("Will the Fed cut rates in March?", "FED"); got != "" {
		t.Fatalf("expected no extraction for ordinary title, got %q", got)
	}
}
