package markets

import (
	"regexp"
	"strings"
)

// UnknownLabel is the terminal fallback when no field yields an outcome name.
const UnknownLabel = "(unknown)"

var (
	shortCodeRe = regexp.MustCompile(`^[A-Z]{2,6}$`)
	siSwimRe    = regexp.MustCompile(`(?i)^Will (.+?) be on the cover of .*Sports Illustrated Swimsuit`)
)

// ExtractOptionName pulls a human-readable option name out of a title for
// the known recurring market family whose titles embed the subject. The
// outcome hint must be a short all-caps code (2-6 chars) before the title is
// even considered; ordinary titles would otherwise false-positive.
func ExtractOptionName(title, yesSubTitle string) string {
	hint := strings.TrimSpace(yesSubTitle)
	if hint == "" || !shortCodeRe.MatchString(hint) {
		return ""
	}
	m := siSwimRe.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// OutcomeLabel resolves the display name for a row's outcome. Priority:
// the pre-extracted option name, then the outcome hint (with the exchange's
// leading "::" compound marker stripped), then the ticker suffix after its
// last hyphen, then UnknownLabel. Never returns an empty string.
func OutcomeLabel(row DisplayRow) string {
	if name := strings.TrimSpace(row.OptionName); name != "" {
		return name
	}

	if sub := strings.TrimSpace(row.YesSubTitle); sub != "" {
		if rest, ok := strings.CutPrefix(sub, "::"); ok {
			sub = strings.TrimSpace(rest)
		}
		if sub != "" {
			return sub
		}
	}

	if ticker := strings.TrimSpace(row.Ticker); ticker != "" {
		if idx := strings.LastIndex(ticker, "-"); idx >= 0 && idx+1 < len(ticker) {
			return ticker[idx+1:]
		}
		return ticker
	}

	return UnknownLabel
}
