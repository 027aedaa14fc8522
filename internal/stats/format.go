package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatDollar renders a currency amount with thousands separators and no
// cents, e.g. 1234567.8 -> "$1,234,568".
func FormatDollar(v float64) string {
	neg := v < 0
	s := groupThousands(int64(math.Round(math.Abs(v))))
	if neg {
		return "-$" + s
	}
	return "$" + s
}

// FormatInt renders an integer with thousands separators.
func FormatInt(v int) string {
	if v < 0 {
		return "-" + groupThousands(int64(-v))
	}
	return groupThousands(int64(v))
}

func groupThousands(v int64) string {
	s := strconv.FormatInt(v, 10)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return fmt.Sprintf("%s,%s", s, strings.Join(parts, ","))
}
