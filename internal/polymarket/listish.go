package polymarket

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Listish is a []string that tolerates the shapes Gamma actually serves for
// parallel-array fields: a real JSON array, a JSON array encoded inside a
// string, a bare comma-separated string, or null.
type Listish []string

func (l *Listish) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*l = nil
		return nil
	}

	if trimmed[0] == '[' {
		items, ok := decodeArray(data)
		if !ok {
			*l = nil
			return nil
		}
		*l = items
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*l = nil
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*l = nil
		return nil
	}

	// A string payload is usually a JSON array in disguise.
	if strings.HasPrefix(s, "[") {
		if items, ok := decodeArray([]byte(s)); ok {
			*l = items
			return nil
		}
	}

	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, strings.Trim(strings.TrimSpace(p), `"'`))
	}
	*l = items
	return nil
}

func decodeArray(data []byte) ([]string, bool) {
	var raw []any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(raw))
	for _, v := range raw {
		switch t := v.(type) {
		case string:
			items = append(items, t)
		case float64:
			items = append(items, strconv.FormatFloat(t, 'f', -1, 64))
		case nil:
			items = append(items, "")
		default:
			b, err := json.Marshal(t)
			if err != nil {
				items = append(items, "")
				continue
			}
			items = append(items, string(b))
		}
	}
	return items, true
}
