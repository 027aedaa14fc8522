package markets

import "sort"

// GroupEvents partitions rows by event ticker and ranks the resulting
// groups by 24h volume. Within a group, outcomes are ordered by implied
// probability descending with unknowns last; both sorts are stable so ties
// keep their fetch order. The top-sorted row donates the group's
// representative metadata.
func GroupEvents(rows []DisplayRow) []EventGroup {
	byTicker := make(map[string][]DisplayRow)
	var order []string

	for _, row := range rows {
		key := row.EventTicker
		if key == "" {
			// Builders assign a fallback, but a bare row still gets
			// its own singleton group rather than a shared bucket.
			key = row.Ticker
		}
		if _, seen := byTicker[key]; !seen {
			order = append(order, key)
		}
		byTicker[key] = append(byTicker[key], row)
	}

	groups := make([]EventGroup, 0, len(order))
	for _, key := range order {
		members := byTicker[key]
		sort.SliceStable(members, func(i, j int) bool {
			return probRank(members[i].ImpliedProb) > probRank(members[j].ImpliedProb)
		})

		top := members[0]
		group := EventGroup{
			EventTicker: key,
			Title:       top.Title,
			Category:    top.Category,
			Status:      top.Status,
			CloseTime:   top.CloseTime,
			Platform:    top.Platform,
			Outcomes:    members,
		}
		for _, m := range members {
			if m.Volume24h != nil {
				group.Volume24h += *m.Volume24h
			}
			if m.OpenInterest != nil {
				group.OpenInterest += *m.OpenInterest
			}
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Volume24h > groups[j].Volume24h
	})
	return groups
}

// probRank maps an optional probability onto a sortable value with unknown
// below every known probability, including zero.
func probRank(p *float64) float64 {
	if p == nil {
		return -1
	}
	return *p
}
