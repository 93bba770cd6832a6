package metrics

import "sort"

// StatusCount is one row of the status frequency table.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// SortStatusCounts converts a status->count map into rows sorted by
// descending count, then by status for stability.
func SortStatusCounts(freq map[string]int) []StatusCount {
	if len(freq) == 0 {
		return nil
	}
	rows := make([]StatusCount, 0, len(freq))
	for status, count := range freq {
		rows = append(rows, StatusCount{Status: status, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Status < rows[j].Status
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}

// CauseCount is one row of the failure cause breakdown.
type CauseCount struct {
	Cause string `json:"cause"`
	Count int    `json:"count"`
}

// SortCauseCounts orders cause rows like SortStatusCounts.
func SortCauseCounts(freq map[string]int) []CauseCount {
	if len(freq) == 0 {
		return nil
	}
	rows := make([]CauseCount, 0, len(freq))
	for cause, count := range freq {
		rows = append(rows, CauseCount{Cause: cause, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count == rows[j].Count {
			return rows[i].Cause < rows[j].Cause
		}
		return rows[i].Count > rows[j].Count
	})
	return rows
}
