package store

import "time"

// History buckets records by the local calendar day of their last update.
type History[T any] struct {
	Today    []T `json:"today"`
	ThisWeek []T `json:"thisWeek"`
	Older    []T `json:"older"`
}

// Len returns the number of records across all buckets.
func (h History[T]) Len() int {
	return len(h.Today) + len(h.ThisWeek) + len(h.Older)
}

// groupByRecency puts records updated since local midnight in Today, those
// from the six days before in ThisWeek and the rest in Older. Each bucket is
// ordered newest first.
func groupByRecency[T any](items []T, updated func(T) Millis, now time.Time) History[T] {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayStart := MillisOf(today)
	weekStart := MillisOf(today.AddDate(0, 0, -6))

	sorted := append([]T(nil), items...)
	sortByUpdated(sorted, updated)

	h := History[T]{Today: []T{}, ThisWeek: []T{}, Older: []T{}}
	for _, item := range sorted {
		switch ts := updated(item); {
		case ts >= todayStart:
			h.Today = append(h.Today, item)
		case ts >= weekStart:
			h.ThisWeek = append(h.ThisWeek, item)
		default:
			h.Older = append(h.Older, item)
		}
	}
	return h
}
