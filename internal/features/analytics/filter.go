package analytics

import (
	"slices"
	"time"
)

// Matches reports whether a record passes every non-empty filter list.
func (f Filters) Matches(r EventRecord) bool {
	if len(f.Worksites) > 0 && !slices.Contains(f.Worksites, r.Worksite) {
		return false
	}
	if len(f.Technicians) > 0 && !slices.Contains(f.Technicians, r.Technician) {
		return false
	}
	if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, r.Status) {
		return false
	}
	return true
}

// IsEmpty is true when the filter set places no restriction on records.
func (f Filters) IsEmpty() bool {
	return len(f.Worksites) == 0 && len(f.Technicians) == 0 && len(f.Statuses) == 0
}

// FilterEvents returns the records created in [start, end) that match filters.
// The input slice is not modified.
func FilterEvents(records []EventRecord, start, end time.Time, filters Filters) []EventRecord {
	matched := make([]EventRecord, 0, len(records))
	for _, r := range records {
		if !inRange(r.CreatedAt, start, end) {
			continue
		}
		if !filters.Matches(r) {
			continue
		}
		matched = append(matched, r)
	}
	return matched
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}
