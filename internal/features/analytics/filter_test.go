package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiltersMatches(t *testing.T) {
	record := EventRecord{Worksite: "ws-1", Technician: "tech-a", Status: StatusCompleted}

	tests := []struct {
		name    string
		filters Filters
		want    bool
	}{
		{name: "no filters", filters: Filters{}, want: true},
		{name: "empty slices", filters: Filters{Worksites: []string{}, Technicians: []string{}}, want: true},
		{name: "worksite match", filters: Filters{Worksites: []string{"ws-2", "ws-1"}}, want: true},
		{name: "worksite miss", filters: Filters{Worksites: []string{"ws-2"}}, want: false},
		{name: "technician miss", filters: Filters{Technicians: []string{"tech-b"}}, want: false},
		{name: "status match", filters: Filters{Statuses: []FormStatus{StatusCompleted}}, want: true},
		{name: "status miss", filters: Filters{Statuses: []FormStatus{StatusDraft}}, want: false},
		{
			name: "all lists must match",
			filters: Filters{
				Worksites:   []string{"ws-1"},
				Technicians: []string{"tech-a"},
				Statuses:    []FormStatus{StatusDraft},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filters.Matches(record))
		})
	}
}

func TestFilterEventsHalfOpenRange(t *testing.T) {
	start := at(2024, 1, 2, 0, 0)
	end := at(2024, 1, 3, 0, 0)
	records := []EventRecord{
		{ID: "before", CreatedAt: start.Add(-time.Nanosecond)},
		{ID: "at-start", CreatedAt: start},
		{ID: "inside", CreatedAt: start.Add(12 * time.Hour)},
		{ID: "at-end", CreatedAt: end},
	}

	got := FilterEvents(records, start, end, Filters{})

	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"at-start", "inside"}, ids)
	assert.Len(t, records, 4)
}

func TestFilterEventsEmptyFiltersKeepEverythingInRange(t *testing.T) {
	q := fixtureQuery()
	all := FilterEvents(fixture(), q.Start, q.End, Filters{})
	assert.Len(t, all, 4)
	assert.True(t, Filters{}.IsEmpty())
	assert.False(t, Filters{Technicians: []string{"x"}}.IsEmpty())
}
