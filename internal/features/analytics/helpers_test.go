package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

// fixture is four days of activity (Jan 1-4, 2024) plus two forms in the
// preceding four-day window.
func fixture() []EventRecord {
	return []EventRecord{
		{ID: "p1", CreatedAt: at(2023, 12, 30, 9, 0), CompletedAt: ptr(at(2023, 12, 30, 11, 0)), Status: StatusCompleted, Worksite: "ws-1", Technician: "tech-a"},
		{ID: "p2", CreatedAt: at(2023, 12, 29, 9, 0), Status: StatusDraft, Worksite: "ws-1", Technician: "tech-d"},

		{ID: "r1", CreatedAt: at(2024, 1, 1, 10, 0), CompletedAt: ptr(at(2024, 1, 1, 11, 0)), Status: StatusCompleted, Worksite: "ws-1", Technician: "tech-a"},
		{ID: "r2", CreatedAt: at(2024, 1, 2, 9, 0), Status: StatusDraft, Worksite: "ws-1", Technician: "tech-b"},
		{ID: "r3", CreatedAt: at(2024, 1, 3, 8, 0), CompletedAt: ptr(at(2024, 1, 3, 8, 30)), Status: StatusCompleted, Worksite: "ws-2", Technician: "tech-a"},
		{ID: "r4", CreatedAt: at(2024, 1, 4, 12, 0), Status: StatusInProgress, Worksite: "ws-2", Technician: "tech-c"},
	}
}

func fixtureQuery() Query {
	return Query{
		Start:       at(2024, 1, 1, 0, 0),
		End:         at(2024, 1, 5, 0, 0),
		Granularity: GranularityDay,
	}
}

type listCall struct {
	start, end time.Time
}

type fakeSource struct {
	mu      sync.Mutex
	records []EventRecord
	err     error
	calls   []listCall
}

func (s *fakeSource) ListEvents(_ context.Context, start, end time.Time) ([]EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, listCall{start: start, end: end})
	if s.err != nil {
		return nil, s.err
	}
	var out []EventRecord
	for _, r := range s.records {
		if inRange(r.CreatedAt, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]*AnalyticsResult
	getErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*AnalyticsResult)}
}

func (c *memoryCache) Get(_ context.Context, key string) (*AnalyticsResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	r, ok := c.entries[key]
	return r, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, result *AnalyticsResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = result
	return nil
}

func newTestCollector() *Collector {
	return NewCollector(prometheus.NewRegistry(), "test")
}

func newTestService(source EventSource, cache ResultCache) AnalyticsService {
	if cache == nil {
		cache = NoopResultCache{}
	}
	return NewAnalyticsService(source, cache, newTestCollector(), zap.NewNop())
}

var admin = Requester{UserID: "admin-1", Role: RoleAdmin}
