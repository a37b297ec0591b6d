package analytics

import (
	"math"
	"sort"
	"time"
)

const (
	unassignedLabel    = "Unassigned"
	unknownStatusLabel = "unknown"
)

// summary holds the headline quantities of one window.
type summary struct {
	total             int
	completed         int
	completionRate    float64
	avgCompletionTime float64
	activeUsers       int
}

// Aggregate computes the full analytics result for q. records may span both
// the query window and the preceding window of equal length; anything outside
// the two windows is ignored.
func Aggregate(q Query, records []EventRecord) *AnalyticsResult {
	buckets := GenerateBuckets(q.Start, q.End, q.Granularity)

	var current, previous []EventRecord
	if q.Span() > 0 {
		current = FilterEvents(records, q.Start, q.End, q.Filters)
		prev := q.Previous()
		previous = FilterEvents(records, prev.Start, prev.End, prev.Filters)
	}

	metrics := buildMetrics(summarize(current), summarize(previous))

	return &AnalyticsResult{
		Metrics: metrics,
		Trends:  buildTrends(buckets, current),
		Distributions: Distributions{
			StatusDistribution:   distribution(current, statusLabel, statusLabel),
			WorksiteDistribution: distribution(current, worksiteKey, worksiteLabel),
		},
		Comparisons: Comparisons{PeriodComparison: buildComparisons(metrics)},
	}
}

func summarize(records []EventRecord) summary {
	s := summary{total: len(records)}

	technicians := make(map[string]struct{})
	var totalMinutes float64
	var timed int

	for _, r := range records {
		if r.Technician != "" {
			technicians[r.Technician] = struct{}{}
		}
		if r.Status != StatusCompleted {
			continue
		}
		s.completed++

		// A completed form without a usable completion timestamp still counts
		// as completed but cannot contribute to the average duration.
		if r.CompletedAt == nil || r.CompletedAt.Before(r.CreatedAt) {
			continue
		}
		totalMinutes += r.CompletedAt.Sub(r.CreatedAt).Minutes()
		timed++
	}

	if s.total > 0 {
		s.completionRate = float64(s.completed) / float64(s.total) * 100
	}
	if timed > 0 {
		s.avgCompletionTime = round(totalMinutes/float64(timed), 2)
	}
	s.activeUsers = len(technicians)
	return s
}

func buildMetrics(cur, prev summary) Metrics {
	return Metrics{
		TotalForms:        newMetricValue(float64(cur.total), float64(prev.total)),
		CompletedForms:    newMetricValue(float64(cur.completed), float64(prev.completed)),
		CompletionRate:    newMetricValue(cur.completionRate, prev.completionRate),
		AvgCompletionTime: newMetricValue(cur.avgCompletionTime, prev.avgCompletionTime),
		ActiveUsers:       newMetricValue(float64(cur.activeUsers), float64(prev.activeUsers)),
	}
}

func newMetricValue(current, previous float64) MetricValue {
	return MetricValue{
		Current:          current,
		Previous:         previous,
		ChangePercentage: percentChange(current, previous),
	}
}

// percentChange is nil when previous is zero.
func percentChange(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

func buildTrends(buckets []Bucket, records []EventRecord) Trends {
	created := make([]float64, len(buckets))
	completed := make([]float64, len(buckets))
	active := make([]map[string]struct{}, len(buckets))

	for _, r := range records {
		if i := bucketIndex(buckets, r.CreatedAt); i >= 0 {
			created[i]++
			if r.Technician != "" {
				if active[i] == nil {
					active[i] = make(map[string]struct{})
				}
				active[i][r.Technician] = struct{}{}
			}
		}
		if r.CompletedAt != nil {
			if i := bucketIndex(buckets, *r.CompletedAt); i >= 0 {
				completed[i]++
			}
		}
	}

	users := make([]float64, len(buckets))
	for i, set := range active {
		users[i] = float64(len(set))
	}

	return Trends{
		FormCreation:   BuildTrend(buckets, created),
		FormCompletion: BuildTrend(buckets, completed),
		UserActivity:   BuildTrend(buckets, users),
	}
}

// bucketIndex returns the bucket containing t, or -1.
func bucketIndex(buckets []Bucket, t time.Time) int {
	i := sort.Search(len(buckets), func(i int) bool {
		return buckets[i].End.After(t)
	})
	if i < len(buckets) && !t.Before(buckets[i].Start) {
		return i
	}
	return -1
}

// BuildTrend pairs each bucket with its value and the change from the
// previous bucket. values must have one entry per bucket.
func BuildTrend(buckets []Bucket, values []float64) []TrendPoint {
	points := make([]TrendPoint, 0, len(buckets))
	for i, b := range buckets {
		p := TrendPoint{
			Period: b.Label,
			Start:  b.Start,
			End:    b.End,
			Value:  values[i],
		}
		if i > 0 {
			prev := values[i-1]
			change := values[i] - prev
			p.Change = &change
			if prev != 0 {
				pct := change / prev * 100
				p.ChangePercentage = &pct
			}
		}
		points = append(points, p)
	}
	return points
}

func statusLabel(r EventRecord) string {
	if r.Status == "" {
		return unknownStatusLabel
	}
	return string(r.Status)
}

// worksiteKey groups by worksite ID. Records without one share the empty key.
func worksiteKey(r EventRecord) string {
	return r.Worksite
}

func worksiteLabel(r EventRecord) string {
	switch {
	case r.WorksiteName != "":
		return r.WorksiteName
	case r.Worksite != "":
		return r.Worksite
	default:
		return unassignedLabel
	}
}

// distribution groups records by key and names each category with the label
// of its first record. Categories without records are not listed.
func distribution(records []EventRecord, key, label func(EventRecord) string) []DistributionItem {
	items := []DistributionItem{}
	if len(records) == 0 {
		return items
	}

	type category struct {
		key   string
		label string
		count int
	}
	index := make(map[string]int)
	var categories []category
	for _, r := range records {
		k := key(r)
		i, ok := index[k]
		if !ok {
			i = len(categories)
			index[k] = i
			categories = append(categories, category{key: k, label: label(r)})
		}
		categories[i].count++
	}

	sort.Slice(categories, func(i, j int) bool {
		a, b := categories[i], categories[j]
		if a.count != b.count {
			return a.count > b.count
		}
		if a.label != b.label {
			return a.label < b.label
		}
		return a.key < b.key
	})

	total := float64(len(records))
	for _, c := range categories {
		items = append(items, DistributionItem{
			Label:      c.label,
			Count:      c.count,
			Percentage: round(float64(c.count)/total*100, 1),
		})
	}
	return items
}

func buildComparisons(m Metrics) []ComparisonItem {
	return []ComparisonItem{
		{Category: "Total Forms", Current: m.TotalForms.Current, Previous: m.TotalForms.Previous},
		{Category: "Completed Forms", Current: m.CompletedForms.Current, Previous: m.CompletedForms.Previous},
		{Category: "Completion Rate", Current: m.CompletionRate.Current, Previous: m.CompletionRate.Previous},
		{Category: "Avg Completion Time", Current: m.AvgCompletionTime.Current, Previous: m.AvgCompletionTime.Previous},
		{Category: "Active Users", Current: m.ActiveUsers.Current, Previous: m.ActiveUsers.Previous},
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
