package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMetrics(t *testing.T) {
	result := Aggregate(fixtureQuery(), fixture())
	m := result.Metrics

	assert.Equal(t, 4.0, m.TotalForms.Current)
	assert.Equal(t, 2.0, m.TotalForms.Previous)
	require.NotNil(t, m.TotalForms.ChangePercentage)
	assert.InDelta(t, 100.0, *m.TotalForms.ChangePercentage, 1e-9)

	assert.Equal(t, 2.0, m.CompletedForms.Current)
	assert.Equal(t, 1.0, m.CompletedForms.Previous)

	assert.Equal(t, 50.0, m.CompletionRate.Current)
	assert.Equal(t, 50.0, m.CompletionRate.Previous)
	require.NotNil(t, m.CompletionRate.ChangePercentage)
	assert.InDelta(t, 0.0, *m.CompletionRate.ChangePercentage, 1e-9)

	assert.Equal(t, 45.0, m.AvgCompletionTime.Current)
	assert.Equal(t, 120.0, m.AvgCompletionTime.Previous)
	require.NotNil(t, m.AvgCompletionTime.ChangePercentage)
	assert.InDelta(t, -62.5, *m.AvgCompletionTime.ChangePercentage, 1e-9)

	assert.Equal(t, 3.0, m.ActiveUsers.Current)
	assert.Equal(t, 2.0, m.ActiveUsers.Previous)
}

func TestAggregateTrends(t *testing.T) {
	result := Aggregate(fixtureQuery(), fixture())

	creation := result.Trends.FormCreation
	require.Len(t, creation, 4)
	assert.Equal(t, "2024-01-01", creation[0].Period)
	assert.Nil(t, creation[0].Change)
	assert.Nil(t, creation[0].ChangePercentage)
	for _, p := range creation {
		assert.Equal(t, 1.0, p.Value)
	}

	completion := result.Trends.FormCompletion
	require.Len(t, completion, 4)
	assert.Equal(t, []float64{1, 0, 1, 0}, trendValues(completion))
	require.NotNil(t, completion[1].ChangePercentage)
	assert.Equal(t, -100.0, *completion[1].ChangePercentage)
	require.NotNil(t, completion[2].Change)
	assert.Equal(t, 1.0, *completion[2].Change)
	assert.Nil(t, completion[2].ChangePercentage, "growth from zero has no percentage")

	assert.Equal(t, []float64{1, 1, 1, 1}, trendValues(result.Trends.UserActivity))
}

func TestAggregateDistributions(t *testing.T) {
	result := Aggregate(fixtureQuery(), fixture())

	status := result.Distributions.StatusDistribution
	require.Len(t, status, 3)
	assert.Equal(t, DistributionItem{Label: "completed", Count: 2, Percentage: 50}, status[0])
	assert.Equal(t, DistributionItem{Label: "draft", Count: 1, Percentage: 25}, status[1])
	assert.Equal(t, DistributionItem{Label: "in-progress", Count: 1, Percentage: 25}, status[2])

	sites := result.Distributions.WorksiteDistribution
	require.Len(t, sites, 2)
	assert.Equal(t, "ws-1", sites[0].Label)
	assert.Equal(t, "ws-2", sites[1].Label)
}

func TestDistributionPercentagesSumToHundred(t *testing.T) {
	var records []EventRecord
	statuses := []FormStatus{StatusDraft, StatusCompleted, StatusRejected}
	for i := 0; i < 7; i++ {
		records = append(records, EventRecord{
			CreatedAt: at(2024, 1, 1, i, 0),
			Status:    statuses[i%len(statuses)],
		})
	}

	items := distribution(records, statusLabel, statusLabel)
	var count int
	var pct float64
	for _, it := range items {
		count += it.Count
		pct += it.Percentage
	}
	assert.Equal(t, 7, count)
	assert.InDelta(t, 100.0, pct, 0.2)
}

func TestDistributionLabels(t *testing.T) {
	records := []EventRecord{
		{Worksite: "ws-1", WorksiteName: "North Plant"},
		{Worksite: "ws-2"},
		{},
	}
	sites := distribution(records, worksiteKey, worksiteLabel)

	var labels []string
	for _, it := range sites {
		labels = append(labels, it.Label)
	}
	assert.ElementsMatch(t, []string{"North Plant", "ws-2", "Unassigned"}, labels)

	status := distribution([]EventRecord{{}}, statusLabel, statusLabel)
	require.Len(t, status, 1)
	assert.Equal(t, "unknown", status[0].Label)
}

func TestWorksiteDistributionKeysByID(t *testing.T) {
	tests := []struct {
		name    string
		records []EventRecord
		want    []DistributionItem
	}{
		{
			name: "shared display name stays split",
			records: []EventRecord{
				{Worksite: "ws-1", WorksiteName: "Plant"},
				{Worksite: "ws-1", WorksiteName: "Plant"},
				{Worksite: "ws-2", WorksiteName: "Plant"},
			},
			want: []DistributionItem{
				{Label: "Plant", Count: 2, Percentage: 66.7},
				{Label: "Plant", Count: 1, Percentage: 33.3},
			},
		},
		{
			name: "name equal to another worksite ID",
			records: []EventRecord{
				{Worksite: "ws-1", WorksiteName: "ws-2"},
				{Worksite: "ws-2"},
			},
			want: []DistributionItem{
				{Label: "ws-2", Count: 1, Percentage: 50},
				{Label: "ws-2", Count: 1, Percentage: 50},
			},
		},
		{
			name: "unassigned records group together",
			records: []EventRecord{
				{},
				{WorksiteName: "Ghost"},
				{Worksite: "ws-3", WorksiteName: "South"},
			},
			want: []DistributionItem{
				{Label: "Unassigned", Count: 2, Percentage: 66.7},
				{Label: "South", Count: 1, Percentage: 33.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, distribution(tt.records, worksiteKey, worksiteLabel))
		})
	}
}

func TestAggregateFiltersApplyToBothWindows(t *testing.T) {
	q := fixtureQuery()
	q.Filters.Worksites = []string{"ws-1"}

	result := Aggregate(q, fixture())
	assert.Equal(t, 2.0, result.Metrics.TotalForms.Current)
	assert.Equal(t, 2.0, result.Metrics.TotalForms.Previous)
	require.Len(t, result.Distributions.WorksiteDistribution, 1)
	assert.Equal(t, 100.0, result.Distributions.WorksiteDistribution[0].Percentage)
}

func TestAggregateEmptyFilterListsAreNeutral(t *testing.T) {
	q := fixtureQuery()
	withEmpty := q
	withEmpty.Filters = Filters{Worksites: []string{}, Technicians: []string{}, Statuses: []FormStatus{}}

	assert.Equal(t, Aggregate(q, fixture()), Aggregate(withEmpty, fixture()))
}

func TestAggregateNoRecords(t *testing.T) {
	result := Aggregate(fixtureQuery(), nil)

	assert.Zero(t, result.Metrics.TotalForms.Current)
	assert.Zero(t, result.Metrics.CompletionRate.Current)
	assert.Nil(t, result.Metrics.TotalForms.ChangePercentage)
	assert.Len(t, result.Trends.FormCreation, 4)
	assert.NotNil(t, result.Distributions.StatusDistribution)
	assert.Empty(t, result.Distributions.StatusDistribution)
	assert.Len(t, result.Comparisons.PeriodComparison, 5)
}

func TestAggregateCompletedWithoutUsableTimestamp(t *testing.T) {
	q := fixtureQuery()
	records := []EventRecord{
		{CreatedAt: at(2024, 1, 1, 10, 0), Status: StatusCompleted},
		{CreatedAt: at(2024, 1, 1, 10, 0), CompletedAt: ptr(at(2024, 1, 1, 9, 0)), Status: StatusCompleted},
		{CreatedAt: at(2024, 1, 2, 10, 0), CompletedAt: ptr(at(2024, 1, 2, 10, 20)), Status: StatusCompleted},
	}

	m := Aggregate(q, records).Metrics
	assert.Equal(t, 3.0, m.CompletedForms.Current)
	assert.Equal(t, 100.0, m.CompletionRate.Current)
	assert.Equal(t, 20.0, m.AvgCompletionTime.Current)
}

func TestAggregateNeverProducesNaN(t *testing.T) {
	result := Aggregate(Query{Start: at(2024, 1, 1, 0, 0), End: at(2024, 1, 1, 0, 0), Granularity: GranularityDay}, fixture())

	for _, c := range result.Comparisons.PeriodComparison {
		assert.False(t, math.IsNaN(c.Current) || math.IsInf(c.Current, 0), c.Category)
		assert.False(t, math.IsNaN(c.Previous) || math.IsInf(c.Previous, 0), c.Category)
	}
	assert.Empty(t, result.Trends.FormCreation)
}

func TestComparisonsMirrorMetrics(t *testing.T) {
	result := Aggregate(fixtureQuery(), fixture())
	cmp := result.Comparisons.PeriodComparison

	require.Len(t, cmp, 5)
	assert.Equal(t, ComparisonItem{Category: "Total Forms", Current: 4, Previous: 2}, cmp[0])
	assert.Equal(t, ComparisonItem{Category: "Active Users", Current: 3, Previous: 2}, cmp[4])
}

func trendValues(points []TrendPoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}

func TestAggregateFourDayScenario(t *testing.T) {
	var records []EventRecord
	for day := 1; day <= 4; day++ {
		status := StatusDraft
		if day%2 == 1 {
			status = StatusCompleted
		}
		records = append(records, EventRecord{CreatedAt: at(2024, 1, day, 12, 0), Status: status})
	}

	result := Aggregate(fixtureQuery(), records)

	require.Len(t, result.Trends.FormCreation, 4)
	assert.Equal(t, []float64{1, 1, 1, 1}, trendValues(result.Trends.FormCreation))
	assert.Equal(t, 4.0, result.Metrics.TotalForms.Current)
	assert.Equal(t, 2.0, result.Metrics.CompletedForms.Current)
	assert.Equal(t, 50.0, result.Metrics.CompletionRate.Current)
}

func TestTrendChangesFollowValues(t *testing.T) {
	buckets := GenerateBuckets(at(2024, 1, 1, 0, 0), at(2024, 1, 6, 0, 0), GranularityDay)
	points := BuildTrend(buckets, []float64{3, 0, 4, 4, 1})

	assert.Nil(t, points[0].Change)
	for i := 1; i < len(points); i++ {
		require.NotNil(t, points[i].Change)
		assert.Equal(t, points[i].Value-points[i-1].Value, *points[i].Change)
	}
}
