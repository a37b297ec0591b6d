package analytics

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Granularity is the size of one time bucket.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func (g Granularity) Valid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return true
	}
	return false
}

// ParseGranularity maps a query-string value onto a Granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(s)
	if !g.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
	return g, nil
}

// FormStatus is the lifecycle state of a form.
type FormStatus string

const (
	StatusDraft         FormStatus = "draft"
	StatusInProgress    FormStatus = "in-progress"
	StatusPendingReview FormStatus = "pending-review"
	StatusApproved      FormStatus = "approved"
	StatusCompleted     FormStatus = "completed"
	StatusRejected      FormStatus = "rejected"
	StatusCancelled     FormStatus = "cancelled"
	StatusArchived      FormStatus = "archived"
)

var knownStatuses = map[FormStatus]struct{}{
	StatusDraft:         {},
	StatusInProgress:    {},
	StatusPendingReview: {},
	StatusApproved:      {},
	StatusCompleted:     {},
	StatusRejected:      {},
	StatusCancelled:     {},
	StatusArchived:      {},
}

func (s FormStatus) Valid() bool {
	_, ok := knownStatuses[s]
	return ok
}

// ParseFormStatus rejects statuses the form workflow does not know about.
func ParseFormStatus(s string) (FormStatus, error) {
	st := FormStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// EventRecord is the read-only view of one form that the engine aggregates.
type EventRecord struct {
	ID           string
	CreatedAt    time.Time
	CompletedAt  *time.Time
	Status       FormStatus
	Worksite     string
	WorksiteName string
	Technician   string
	Template     string
}

// Filters restricts a query. A nil or empty slice means no restriction.
type Filters struct {
	Worksites   []string     `json:"worksites,omitempty"`
	Technicians []string     `json:"technicians,omitempty"`
	Statuses    []FormStatus `json:"status,omitempty"`
}

// Query describes one aggregation over [Start, End).
type Query struct {
	Start       time.Time   `json:"start"`
	End         time.Time   `json:"end"`
	Granularity Granularity `json:"granularity"`
	Filters     Filters     `json:"filters"`
}

// Span is the length of the query window, zero for an empty or inverted range.
func (q Query) Span() time.Duration {
	if !q.End.After(q.Start) {
		return 0
	}
	return q.End.Sub(q.Start)
}

// Previous returns the same query shifted back by exactly its span.
func (q Query) Previous() Query {
	span := q.Span()
	p := q
	p.Start = q.Start.Add(-span)
	p.End = q.Start
	return p
}

// Role is the requester's role as carried in the JWT claims.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleTechnician Role = "technician"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleTechnician
}

// Requester is the caller on whose behalf analytics are generated.
type Requester struct {
	UserID    string   `json:"user_id"`
	Role      Role     `json:"role"`
	Worksites []string `json:"worksites,omitempty"`
}

// Bucket is one [Start, End) slice of a query range.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

// MetricValue carries a headline metric for the current and previous window.
type MetricValue struct {
	Current          float64  `json:"current"`
	Previous         float64  `json:"previous"`
	ChangePercentage *float64 `json:"changePercentage,omitempty"`
}

type Metrics struct {
	TotalForms        MetricValue `json:"totalForms"`
	CompletedForms    MetricValue `json:"completedForms"`
	CompletionRate    MetricValue `json:"completionRate"`
	AvgCompletionTime MetricValue `json:"avgCompletionTime"`
	ActiveUsers       MetricValue `json:"activeUsers"`
}

// TrendPoint is one bucket's value and its change from the previous bucket.
type TrendPoint struct {
	Period           string    `json:"period"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Value            float64   `json:"value"`
	Change           *float64  `json:"change,omitempty"`
	ChangePercentage *float64  `json:"changePercentage,omitempty"`
}

type Trends struct {
	FormCreation   []TrendPoint `json:"formCreation"`
	FormCompletion []TrendPoint `json:"formCompletion"`
	UserActivity   []TrendPoint `json:"userActivity"`
}

type DistributionItem struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type Distributions struct {
	StatusDistribution   []DistributionItem `json:"statusDistribution"`
	WorksiteDistribution []DistributionItem `json:"worksiteDistribution"`
}

type ComparisonItem struct {
	Category string  `json:"category"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

type Comparisons struct {
	PeriodComparison []ComparisonItem `json:"periodComparison"`
}

// AnalyticsResult is the response of GenerateAnalytics.
type AnalyticsResult struct {
	Metrics       Metrics       `json:"metrics"`
	Trends        Trends        `json:"trends"`
	Distributions Distributions `json:"distributions"`
	Comparisons   Comparisons   `json:"comparisons"`
}

// TrendType is the shape a trend series was classified as.
type TrendType string

const (
	TrendGrowth   TrendType = "growth"
	TrendDecline  TrendType = "decline"
	TrendVolatile TrendType = "volatile"
	TrendSeasonal TrendType = "seasonal"
	TrendStable   TrendType = "stable"
)

// TrendStatistics are the change statistics a classification was derived from.
type TrendStatistics struct {
	TotalChange            float64 `json:"totalChange" bson:"total_change"`
	AverageChange          float64 `json:"averageChange" bson:"average_change"`
	Volatility             float64 `json:"volatility" bson:"volatility"`
	CoefficientOfVariation float64 `json:"coefficientOfVariation" bson:"coefficient_of_variation"`
	PositiveChanges        int     `json:"positiveChanges" bson:"positive_changes"`
	NegativeChanges        int     `json:"negativeChanges" bson:"negative_changes"`
}

type TrendClassification struct {
	Type            TrendType        `json:"type" bson:"type"`
	Description     string           `json:"description" bson:"description"`
	Confidence      float64          `json:"confidence" bson:"confidence"`
	Recommendations []string         `json:"recommendations" bson:"recommendations"`
	Statistics      *TrendStatistics `json:"statistics,omitempty" bson:"statistics,omitempty"`
}

// InsightsResult holds one classification per trend series.
type InsightsResult struct {
	FormCreation   TrendClassification `json:"formCreation" bson:"form_creation"`
	FormCompletion TrendClassification `json:"formCompletion" bson:"form_completion"`
	UserActivity   TrendClassification `json:"userActivity" bson:"user_activity"`
}

// Snapshot is a scheduled analytics run persisted for later display.
type Snapshot struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	GeneratedAt time.Time          `json:"generated_at" bson:"generated_at"`
	Start       time.Time          `json:"start" bson:"start"`
	End         time.Time          `json:"end" bson:"end"`
	Granularity Granularity        `json:"granularity" bson:"granularity"`
	Result      AnalyticsResult    `json:"result" bson:"result"`
	Insights    InsightsResult     `json:"insights" bson:"insights"`
}
