package analytics

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// EventSource loads the forms created in [start, end).
type EventSource interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]EventRecord, error)
}

type AnalyticsService interface {
	GenerateAnalytics(ctx context.Context, query Query, requester Requester) (*AnalyticsResult, error)
	GenerateInsights(ctx context.Context, query Query, requester Requester) (*InsightsResult, error)
	ClassifyTrend(points []TrendPoint) TrendClassification
}

type AnalyticsServiceImpl struct {
	source  EventSource
	cache   ResultCache
	metrics *Collector
	logger  *zap.Logger
}

func NewAnalyticsService(source EventSource, cache ResultCache, metrics *Collector, logger *zap.Logger) AnalyticsService {
	return &AnalyticsServiceImpl{
		source:  source,
		cache:   cache,
		metrics: metrics,
		logger:  logger.Named("analytics"),
	}
}

func (s *AnalyticsServiceImpl) GenerateAnalytics(ctx context.Context, query Query, requester Requester) (*AnalyticsResult, error) {
	if !query.Granularity.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGranularity, query.Granularity)
	}
	if err := CheckRange(query.Start, query.End, query.Granularity); err != nil {
		return nil, err
	}
	if !requester.Role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, requester.Role)
	}

	started := time.Now()

	scoped, visible := ScopeQuery(query, requester)
	if !visible || scoped.Span() == 0 {
		// Nothing the requester may see, or nothing to look at: every bucket
		// is still reported with zero values.
		s.metrics.ObserveRequest(query.Granularity, "empty", time.Since(started))
		return Aggregate(scoped, nil), nil
	}

	key := CacheKey(scoped)
	cached, hit, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ObserveCache("error")
		s.logger.Warn("Analytics cache lookup failed", zap.Error(err))
	case hit:
		s.metrics.ObserveCache("hit")
		s.metrics.ObserveRequest(query.Granularity, "cached", time.Since(started))
		return cached, nil
	default:
		s.metrics.ObserveCache("miss")
	}

	// One read covers the query window and the equal-length window before it.
	previous := scoped.Previous()
	records, err := s.source.ListEvents(ctx, previous.Start, scoped.End)
	if err != nil {
		s.metrics.ObserveRequest(query.Granularity, "error", time.Since(started))
		s.logger.Error("Failed to load forms for analytics",
			zap.Time("start", previous.Start),
			zap.Time("end", scoped.End),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to load forms: %w", err)
	}
	s.metrics.ObserveRecords(len(records))

	result := Aggregate(scoped, records)

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("Failed to cache analytics result", zap.Error(err))
	}

	elapsed := time.Since(started)
	s.metrics.ObserveRequest(query.Granularity, "computed", elapsed)
	s.logger.Info("Analytics generated",
		zap.String("user_id", requester.UserID),
		zap.String("role", string(requester.Role)),
		zap.String("granularity", string(scoped.Granularity)),
		zap.Int("records", len(records)),
		zap.Int("buckets", len(result.Trends.FormCreation)),
		zap.Duration("elapsed", elapsed),
	)
	return result, nil
}

func (s *AnalyticsServiceImpl) GenerateInsights(ctx context.Context, query Query, requester Requester) (*InsightsResult, error) {
	result, err := s.GenerateAnalytics(ctx, query, requester)
	if err != nil {
		return nil, err
	}
	insights := ClassifyResult(result)
	return &insights, nil
}

func (s *AnalyticsServiceImpl) ClassifyTrend(points []TrendPoint) TrendClassification {
	return ClassifyTrend(points)
}

// ClassifyResult classifies every trend series of a result.
func ClassifyResult(result *AnalyticsResult) InsightsResult {
	return InsightsResult{
		FormCreation:   ClassifyTrend(result.Trends.FormCreation),
		FormCompletion: ClassifyTrend(result.Trends.FormCompletion),
		UserActivity:   ClassifyTrend(result.Trends.UserActivity),
	}
}

// ScopeQuery narrows a query to what the requester may see. Admins see
// everything, managers their assigned worksites and technicians their own
// forms. The second return value is false when the narrowed filter can match
// nothing at all.
func ScopeQuery(q Query, r Requester) (Query, bool) {
	scoped := q
	switch r.Role {
	case RoleAdmin:
		return scoped, true

	case RoleManager:
		if len(r.Worksites) == 0 {
			return scoped, false
		}
		worksites, ok := restrict(q.Filters.Worksites, r.Worksites)
		scoped.Filters.Worksites = worksites
		return scoped, ok

	case RoleTechnician:
		if r.UserID == "" {
			return scoped, false
		}
		technicians, ok := restrict(q.Filters.Technicians, []string{r.UserID})
		scoped.Filters.Technicians = technicians
		return scoped, ok
	}
	return scoped, false
}

// restrict intersects a requested filter list with the allowed values. An
// empty request means "everything allowed".
func restrict(requested, allowed []string) ([]string, bool) {
	if len(requested) == 0 {
		return append([]string(nil), allowed...), true
	}
	kept := make([]string, 0, len(requested))
	for _, v := range requested {
		if slices.Contains(allowed, v) {
			kept = append(kept, v)
		}
	}
	return kept, len(kept) > 0
}
