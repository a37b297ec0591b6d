package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// snapshotRequester runs scheduled snapshots with an unrestricted scope.
var snapshotRequester = Requester{UserID: "system", Role: RoleAdmin}

// SnapshotMessage is what live-feed clients receive for each new snapshot.
type SnapshotMessage struct {
	Type     string    `json:"type"`
	Snapshot *Snapshot `json:"snapshot"`
}

// SnapshotScheduler periodically computes and stores analytics snapshots.
type SnapshotScheduler struct {
	service    AnalyticsService
	repo       SnapshotRepository
	hub        *Hub
	metrics    *Collector
	logger     *zap.Logger
	schedule   string
	windowDays int
	now        func() time.Time

	cron *cron.Cron
}

func NewSnapshotScheduler(
	service AnalyticsService,
	repo SnapshotRepository,
	hub *Hub,
	metrics *Collector,
	cfg *config.Config,
	logger *zap.Logger,
) *SnapshotScheduler {
	windowDays := cfg.SnapshotWindowDays
	if windowDays <= 0 {
		windowDays = 7
	}
	return &SnapshotScheduler{
		service:    service,
		repo:       repo,
		hub:        hub,
		metrics:    metrics,
		logger:     logger.Named("analytics.snapshots"),
		schedule:   cfg.SnapshotSchedule,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Start registers the snapshot job. An empty schedule disables it.
func (s *SnapshotScheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		s.logger.Info("Analytics snapshots disabled")
		return nil
	}
	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid snapshot schedule: %w", err)
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error("Analytics snapshot failed", zap.Error(err))
		}
	}); err != nil {
		return err
	}
	s.cron.Start()

	s.logger.Info("Analytics snapshots scheduled",
		zap.String("schedule", s.schedule),
		zap.Int("window_days", s.windowDays),
	)
	return nil
}

// Stop waits for a running snapshot to finish or ctx to expire.
func (s *SnapshotScheduler) Stop(ctx context.Context) error {
	if s.cron == nil {
		return nil
	}
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce computes the last windowDays of daily analytics up to the next UTC
// midnight, stores it and broadcasts it to live-feed clients.
func (s *SnapshotScheduler) RunOnce(ctx context.Context) (*Snapshot, error) {
	end := s.now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	query := Query{
		Start:       end.AddDate(0, 0, -s.windowDays),
		End:         end,
		Granularity: GranularityDay,
	}

	result, err := s.service.GenerateAnalytics(ctx, query, snapshotRequester)
	if err != nil {
		s.metrics.ObserveSnapshot("error")
		return nil, err
	}

	snapshot := &Snapshot{
		GeneratedAt: s.now().UTC(),
		Start:       query.Start,
		End:         query.End,
		Granularity: query.Granularity,
		Result:      *result,
		Insights:    ClassifyResult(result),
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		s.metrics.ObserveSnapshot("error")
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	s.metrics.ObserveSnapshot("stored")

	delivered := s.hub.Broadcast(SnapshotMessage{Type: "analytics.snapshot", Snapshot: snapshot})
	s.logger.Info("Analytics snapshot stored",
		zap.String("snapshot_id", snapshot.ID.Hex()),
		zap.Int("subscribers", delivered),
	)
	return snapshot, nil
}
