package form

import (
	"context"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/analytics"
)

// EventSource feeds stored forms to the analytics engine.
type EventSource struct {
	Repo FormRepository
}

func NewEventSource(repo FormRepository) analytics.EventSource {
	return &EventSource{Repo: repo}
}

func (s *EventSource) ListEvents(ctx context.Context, start, end time.Time) ([]analytics.EventRecord, error) {
	forms, err := s.Repo.FindCreatedBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}

	records := make([]analytics.EventRecord, 0, len(forms))
	for _, f := range forms {
		records = append(records, ToEventRecord(f))
	}
	return records, nil
}

func ToEventRecord(f Form) analytics.EventRecord {
	r := analytics.EventRecord{
		Status:       analytics.FormStatus(f.Status),
		Worksite:     f.WorksiteID,
		WorksiteName: f.WorksiteName,
		Technician:   f.TechnicianID,
		Template:     f.TemplateID,
		CreatedAt:    f.CreatedAt,
		CompletedAt:  f.CompletedAt,
	}
	if !f.ID.IsZero() {
		r.ID = f.ID.Hex()
	}
	return r
}
