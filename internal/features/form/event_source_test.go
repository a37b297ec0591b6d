package form

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/analytics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubRepository struct {
	forms []Form
	err   error
}

func (r *stubRepository) FindCreatedBetween(context.Context, time.Time, time.Time) ([]Form, error) {
	return r.forms, r.err
}

func (r *stubRepository) Insert(_ context.Context, forms []Form) error {
	r.forms = append(r.forms, forms...)
	return nil
}

func (r *stubRepository) EnsureIndexes(context.Context) error { return nil }

func TestToEventRecord(t *testing.T) {
	id := primitive.NewObjectID()
	created := time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	completed := created.Add(45 * time.Minute)

	r := ToEventRecord(Form{
		ID:           id,
		TemplateID:   "tpl-1",
		WorksiteID:   "ws-1",
		WorksiteName: "North Plant",
		TechnicianID: "tech-a",
		Status:       "completed",
		CreatedAt:    created,
		CompletedAt:  &completed,
	})

	assert.Equal(t, id.Hex(), r.ID)
	assert.Equal(t, analytics.StatusCompleted, r.Status)
	assert.Equal(t, "ws-1", r.Worksite)
	assert.Equal(t, "North Plant", r.WorksiteName)
	assert.Equal(t, "tech-a", r.Technician)
	assert.Equal(t, "tpl-1", r.Template)
	assert.Equal(t, created, r.CreatedAt)
	require.NotNil(t, r.CompletedAt)
	assert.Equal(t, completed, *r.CompletedAt)

	assert.Empty(t, ToEventRecord(Form{}).ID)
}

func TestEventSourceListEvents(t *testing.T) {
	repo := &stubRepository{forms: []Form{
		{WorksiteID: "ws-1", Status: "draft"},
		{WorksiteID: "ws-2", Status: "completed"},
	}}
	source := NewEventSource(repo)

	records, err := source.ListEvents(context.Background(), time.Time{}, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, analytics.StatusDraft, records[0].Status)

	repo.err = errors.New("cursor closed")
	_, err = source.ListEvents(context.Background(), time.Time{}, time.Now())
	assert.Error(t, err)
}

func TestPostgresFormRepository(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	repo, err := NewPostgresFormRepository(ctx, dsn)
	require.NoError(t, err)
	defer repo.Close()
	require.NoError(t, repo.EnsureIndexes(ctx))

	base := time.Now().UTC().Truncate(time.Second).Add(-365 * 24 * time.Hour)
	completed := base.Add(time.Hour)
	require.NoError(t, repo.Insert(ctx, []Form{
		{WorksiteID: "ws-pg", TechnicianID: "tech-pg", Status: "completed", CreatedAt: base, CompletedAt: &completed},
		{WorksiteID: "ws-pg", TechnicianID: "tech-pg", Status: "draft", CreatedAt: base.Add(time.Minute)},
	}))

	forms, err := repo.FindCreatedBetween(ctx, base, base.Add(2*time.Minute))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(forms), 2)
	assert.NotNil(t, forms[0].CompletedAt)
}
