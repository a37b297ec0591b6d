package form

import (
	"context"
	"time"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type FormRepository interface {
	// FindCreatedBetween returns every form created in [start, end).
	FindCreatedBetween(ctx context.Context, start, end time.Time) ([]Form, error)
	Insert(ctx context.Context, forms []Form) error
	EnsureIndexes(ctx context.Context) error
}

type FormRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewFormRepository(mongodb *database.MongodbDB) FormRepository {
	return &FormRepositoryImpl{
		Collection: mongodb.DB.Collection("forms"),
	}
}

func (r *FormRepositoryImpl) FindCreatedBetween(ctx context.Context, start, end time.Time) ([]Form, error) {
	filter := bson.M{
		"created_at": bson.M{"$gte": start, "$lt": end},
	}
	projection := bson.M{
		"template_id":   1,
		"worksite_id":   1,
		"worksite_name": 1,
		"technician_id": 1,
		"status":        1,
		"created_at":    1,
		"completed_at":  1,
	}
	opts := options.Find().
		SetProjection(projection).
		SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}

func (r *FormRepositoryImpl) Insert(ctx context.Context, forms []Form) error {
	if len(forms) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(forms))
	for i := range forms {
		if forms[i].ID.IsZero() {
			forms[i].ID = primitive.NewObjectID()
		}
		docs = append(docs, forms[i])
	}
	_, err := r.Collection.InsertMany(ctx, docs)
	return err
}

// EnsureIndexes creates the indexes the analytics range scans rely on.
func (r *FormRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetName("created_at_1"),
		},
		{
			Keys:    bson.D{{Key: "worksite_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("worksite_created_at"),
		},
		{
			Keys:    bson.D{{Key: "technician_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("technician_created_at"),
		},
	}
	_, err := r.Collection.Indexes().CreateMany(ctx, indexes)
	return err
}
