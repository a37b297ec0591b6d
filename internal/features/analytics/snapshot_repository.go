package analytics

import (
	"context"

	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SnapshotRepository interface {
	Create(ctx context.Context, snapshot *Snapshot) error
	ListRecent(ctx context.Context, limit int64) ([]Snapshot, error)
}

type SnapshotRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewSnapshotRepository(mongodb *database.MongodbDB) SnapshotRepository {
	return &SnapshotRepositoryImpl{
		Collection: mongodb.DB.Collection("analytics_snapshots"),
	}
}

func (r *SnapshotRepositoryImpl) Create(ctx context.Context, snapshot *Snapshot) error {
	snapshot.ID = primitive.NewObjectID()
	_, err := r.Collection.InsertOne(ctx, snapshot)
	return err
}

func (r *SnapshotRepositoryImpl) ListRecent(ctx context.Context, limit int64) ([]Snapshot, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "generated_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	snapshots := []Snapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
