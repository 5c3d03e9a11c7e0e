package repository

import (
	"context"
	"time"

	"github.com/guttosm/sash-quote-service/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PriceSnapshotRepository stores copies of remote price rows so a recent
// table can be served while the sheet is unreachable.
type PriceSnapshotRepository struct {
	collection *mongo.Collection
}

// NewPriceSnapshotRepository creates a new price snapshot repository.
func NewPriceSnapshotRepository(db *MongoDB) *PriceSnapshotRepository {
	return &PriceSnapshotRepository{
		collection: db.PriceSnapshots,
	}
}

// Save inserts a snapshot. A zero FetchedAt is set to now.
func (r *PriceSnapshotRepository) Save(ctx context.Context, snapshot *model.PriceSnapshot) error {
	if snapshot.ID.IsZero() {
		snapshot.ID = primitive.NewObjectID()
	}
	if snapshot.FetchedAt.IsZero() {
		snapshot.FetchedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, snapshot)
	return err
}

// Latest returns the most recently fetched snapshot, or nil when none exists.
func (r *PriceSnapshotRepository) Latest(ctx context.Context) (*model.PriceSnapshot, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "fetched_at", Value: -1}})

	var snapshot model.PriceSnapshot
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&snapshot)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// List returns snapshots newest first. A non-positive limit returns all of them.
func (r *PriceSnapshotRepository) List(ctx context.Context, limit int) ([]model.PriceSnapshot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fetched_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	snapshots := make([]model.PriceSnapshot, 0)
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}

// Prune deletes everything but the newest keep snapshots and returns how
// many were removed.
func (r *PriceSnapshotRepository) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	opts := options.FindOne().
		SetSort(bson.D{{Key: "fetched_at", Value: -1}}).
		SetSkip(int64(keep)).
		SetProjection(bson.M{"fetched_at": 1})

	var boundary model.PriceSnapshot
	err := r.collection.FindOne(ctx, bson.M{}, opts).Decode(&boundary)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	res, err := r.collection.DeleteMany(ctx, bson.M{"fetched_at": bson.M{"$lte": boundary.FetchedAt}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
