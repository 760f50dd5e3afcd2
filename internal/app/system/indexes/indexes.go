// Package indexes creates the MongoDB indexes the app relies on.
// Called once during bootstrap (EnsureSchema); all creations are
// idempotent.
package indexes

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// Ensure creates all indexes. CreateMany is a no-op for specs that
// already exist.
func Ensure(ctx context.Context, db *mongo.Database, log *zap.Logger) error {
	specs := map[string][]mongo.IndexModel{
		"students": {
			{Keys: bson.D{{Key: "batch", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}},
		},
		"families": {
			{Keys: bson.D{{Key: "batch", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		"posts": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "author_id", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			log.Error("index creation failed", zap.String("collection", coll), zap.Error(err))
			return err
		}
	}
	log.Info("indexes ensured",
		zap.Int("collections", len(specs)))
	return nil
}
