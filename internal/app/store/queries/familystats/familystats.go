// Package familystats aggregates per-batch family composition counts for
// the dashboard stats endpoint.
package familystats

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// BatchStats is one row of the per-batch rollup.
type BatchStats struct {
	Batch     string `bson:"_id" json:"batch"`
	Families  int64  `bson:"families" json:"families"`
	Children  int64  `bson:"children" json:"children"`
	Sons      int64  `bson:"sons" json:"sons"`
	Daughters int64  `bson:"daughters" json:"daughters"`
	OpenBatch int64  `bson:"open_batch" json:"open_batch"` // families with allow_other_batches
}

// PerBatch rolls families up by batch: family count, total assigned
// children, and the son/daughter split.
func PerBatch(ctx context.Context, db *mongo.Database) ([]BatchStats, error) {
	pipe := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"status": "active"}}},
		bson.D{{Key: "$addFields", Value: bson.M{
			"all_children": bson.M{"$reduce": bson.M{
				"input": bson.M{"$reduce": bson.M{
					"input":        bson.M{"$ifNull": bson.A{"$grand_parents.parent_pairs", bson.A{}}},
					"initialValue": bson.A{},
					"in":           bson.M{"$concatArrays": bson.A{"$$value", bson.M{"$ifNull": bson.A{"$$this", bson.A{}}}}},
				}},
				"initialValue": bson.A{},
				"in":           bson.M{"$concatArrays": bson.A{"$$value", bson.M{"$ifNull": bson.A{"$$this.children", bson.A{}}}}},
			}},
		}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":      "$batch",
			"families": bson.M{"$sum": 1},
			"children": bson.M{"$sum": bson.M{"$size": "$all_children"}},
			"sons": bson.M{"$sum": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$all_children",
				"as":    "c",
				"cond":  bson.M{"$eq": bson.A{"$$c.relationship", "son"}},
			}}}},
			"daughters": bson.M{"$sum": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$all_children",
				"as":    "c",
				"cond":  bson.M{"$eq": bson.A{"$$c.relationship", "daughter"}},
			}}}},
			"open_batch": bson.M{"$sum": bson.M{"$cond": bson.A{"$allow_other_batches", 1, 0}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cur, err := db.Collection("families").Aggregate(ctx, pipe)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []BatchStats
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
