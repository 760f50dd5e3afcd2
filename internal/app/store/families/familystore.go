// internal/app/store/families/familystore.go
package familystore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dawitfm/famhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Family states.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

var ErrDuplicateFamilyName = errors.New("a family with this name already exists")

// ChildPath addresses a parent-pair slot inside a family document by
// index. Using a structured key keeps path construction in one place.
type ChildPath struct {
	GrandParent int
	ParentPair  int
}

func (p ChildPath) childrenField() string {
	return fmt.Sprintf("grand_parents.%d.parent_pairs.%d.children", p.GrandParent, p.ParentPair)
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("families")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Family, error) {
	var f models.Family
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		return models.Family{}, err
	}
	return f, nil
}

func (s *Store) Create(ctx context.Context, f models.Family) (models.Family, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.NameCI = text.Fold(f.Name)
	if f.Status == "" {
		f.Status = StatusActive
	}
	if f.GrandParents == nil {
		f.GrandParents = []models.GrandParent{}
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Family{}, ErrDuplicateFamilyName
		}
		return models.Family{}, err
	}
	return f, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Batch  string
	Status string
}

// List returns families sorted by name_ci.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Family, error) {
	filter := bson.M{}
	if f.Batch != "" {
		filter["batch"] = f.Batch
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	find := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Family
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAssignable returns active families that have at least one parent
// pair, sorted by name_ci for a stable allocation order. Completeness of
// each pair (both parents resolving to real students) is checked by the
// caller after hydration.
func (s *Store) ListAssignable(ctx context.Context) ([]models.Family, error) {
	filter := bson.M{
		"status":                       StatusActive,
		"grand_parents.parent_pairs.0": bson.M{"$exists": true},
	}
	find := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Family
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// AppendChild appends one child entry at the slot addressed by path.
// The filter re-asserts that the slot still exists, so a concurrently
// restructured family fails with ErrNoDocuments instead of creating
// stray array elements.
func (s *Store) AppendChild(ctx context.Context, familyID primitive.ObjectID, path ChildPath, child models.Child) error {
	filter := bson.M{
		"_id": familyID,
		fmt.Sprintf("grand_parents.%d.parent_pairs.%d", path.GrandParent, path.ParentPair): bson.M{"$exists": true},
	}
	update := bson.M{
		"$push": bson.M{path.childrenField(): child},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a family by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
