// internal/app/store/students/studentstore.go
package studentstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/dawitfm/famhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Student activity states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("students")}
}

// Collection exposes the underlying collection for feature-level queries
// (keyset-paged listing builds its own find options).
func (s *Store) Collection() *mongo.Collection { return s.c }

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// GetByIDs fetches the given students in one query. Missing ids are
// simply absent from the result map.
func (s *Store) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Student, error) {
	out := make(map[primitive.ObjectID]models.Student, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Student
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, st := range rows {
		out[st.ID] = st
	}
	return out, nil
}

// ListActiveByBatch returns every active student in the batch, sorted by
// name_ci then _id so callers see a stable order.
func (s *Store) ListActiveByBatch(ctx context.Context, batch string) ([]models.Student, error) {
	find := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"batch": batch, "status": StatusActive}, find)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.Student
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) Create(ctx context.Context, st models.Student) (models.Student, error) {
	now := time.Now().UTC()
	st.ID = primitive.NewObjectID()
	st.NameCI = text.Fold(st.FullName())
	if st.Status == "" {
		st.Status = StatusActive
	}
	st.CreatedAt = now
	st.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Student{}, err
	}
	return st, nil
}

// Update replaces the editable fields of a student. Address levels may be
// cleared (set to empty).
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, st models.Student) error {
	set := bson.M{
		"first_name":  st.FirstName,
		"middle_name": st.MiddleName,
		"last_name":   st.LastName,
		"name_ci":     text.Fold(st.FullName()),
		"gender":      st.Gender,
		"batch":       st.Batch,
		"region":      st.Region,
		"zone":        st.Zone,
		"wereda":      st.Wereda,
		"kebele":      st.Kebele,
		"birth_date":  st.BirthDate,
		"updated_at":  time.Now().UTC(),
	}
	if st.Status != "" {
		set["status"] = st.Status
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes a student by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountActiveByBatch returns how many active students the batch has.
func (s *Store) CountActiveByBatch(ctx context.Context, batch string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"batch": batch, "status": StatusActive})
}
