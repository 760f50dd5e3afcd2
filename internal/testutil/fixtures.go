package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/dawitfm/famhub/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// Address groups the four geographic levels for fixture students.
type Address struct {
	Region string
	Zone   string
	Wereda string
	Kebele string
}

// DefaultAddress is the address used when a test does not care about geography.
var DefaultAddress = Address{
	Region: "Amhara",
	Zone:   "North Shewa",
	Wereda: "Debre Berhan",
	Kebele: "Kebele 04",
}

// CreateStudent inserts an active student in the given batch at the given
// address and returns it with its generated ID.
func (f *Fixtures) CreateStudent(ctx context.Context, name, gender, batch string, addr Address) models.Student {
	f.t.Helper()

	now := time.Now().UTC()
	st := models.Student{
		ID:        primitive.NewObjectID(),
		FirstName: name,
		LastName:  "Tesfaye",
		Gender:    gender,
		Batch:     batch,
		Region:    addr.Region,
		Zone:      addr.Zone,
		Wereda:    addr.Wereda,
		Kebele:    addr.Kebele,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.NameCI = text.Fold(st.FullName())

	if _, err := f.db.Collection("students").InsertOne(ctx, st); err != nil {
		f.t.Fatalf("failed to create test student: %v", err)
	}
	return st
}

// CreateStudentWithBirthDate is CreateStudent plus a birth date.
func (f *Fixtures) CreateStudentWithBirthDate(ctx context.Context, name, gender, batch string, addr Address, born time.Time) models.Student {
	f.t.Helper()

	st := f.CreateStudent(ctx, name, gender, batch, addr)
	st.BirthDate = &born
	if _, err := f.db.Collection("students").UpdateByID(ctx, st.ID, map[string]any{"$set": map[string]any{"birth_date": born}}); err != nil {
		f.t.Fatalf("failed to set birth date: %v", err)
	}
	return st
}

// CreateFamily inserts an active family with one grandparent group holding
// the given parent pairs.
func (f *Fixtures) CreateFamily(ctx context.Context, name, batch string, pairs ...models.ParentPair) models.Family {
	f.t.Helper()

	now := time.Now().UTC()
	fam := models.Family{
		ID:     primitive.NewObjectID(),
		Name:   name,
		NameCI: text.Fold(name),
		Batch:  batch,
		Status: "active",
		GrandParents: []models.GrandParent{
			{Title: "Group 1", ParentPairs: pairs},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("families").InsertOne(ctx, fam); err != nil {
		f.t.Fatalf("failed to create test family: %v", err)
	}
	return fam
}

// CreateParentPair creates a father and mother student in the batch and
// returns a pair referencing them.
func (f *Fixtures) CreateParentPair(ctx context.Context, batch string, addr Address) (models.ParentPair, models.Student, models.Student) {
	f.t.Helper()

	father := f.CreateStudent(ctx, "Abel", models.GenderMale, batch, addr)
	mother := f.CreateStudent(ctx, "Hana", models.GenderFemale, batch, addr)
	return models.ParentPair{FatherID: father.ID, MotherID: mother.ID}, father, mother
}

// CreatePost inserts a pending post by the given author.
func (f *Fixtures) CreatePost(ctx context.Context, title, body string, authorID primitive.ObjectID) models.Post {
	f.t.Helper()

	now := time.Now().UTC()
	post := models.Post{
		ID:        primitive.NewObjectID(),
		Title:     title,
		TitleCI:   text.Fold(title),
		Body:      body,
		AuthorID:  authorID,
		Status:    models.PostPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("posts").InsertOne(ctx, post); err != nil {
		f.t.Fatalf("failed to create test post: %v", err)
	}
	return post
}
