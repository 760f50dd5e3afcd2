// internal/domain/models/family.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Child relationship values.
const (
	RelationshipSon      = "son"
	RelationshipDaughter = "daughter"
)

// Family is a tree-shaped aggregate: leadership roles at the top, then
// grandparent groups, each holding parent pairs, each holding children.
//
// Invariant: a student id appears at most once anywhere within one family
// document; leaders, grandparents, parents, and children are mutually
// exclusive sets. CRUD paths and the assignment commit both enforce it.
type Family struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"name_ci"`

	Batch             string `bson:"batch" json:"batch"`
	AllowOtherBatches bool   `bson:"allow_other_batches" json:"allow_other_batches"`

	LeaderID    *primitive.ObjectID `bson:"leader_id,omitempty" json:"leader_id,omitempty"`
	CoLeaderID  *primitive.ObjectID `bson:"co_leader_id,omitempty" json:"co_leader_id,omitempty"`
	SecretaryID *primitive.ObjectID `bson:"secretary_id,omitempty" json:"secretary_id,omitempty"`

	Status string `bson:"status" json:"status"`

	GrandParents []GrandParent `bson:"grand_parents" json:"grand_parents"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GrandParent is a named group of parent pairs, optionally anchored by a
// grandfather/grandmother student pair of its own.
type GrandParent struct {
	Title         string              `bson:"title" json:"title"`
	GrandFatherID *primitive.ObjectID `bson:"grand_father_id,omitempty" json:"grand_father_id,omitempty"`
	GrandMotherID *primitive.ObjectID `bson:"grand_mother_id,omitempty" json:"grand_mother_id,omitempty"`
	ParentPairs   []ParentPair        `bson:"parent_pairs" json:"parent_pairs"`
}

// ParentPair is one father (male student) and one mother (female student)
// with an ordered list of assigned children.
type ParentPair struct {
	FatherID primitive.ObjectID `bson:"father_id" json:"father_id"`
	MotherID primitive.ObjectID `bson:"mother_id" json:"mother_id"`
	Children []Child            `bson:"children" json:"children"`
}

// Child binds a student into a parent pair.
type Child struct {
	StudentID    primitive.ObjectID `bson:"student_id" json:"student_id"`
	Relationship string             `bson:"relationship" json:"relationship"` // son | daughter
	BirthOrder   int                `bson:"birth_order" json:"birth_order"`
	AssignedAt   time.Time          `bson:"assigned_at" json:"assigned_at"`
}

// MemberIDs returns every student id referenced anywhere in the family:
// leaders, grandparent anchors, parents, and children.
func (f Family) MemberIDs() map[primitive.ObjectID]struct{} {
	ids := make(map[primitive.ObjectID]struct{})
	add := func(id *primitive.ObjectID) {
		if id != nil && !id.IsZero() {
			ids[*id] = struct{}{}
		}
	}
	add(f.LeaderID)
	add(f.CoLeaderID)
	add(f.SecretaryID)
	for _, gp := range f.GrandParents {
		add(gp.GrandFatherID)
		add(gp.GrandMotherID)
		for _, pp := range gp.ParentPairs {
			if !pp.FatherID.IsZero() {
				ids[pp.FatherID] = struct{}{}
			}
			if !pp.MotherID.IsZero() {
				ids[pp.MotherID] = struct{}{}
			}
			for _, c := range pp.Children {
				ids[c.StudentID] = struct{}{}
			}
		}
	}
	return ids
}

// HasMember reports whether the student id is referenced anywhere in the family.
func (f Family) HasMember(id primitive.ObjectID) bool {
	_, ok := f.MemberIDs()[id]
	return ok
}
