// internal/domain/models/student.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student gender values.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Student is a community member tracked by batch (cohort) and a four-level
// geographic address. Addresses narrow left to right: a region contains
// zones, a zone weredas, a wereda kebeles. Any level may be blank when
// unknown.
type Student struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	MiddleName string             `bson:"middle_name,omitempty" json:"middle_name,omitempty"`
	LastName   string             `bson:"last_name" json:"last_name"`
	NameCI     string             `bson:"name_ci" json:"name_ci"` // lowercase, diacritics-stripped full name

	Gender string `bson:"gender" json:"gender"` // male | female
	Batch  string `bson:"batch" json:"batch"`

	Region string `bson:"region,omitempty" json:"region,omitempty"`
	Zone   string `bson:"zone,omitempty" json:"zone,omitempty"`
	Wereda string `bson:"wereda,omitempty" json:"wereda,omitempty"`
	Kebele string `bson:"kebele,omitempty" json:"kebele,omitempty"`

	BirthDate *time.Time `bson:"birth_date,omitempty" json:"birth_date,omitempty"`

	Status string `bson:"status" json:"status"` // active | inactive

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FullName returns the display name with blank parts skipped.
func (s Student) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{s.FirstName, s.MiddleName, s.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " ")
}

// Age returns whole years since BirthDate at the given instant.
// The second return is false when the birth date is unknown.
func (s Student) Age(at time.Time) (int, bool) {
	if s.BirthDate == nil {
		return 0, false
	}
	b := *s.BirthDate
	years := at.Year() - b.Year()
	if at.Month() < b.Month() || (at.Month() == b.Month() && at.Day() < b.Day()) {
		years--
	}
	if years < 0 {
		years = 0
	}
	return years, true
}
