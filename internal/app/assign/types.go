// internal/app/assign/types.go
package assign

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	"github.com/dawitfm/famhub/internal/domain/models"
)

// Slot is one parent-pair location able to receive children: a family, a
// grandparent-group index, and a parent-pair index, plus everything the
// scoring engine needs about its current occupants.
type Slot struct {
	FamilyID          primitive.ObjectID
	FamilyName        string
	FamilyBatch       string
	AllowOtherBatches bool

	Path familystore.ChildPath

	Father models.Student
	Mother models.Student

	Existing  int // children already in the pair
	Remaining int // capacity left under the per-pair cap
	Sons      int
	Daughters int

	// Homogeneous mode: most specific address level the parents share,
	// and its value. Blank in heterogeneous mode.
	SharedLevel string
	SharedValue string

	// Every student id already anywhere in the family document; such
	// students are never candidates for this slot.
	members map[primitive.ObjectID]struct{}
}

// imbalance is |sons - daughters|.
func (s *Slot) imbalance() int {
	d := s.Sons - s.Daughters
	if d < 0 {
		return -d
	}
	return d
}

// preferredGender returns the gender that would improve the slot's
// balance, or "" when the slot is balanced.
func (s *Slot) preferredGender() string {
	switch {
	case s.Sons > s.Daughters:
		return models.GenderFemale
	case s.Daughters > s.Sons:
		return models.GenderMale
	}
	return ""
}

// Assignment is one proposed child placement. IDs are issued at preview
// time so operators can send back a filtered subset for commit.
type Assignment struct {
	ID               string             `json:"id"`
	FamilyID         primitive.ObjectID `json:"familyId"`
	FamilyName       string             `json:"familyName"`
	GrandParentIndex int                `json:"grandParentIndex"`
	ParentPairIndex  int                `json:"parentPairIndex"`
	StudentID        primitive.ObjectID `json:"studentId"`
	StudentName      string             `json:"studentName"`
	Relationship     string             `json:"relationship"`
	BirthOrder       int                `json:"birthOrder"`
	Score            float64            `json:"score"`
	AddressMatch     string             `json:"addressMatch,omitempty"`   // homogeneous
	DiversityScore   int                `json:"diversityScore,omitempty"` // heterogeneous
}

// Failure records a slot that could not be filled to capacity. Non-fatal:
// allocation continues with the remaining slots.
type Failure struct {
	FamilyID          primitive.ObjectID `json:"familyId"`
	FamilyName        string             `json:"familyName"`
	GrandParentIndex  int                `json:"grandParentIndex"`
	ParentPairIndex   int                `json:"parentPairIndex"`
	RemainingCapacity int                `json:"remainingCapacity"`
	Reason            string             `json:"reason"`
}

// Statistics summarizes one preview run.
type Statistics struct {
	TotalAssigned          int     `json:"totalAssigned"`
	FamiliesAffected       int     `json:"familiesAffected"`
	UniqueStudentsAssigned int     `json:"uniqueStudentsAssigned"`
	Sons                   int     `json:"sons"`
	Daughters              int     `json:"daughters"`
	AverageMatchQuality    float64 `json:"averageMatchQuality,omitempty"`   // homogeneous
	AverageDiversityScore  float64 `json:"averageDiversityScore,omitempty"` // heterogeneous
}

// PreviewResult is the payload returned to the operator for review.
type PreviewResult struct {
	Assignments       []Assignment `json:"assignments"`
	Statistics        Statistics   `json:"statistics"`
	Configuration     Config       `json:"configuration"`
	FailedAssignments []Failure    `json:"failedAssignments,omitempty"`
}

// CommitResult reports one persisted assignment.
type CommitResult struct {
	FamilyName   string `json:"familyName"`
	StudentName  string `json:"studentName"`
	Relationship string `json:"relationship"`
	BirthOrder   int    `json:"birthOrder"`
}
