// internal/app/assign/allocator.go
package assign

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dawitfm/famhub/internal/domain/models"
)

// allocate fills slot capacities greedily from the candidate pool and
// returns the proposed assignments plus the slots it could not fill.
//
// Slots are processed emptiest-first, then most-imbalanced-first; the
// order is fixed once before the run and not recomputed as slots fill
// (a deliberate simplification carried over from the source system).
// A run-wide claim set guarantees no student is proposed twice. Within a
// slot, every unclaimed candidate is scored and the strictly highest
// score wins; exact ties go to the earliest candidate in input order, so
// the result is deterministic for a given snapshot.
func allocate(slots []*Slot, candidates []models.Student, cfg Config, now time.Time) ([]Assignment, []Failure) {
	ordered := make([]*Slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Existing != ordered[j].Existing {
			return ordered[i].Existing < ordered[j].Existing
		}
		return ordered[i].imbalance() > ordered[j].imbalance()
	})

	claimed := make(map[primitive.ObjectID]struct{})
	var assignments []Assignment
	var failures []Failure

	for _, slot := range ordered {
		filled := 0
		for slot.Remaining > 0 {
			best := -1
			var bestScore score
			for i, c := range candidates {
				if _, taken := claimed[c.ID]; taken {
					continue
				}
				if _, inFamily := slot.members[c.ID]; inFamily {
					continue
				}
				sc, ok := scoreCandidate(c, slot, cfg, now)
				if !ok {
					continue
				}
				if best == -1 || sc.total > bestScore.total {
					best = i
					bestScore = sc
				}
			}
			if best == -1 {
				failures = append(failures, Failure{
					FamilyID:          slot.FamilyID,
					FamilyName:        slot.FamilyName,
					GrandParentIndex:  slot.Path.GrandParent,
					ParentPairIndex:   slot.Path.ParentPair,
					RemainingCapacity: slot.Remaining,
					Reason:            "no eligible candidate remained for this parent pair",
				})
				break
			}

			c := candidates[best]
			relationship := models.RelationshipSon
			if c.Gender == models.GenderFemale {
				relationship = models.RelationshipDaughter
			}
			assignments = append(assignments, Assignment{
				ID:               uuid.NewString(),
				FamilyID:         slot.FamilyID,
				FamilyName:       slot.FamilyName,
				GrandParentIndex: slot.Path.GrandParent,
				ParentPairIndex:  slot.Path.ParentPair,
				StudentID:        c.ID,
				StudentName:      c.FullName(),
				Relationship:     relationship,
				BirthOrder:       slot.Existing + filled + 1,
				Score:            bestScore.total,
				AddressMatch:     bestScore.match,
				DiversityScore:   bestScore.diversity,
			})

			claimed[c.ID] = struct{}{}
			if relationship == models.RelationshipSon {
				slot.Sons++
			} else {
				slot.Daughters++
			}
			slot.Remaining--
			filled++
		}
	}
	return assignments, failures
}

// computeStatistics summarizes a finished allocation.
func computeStatistics(assignments []Assignment, cfg Config) Statistics {
	stats := Statistics{TotalAssigned: len(assignments)}
	families := make(map[primitive.ObjectID]struct{})
	students := make(map[primitive.ObjectID]struct{})
	var modeSum float64
	for _, a := range assignments {
		families[a.FamilyID] = struct{}{}
		students[a.StudentID] = struct{}{}
		if a.Relationship == models.RelationshipSon {
			stats.Sons++
		} else {
			stats.Daughters++
		}
		if cfg.Mode == ModeHeterogeneous {
			modeSum += float64(a.DiversityScore)
		} else {
			modeSum += a.Score
		}
	}
	stats.FamiliesAffected = len(families)
	stats.UniqueStudentsAssigned = len(students)
	if len(assignments) > 0 {
		avg := modeSum / float64(len(assignments))
		if cfg.Mode == ModeHeterogeneous {
			stats.AverageDiversityScore = avg
		} else {
			stats.AverageMatchQuality = avg
		}
	}
	return stats
}
