// internal/app/assign/scanner.go
package assign

import (
	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	"github.com/dawitfm/famhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildSlots filters every parent pair of every family down to the slots
// eligible for new children. students must contain every student the
// families reference (the engine hydrates it before calling).
//
// A slot is eligible iff:
//   - both parents resolve to real student records,
//   - the family allows other batches OR both parents belong to the
//     target batch,
//   - it has remaining capacity under cfg.MaxChildrenPerFamily,
//   - (homogeneous only) the parents share at least one address level;
//     pairs with zero geographic overlap are excluded entirely.
//
// The second return counts pairs with both parents resolved, before the
// remaining filters; the caller uses it to distinguish "no complete
// families at all" from "families exist but are full".
func buildSlots(families []models.Family, students map[primitive.ObjectID]models.Student, cfg Config) ([]*Slot, int) {
	var slots []*Slot
	complete := 0

	for i := range families {
		fam := &families[i]
		members := fam.MemberIDs()

		for gi, gp := range fam.GrandParents {
			for pi, pp := range gp.ParentPairs {
				father, okF := students[pp.FatherID]
				mother, okM := students[pp.MotherID]
				if !okF || !okM {
					continue
				}
				complete++

				if !fam.AllowOtherBatches &&
					(father.Batch != cfg.TargetBatch || mother.Batch != cfg.TargetBatch) {
					continue
				}

				remaining := cfg.MaxChildrenPerFamily - len(pp.Children)
				if remaining <= 0 {
					continue
				}

				slot := &Slot{
					FamilyID:          fam.ID,
					FamilyName:        fam.Name,
					FamilyBatch:       fam.Batch,
					AllowOtherBatches: fam.AllowOtherBatches,
					Path:              familystore.ChildPath{GrandParent: gi, ParentPair: pi},
					Father:            father,
					Mother:            mother,
					Existing:          len(pp.Children),
					Remaining:         remaining,
					members:           members,
				}
				for _, c := range pp.Children {
					if c.Relationship == models.RelationshipSon {
						slot.Sons++
					} else {
						slot.Daughters++
					}
				}

				if cfg.Mode == ModeHomogeneous {
					level, value, ok := sharedAddress(father, mother, cfg.AddressLevel)
					if !ok {
						continue
					}
					slot.SharedLevel = level
					slot.SharedValue = value
				}

				slots = append(slots, slot)
			}
		}
	}
	return slots, complete
}

// sharedAddress finds the address level father and mother have in common.
// When preferred names a level the parents share, it wins; otherwise the
// most specific shared level does. Returns ok=false when the parents have
// no geographic overlap at any level.
func sharedAddress(father, mother models.Student, preferred string) (level, value string, ok bool) {
	if preferred != "" {
		if v := addressAt(father, preferred); v != "" && v == addressAt(mother, preferred) {
			return preferred, v, true
		}
	}
	for _, l := range levelOrder {
		if v := addressAt(father, l); v != "" && v == addressAt(mother, l) {
			return l, v, true
		}
	}
	return "", "", false
}

// memberIDSet collects every student id referenced by the given families,
// so the engine can hydrate parents and children in one query.
func memberIDSet(families []models.Family) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{})
	var ids []primitive.ObjectID
	for _, fam := range families {
		for id := range fam.MemberIDs() {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
