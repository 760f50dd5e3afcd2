// internal/app/assign/scoring.go
package assign

import (
	"fmt"
	"time"

	"github.com/dawitfm/famhub/internal/domain/models"
)

// score is the result of evaluating one (candidate, slot) pair.
type score struct {
	total     float64
	modeScore float64 // homogeneous match points or diversity points
	match     string  // homogeneous: human-readable match description
	diversity int     // heterogeneous: raw diversity points
}

// scoreCandidate computes the placement score of candidate into slot, or
// ok=false when any hard filter rejects the pairing. Pure function of its
// inputs; now anchors age computation.
func scoreCandidate(c models.Student, slot *Slot, cfg Config, now time.Time) (score, bool) {
	// Batch compliance.
	if !slot.AllowOtherBatches && c.Batch != slot.FamilyBatch {
		return score{}, false
	}

	// Age appropriateness: skipped when any of the three birth dates is
	// unknown (intentional permissiveness, kept from the source system).
	candidateAge, ageKnown := c.Age(now)
	if cfg.ConsiderAge && ageKnown {
		if fa, ok := slot.Father.Age(now); ok {
			if ma, ok := slot.Mother.Age(now); ok {
				maxParent := fa
				if ma > maxParent {
					maxParent = ma
				}
				if candidateAge > maxParent+5 {
					return score{}, false
				}
			}
		}
	}

	// Gender preference.
	preferred := ""
	if cfg.ConsiderGenderBalance {
		preferred = slot.preferredGender()
		if preferred != "" && c.Gender != preferred {
			return score{}, false
		}
	}

	var sc score
	switch cfg.Mode {
	case ModeHomogeneous:
		points, match, ok := homogeneousScore(c, slot)
		if !ok {
			return score{}, false
		}
		sc.modeScore = points
		sc.match = match
	case ModeHeterogeneous:
		div := diversityScore(c, slot.Father, slot.Mother)
		if div == 0 {
			// Too address-identical to the family to add diversity.
			return score{}, false
		}
		sc.modeScore = float64(div)
		sc.diversity = div
	}

	sc.total = sc.modeScore
	if ageKnown {
		sc.total += float64(30-candidateAge) * 0.1
	}
	if cfg.ConsiderGenderBalance && preferred != "" && c.Gender == preferred {
		sc.total += float64(slot.imbalance()) * 0.05
	}
	return sc, true
}

// homogeneousScore awards 100 for an exact match at the slot's shared
// level, otherwise probes coarser levels in order, awarding
// 50 - 10*stepsCoarser for the first level where candidate and both
// parents agree (the first coarser level counts as zero steps). No match
// at any level means the candidate is ineligible for the slot.
func homogeneousScore(c models.Student, slot *Slot) (float64, string, bool) {
	if addressAt(c, slot.SharedLevel) == slot.SharedValue {
		return 100, fmt.Sprintf("%s match: %s", slot.SharedLevel, slot.SharedValue), true
	}
	start := levelIndex(slot.SharedLevel) + 1
	for i := start; i < len(levelOrder); i++ {
		level := levelOrder[i]
		v := addressAt(slot.Father, level)
		if v == "" || v != addressAt(slot.Mother, level) {
			continue
		}
		if addressAt(c, level) == v {
			points := float64(50 - 10*(i-start))
			return points, fmt.Sprintf("%s match: %s", level, v), true
		}
	}
	return 0, "", false
}

// diversityScore rewards the coarsest level at which the candidate's
// address differs from both parents: region 4, zone 3, wereda 2,
// kebele 1. Zero means the candidate is address-identical to the family.
func diversityScore(c, father, mother models.Student) int {
	type probe struct {
		level  string
		points int
	}
	for _, p := range []probe{
		{LevelRegion, 4},
		{LevelZone, 3},
		{LevelWereda, 2},
		{LevelKebele, 1},
	} {
		cv := addressAt(c, p.level)
		if cv == "" {
			continue
		}
		if cv != addressAt(father, p.level) && cv != addressAt(mother, p.level) {
			return p.points
		}
	}
	return 0
}
