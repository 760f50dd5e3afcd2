// internal/app/assign/engine.go
package assign

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	studentstore "github.com/dawitfm/famhub/internal/app/store/students"
	"github.com/dawitfm/famhub/internal/app/system/txn"
	"github.com/dawitfm/famhub/internal/domain/models"
)

// Engine runs auto-assignment previews and commits against live data.
type Engine struct {
	db       *mongo.Database
	families *familystore.Store
	students *studentstore.Store
	log      *zap.Logger
}

func NewEngine(db *mongo.Database, log *zap.Logger) *Engine {
	return &Engine{
		db:       db,
		families: familystore.New(db),
		students: studentstore.New(db),
		log:      log,
	}
}

// Preview computes a full assignment proposal without writing anything.
// The same data and configuration always yield the same proposal.
func (e *Engine) Preview(ctx context.Context, cfg Config) (PreviewResult, error) {
	if err := cfg.validate(); err != nil {
		return PreviewResult{}, err
	}

	families, err := e.families.ListAssignable(ctx)
	if err != nil {
		return PreviewResult{}, err
	}
	if len(families) == 0 {
		return PreviewResult{}, validationf("No eligible families found (families with both parents)")
	}

	batchStudents, err := e.students.ListActiveByBatch(ctx, cfg.TargetBatch)
	if err != nil {
		return PreviewResult{}, err
	}
	if len(batchStudents) == 0 {
		return PreviewResult{}, validationf("no active students found in batch %q", cfg.TargetBatch)
	}

	// Candidates are batch students not yet in any family, assignable or
	// not. Students already placed somewhere must never be re-assigned.
	taken, err := e.takenStudentIDs(ctx)
	if err != nil {
		return PreviewResult{}, err
	}
	candidates := make([]models.Student, 0, len(batchStudents))
	for _, st := range batchStudents {
		if _, ok := taken[st.ID]; ok {
			continue
		}
		candidates = append(candidates, st)
	}
	if len(candidates) == 0 {
		return PreviewResult{}, validationf("all active students in batch %q are already assigned", cfg.TargetBatch)
	}

	members, err := e.students.GetByIDs(ctx, memberIDSet(families))
	if err != nil {
		return PreviewResult{}, err
	}

	slots, completePairs := buildSlots(families, members, cfg)
	if completePairs == 0 {
		return PreviewResult{}, validationf("No eligible families found (families with both parents)")
	}

	now := time.Now().UTC()
	assignments, failures := allocate(slots, candidates, cfg, now)

	e.log.Info("auto-assign preview computed",
		zap.String("batch", cfg.TargetBatch),
		zap.String("mode", cfg.Mode),
		zap.Int("slots", len(slots)),
		zap.Int("candidates", len(candidates)),
		zap.Int("assigned", len(assignments)),
		zap.Int("unfilled", len(failures)))

	return PreviewResult{
		Assignments:       assignments,
		Statistics:        computeStatistics(assignments, cfg),
		Configuration:     cfg,
		FailedAssignments: failures,
	}, nil
}

// takenStudentIDs returns every student id referenced by any family,
// whatever its status or capacity.
func (e *Engine) takenStudentIDs(ctx context.Context) (map[primitive.ObjectID]struct{}, error) {
	all, err := e.families.List(ctx, familystore.ListFilter{})
	if err != nil {
		return nil, err
	}
	taken := make(map[primitive.ObjectID]struct{})
	for _, fam := range all {
		for id := range fam.MemberIDs() {
			taken[id] = struct{}{}
		}
	}
	return taken, nil
}

// Commit applies a previously previewed set of assignments in one
// transaction. Every assignment is revalidated against the current
// documents; any stale or conflicting entry aborts the whole batch.
func (e *Engine) Commit(ctx context.Context, assignments []Assignment) ([]CommitResult, error) {
	if len(assignments) == 0 {
		return nil, validationf("assignments are required")
	}
	seen := make(map[primitive.ObjectID]struct{}, len(assignments))
	for _, a := range assignments {
		if a.FamilyID.IsZero() || a.StudentID.IsZero() {
			return nil, validationf("assignment is missing a family or student id")
		}
		if _, dup := seen[a.StudentID]; dup {
			return nil, validationf("student %s appears more than once in the batch", a.StudentID.Hex())
		}
		seen[a.StudentID] = struct{}{}
	}

	results := make([]CommitResult, 0, len(assignments))
	err := txn.Run(ctx, e.db, e.log, func(sc context.Context) error {
		results = results[:0]
		for _, a := range assignments {
			r, err := e.commitOne(sc, a)
			if err != nil {
				return err
			}
			results = append(results, r)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.log.Info("auto-assign committed", zap.Int("assignments", len(results)))
	return results, nil
}

func (e *Engine) commitOne(ctx context.Context, a Assignment) (CommitResult, error) {
	fam, err := e.families.GetByID(ctx, a.FamilyID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CommitResult{}, &NotFoundError{Resource: "family", ID: a.FamilyID.Hex()}
		}
		return CommitResult{}, err
	}

	if a.GrandParentIndex < 0 || a.GrandParentIndex >= len(fam.GrandParents) {
		return CommitResult{}, &NotFoundError{Resource: "grandparent group", ID: a.FamilyID.Hex()}
	}
	gp := fam.GrandParents[a.GrandParentIndex]
	if a.ParentPairIndex < 0 || a.ParentPairIndex >= len(gp.ParentPairs) {
		return CommitResult{}, &NotFoundError{Resource: "parent pair", ID: a.FamilyID.Hex()}
	}

	st, err := e.students.GetByID(ctx, a.StudentID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CommitResult{}, &NotFoundError{Resource: "student", ID: a.StudentID.Hex()}
		}
		return CommitResult{}, err
	}

	if fam.HasMember(a.StudentID) {
		return CommitResult{}, &ConflictError{StudentName: st.FullName(), FamilyName: fam.Name}
	}

	relationship := a.Relationship
	if relationship != models.RelationshipSon && relationship != models.RelationshipDaughter {
		relationship = models.RelationshipSon
		if st.Gender == models.GenderFemale {
			relationship = models.RelationshipDaughter
		}
	}

	// Birth order is derived from the document as it stands now, not
	// from the preview, so concurrent edits cannot produce gaps.
	birthOrder := len(gp.ParentPairs[a.ParentPairIndex].Children) + 1

	child := models.Child{
		StudentID:    a.StudentID,
		Relationship: relationship,
		BirthOrder:   birthOrder,
		AssignedAt:   time.Now().UTC(),
	}
	path := familystore.ChildPath{GrandParent: a.GrandParentIndex, ParentPair: a.ParentPairIndex}
	if err := e.families.AppendChild(ctx, a.FamilyID, path, child); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return CommitResult{}, &NotFoundError{Resource: "parent pair", ID: a.FamilyID.Hex()}
		}
		return CommitResult{}, err
	}

	return CommitResult{
		FamilyName:   fam.Name,
		StudentName:  st.FullName(),
		Relationship: relationship,
		BirthOrder:   birthOrder,
	}, nil
}
