// internal/app/features/families/create.go
package families

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/normalize"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

type createRequest struct {
	Name              string             `json:"name"`
	Batch             string             `json:"batch"`
	AllowOtherBatches bool               `json:"allowOtherBatches"`
	LeaderID          string             `json:"leaderId,omitempty"`
	CoLeaderID        string             `json:"coLeaderId,omitempty"`
	SecretaryID       string             `json:"secretaryId,omitempty"`
	GrandParents      []grandParentInput `json:"grandParents"`
}

type grandParentInput struct {
	Title         string            `json:"title"`
	GrandFatherID string            `json:"grandFatherId,omitempty"`
	GrandMotherID string            `json:"grandMotherId,omitempty"`
	ParentPairs   []parentPairInput `json:"parentPairs"`
}

type parentPairInput struct {
	FatherID string `json:"fatherId"`
	MotherID string `json:"motherId"`
}

// HandleCreate handles POST /families.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	req.Name = normalize.Name(req.Name)
	req.Batch = normalize.Token(req.Batch)
	if req.Name == "" {
		httpjson.BadRequest(w, "name is required")
		return
	}
	if req.Batch == "" {
		httpjson.BadRequest(w, "batch is required")
		return
	}

	fam, err := req.toFamily()
	if err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.checkMembers(ctx, fam); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	created, err := h.Families.Create(ctx, fam)
	if err != nil {
		if errors.Is(err, familystore.ErrDuplicateFamilyName) {
			httpjson.Conflict(w, err.Error())
			return
		}
		h.Log.Error("families: create failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	h.Log.Info("family created",
		zap.String("family_id", created.ID.Hex()),
		zap.String("name", created.Name),
		zap.String("batch", created.Batch))
	httpjson.Write(w, http.StatusCreated, created)
}

func (r createRequest) toFamily() (models.Family, error) {
	fam := models.Family{
		Name:              r.Name,
		Batch:             r.Batch,
		AllowOtherBatches: r.AllowOtherBatches,
		Status:            familystore.StatusActive,
	}

	var err error
	if fam.LeaderID, err = optionalID(r.LeaderID, "leaderId"); err != nil {
		return models.Family{}, err
	}
	if fam.CoLeaderID, err = optionalID(r.CoLeaderID, "coLeaderId"); err != nil {
		return models.Family{}, err
	}
	if fam.SecretaryID, err = optionalID(r.SecretaryID, "secretaryId"); err != nil {
		return models.Family{}, err
	}

	for gi, g := range r.GrandParents {
		gp := models.GrandParent{Title: normalize.Name(g.Title)}
		if gp.GrandFatherID, err = optionalID(g.GrandFatherID, "grandFatherId"); err != nil {
			return models.Family{}, err
		}
		if gp.GrandMotherID, err = optionalID(g.GrandMotherID, "grandMotherId"); err != nil {
			return models.Family{}, err
		}
		for pi, p := range g.ParentPairs {
			fatherID, err := requiredID(p.FatherID, "fatherId")
			if err != nil {
				return models.Family{}, fmt.Errorf("grandParents[%d].parentPairs[%d]: %w", gi, pi, err)
			}
			motherID, err := requiredID(p.MotherID, "motherId")
			if err != nil {
				return models.Family{}, fmt.Errorf("grandParents[%d].parentPairs[%d]: %w", gi, pi, err)
			}
			gp.ParentPairs = append(gp.ParentPairs, models.ParentPair{
				FatherID: fatherID,
				MotherID: motherID,
				Children: []models.Child{},
			})
		}
		fam.GrandParents = append(fam.GrandParents, gp)
	}

	// A student may appear only once anywhere in the family.
	seen := make(map[primitive.ObjectID]struct{})
	for id := range fam.MemberIDs() {
		seen[id] = struct{}{}
	}
	count := 0
	walkIDs(fam, func(primitive.ObjectID) { count++ })
	if count != len(seen) {
		return models.Family{}, errors.New("a student appears more than once in the family")
	}

	return fam, nil
}

// checkMembers verifies every referenced student exists and that parent
// pair roles match student genders.
func (h *Handler) checkMembers(ctx context.Context, fam models.Family) error {
	var ids []primitive.ObjectID
	for id := range fam.MemberIDs() {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}

	students, err := h.Students.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := students[id]; !ok {
			return fmt.Errorf("student %s does not exist", id.Hex())
		}
	}

	for _, gp := range fam.GrandParents {
		for _, pp := range gp.ParentPairs {
			if students[pp.FatherID].Gender != models.GenderMale {
				return fmt.Errorf("father %s is not a male student", pp.FatherID.Hex())
			}
			if students[pp.MotherID].Gender != models.GenderFemale {
				return fmt.Errorf("mother %s is not a female student", pp.MotherID.Hex())
			}
		}
	}
	return nil
}

func walkIDs(fam models.Family, fn func(primitive.ObjectID)) {
	opt := func(id *primitive.ObjectID) {
		if id != nil && !id.IsZero() {
			fn(*id)
		}
	}
	opt(fam.LeaderID)
	opt(fam.CoLeaderID)
	opt(fam.SecretaryID)
	for _, gp := range fam.GrandParents {
		opt(gp.GrandFatherID)
		opt(gp.GrandMotherID)
		for _, pp := range gp.ParentPairs {
			fn(pp.FatherID)
			fn(pp.MotherID)
			for _, c := range pp.Children {
				fn(c.StudentID)
			}
		}
	}
}

func optionalID(hex, field string) (*primitive.ObjectID, error) {
	if hex == "" {
		return nil, nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil, fmt.Errorf("%s is not a valid id", field)
	}
	return &id, nil
}

func requiredID(hex, field string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, fmt.Errorf("%s is required", field)
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s is not a valid id", field)
	}
	return id, nil
}
