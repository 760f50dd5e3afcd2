// internal/app/features/families/addchild.go
package families

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dawitfm/famhub/internal/app/assign"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

type addChildRequest struct {
	GrandParentIndex int    `json:"grandParentIndex"`
	ParentPairIndex  int    `json:"parentPairIndex"`
	StudentID        string `json:"studentId"`
	Relationship     string `json:"relationship,omitempty"`
}

// HandleAddChild handles POST /families/{id}/children: a manual, single
// placement. It goes through the same commit path as the bulk endpoint,
// so membership conflicts and birth order behave identically.
func (h *Handler) HandleAddChild(w http.ResponseWriter, r *http.Request) {
	familyID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid family id")
		return
	}

	var req addChildRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}
	studentID, err := primitive.ObjectIDFromHex(req.StudentID)
	if err != nil {
		httpjson.BadRequest(w, "invalid student id")
		return
	}
	if req.Relationship != "" &&
		req.Relationship != models.RelationshipSon &&
		req.Relationship != models.RelationshipDaughter {
		httpjson.BadRequest(w, "relationship must be son or daughter")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	results, err := h.Engine.Commit(ctx, []assign.Assignment{{
		FamilyID:         familyID,
		GrandParentIndex: req.GrandParentIndex,
		ParentPairIndex:  req.ParentPairIndex,
		StudentID:        studentID,
		Relationship:     req.Relationship,
	}})
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, results[0])
}
