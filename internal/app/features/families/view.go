// internal/app/features/families/view.go
package families

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

// memberSummary is the hydrated view of one student referenced by the family.
type memberSummary struct {
	ID     primitive.ObjectID `json:"id"`
	Name   string             `json:"name"`
	Gender string             `json:"gender"`
	Batch  string             `json:"batch"`
}

type familyView struct {
	models.Family
	Members []memberSummary `json:"members"`
}

// HandleGet handles GET /families/{id}. The response includes a flat
// members list so clients do not need a second round trip for names.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid family id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fam, err := h.Families.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httpjson.NotFound(w, "family not found")
			return
		}
		h.Log.Error("families: get failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	var ids []primitive.ObjectID
	for mid := range fam.MemberIDs() {
		ids = append(ids, mid)
	}
	students, err := h.Students.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Error("families: member hydration failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}

	view := familyView{Family: fam, Members: make([]memberSummary, 0, len(students))}
	for _, st := range students {
		view.Members = append(view.Members, memberSummary{
			ID:     st.ID,
			Name:   st.FullName(),
			Gender: st.Gender,
			Batch:  st.Batch,
		})
	}
	sort.Slice(view.Members, func(i, j int) bool { return view.Members[i].Name < view.Members[j].Name })
	httpjson.Write(w, http.StatusOK, view)
}

// HandleDelete handles DELETE /families/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.BadRequest(w, "invalid family id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Families.Delete(ctx, id)
	if err != nil {
		h.Log.Error("families: delete failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if n == 0 {
		httpjson.NotFound(w, "family not found")
		return
	}

	h.Log.Info("family deleted", zap.String("family_id", id.Hex()))
	w.WriteHeader(http.StatusNoContent)
}
