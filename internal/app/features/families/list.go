// internal/app/features/families/list.go
package families

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	familystore "github.com/dawitfm/famhub/internal/app/store/families"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/normalize"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
	"github.com/dawitfm/famhub/internal/domain/models"
)

// HandleList handles GET /families with optional batch and status filters.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	filter := familystore.ListFilter{
		Batch:  normalize.Token(r.URL.Query().Get("batch")),
		Status: normalize.Token(r.URL.Query().Get("status")),
	}

	list, err := h.Families.List(ctx, filter)
	if err != nil {
		h.Log.Error("families: list failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if list == nil {
		list = []models.Family{}
	}
	httpjson.Write(w, http.StatusOK, list)
}
