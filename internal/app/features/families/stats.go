// internal/app/features/families/stats.go
package families

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dawitfm/famhub/internal/app/store/queries/familystats"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
)

// HandleStats handles GET /families/stats: per-batch family and child
// counts computed by aggregation.
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	stats, err := familystats.PerBatch(ctx, h.DB)
	if err != nil {
		h.Log.Error("families: stats aggregation failed", zap.Error(err))
		httpjson.ServerError(w)
		return
	}
	if stats == nil {
		stats = []familystats.BatchStats{}
	}
	httpjson.Write(w, http.StatusOK, stats)
}
