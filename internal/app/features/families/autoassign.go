// internal/app/features/families/autoassign.go
package families

import (
	"context"
	"net/http"

	"github.com/dawitfm/famhub/internal/app/assign"
	"github.com/dawitfm/famhub/internal/app/system/httpjson"
	"github.com/dawitfm/famhub/internal/app/system/timeouts"
)

// HandleAutoAssignPreview handles POST /families/auto-assign-children.
// It computes a full assignment proposal and returns it without writing
// anything; operators review the proposal and send the assignments they
// accept to the execute endpoint.
func (h *Handler) HandleAutoAssignPreview(w http.ResponseWriter, r *http.Request) {
	var cfg assign.Config
	if err := httpjson.Decode(r, &cfg); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	result, err := h.Engine.Preview(ctx, cfg)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, result)
}

type executeRequest struct {
	Assignments []assign.Assignment `json:"assignments"`
}

type executeResponse struct {
	Message     string                `json:"message"`
	Assignments []assign.CommitResult `json:"assignments"`
}

// HandleExecuteAutoAssign handles POST /families/execute-auto-assign.
// The whole batch is applied in one transaction; any stale assignment
// aborts it and nothing is written.
func (h *Handler) HandleExecuteAutoAssign(w http.ResponseWriter, r *http.Request) {
	var req executeRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.BadRequest(w, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	results, err := h.Engine.Commit(ctx, req.Assignments)
	if err != nil {
		h.writeEngineError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, executeResponse{
		Message:     "children assigned successfully",
		Assignments: results,
	})
}
