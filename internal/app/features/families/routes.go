// internal/app/features/families/routes.go
package families

import (
	"github.com/go-chi/chi/v5"

	"github.com/dawitfm/famhub/internal/app/system/ratelimit"
)

// Routes returns the /families subrouter. The two assignment endpoints
// are rate limited: preview scans every assignable family and commit
// writes every family in the batch inside one transaction.
func Routes(h *Handler, limiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	// LIST + CREATE
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	// STATS
	r.Get("/stats", h.HandleStats)

	// AUTO-ASSIGNMENT (preview, then commit)
	r.With(limiter.Middleware).Post("/auto-assign-children", h.HandleAutoAssignPreview)
	r.With(limiter.Middleware).Post("/execute-auto-assign", h.HandleExecuteAutoAssign)

	// SINGLE FAMILY
	r.Get("/{id}", h.HandleGet)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/children", h.HandleAddChild)

	return r
}
