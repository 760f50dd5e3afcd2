// internal/app/features/students/routes.go
package students

import "github.com/go-chi/chi/v5"

// Routes returns the /students subrouter.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// LIST + CREATE
	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	// SINGLE STUDENT
	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	return r
}
