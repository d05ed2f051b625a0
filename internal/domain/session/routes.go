package session

import "github.com/go-chi/chi/v5"

// Routes mounts the session workflow endpoints.
func Routes(handler *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", handler.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Delete("/", handler.Delete)
		r.Put("/criteria", handler.SetCriteria)
		r.Post("/search", handler.Search)
		r.Get("/offerings", handler.Offerings)
		r.Post("/select", handler.SelectRoom)
		r.Put("/draft", handler.UpdateDraft)
		r.Get("/quote", handler.Quote)
		r.Post("/confirm", handler.Confirm)
		r.Post("/cancel", handler.Cancel)
		r.Get("/ws", handler.Watch)
	})

	return r
}
