package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes mounts the /api route table. The server and the handler
// tests both call this, so the table they exercise is the same one by
// construction. The GitHub OAuth routes live outside /api and are registered
// by the server only when credentials are configured.
func RegisterAPIRoutes(
	router chi.Router,
	authHandler *AuthHandler,
	snippetHandler *SnippetHandler,
	collectionHandler *CollectionHandler,
	requireAuth func(http.Handler) http.Handler,
) {
	router.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", authHandler.HandleSignup)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/logout", authHandler.HandleLogout)

		// Public reads.
		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Get("/users/{username}", authHandler.HandleUserProfile)

		// Authenticated routes.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/me", authHandler.HandleMe)

			r.Post("/snippets", snippetHandler.HandleCreate)
			r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
			r.Delete("/snippets/{id}", snippetHandler.HandleDelete)
			r.Post("/snippets/{id}/like", snippetHandler.HandleLike)

			r.Get("/collections", collectionHandler.HandleList)
			r.Post("/collections", collectionHandler.HandleCreate)
			r.Get("/collections/{id}", collectionHandler.HandleGetByID)
			r.Put("/collections/{id}", collectionHandler.HandleRename)
			r.Delete("/collections/{id}", collectionHandler.HandleDelete)
			r.Post("/collections/{id}/snippets/{snippetID}", collectionHandler.HandleAddSnippet)
			r.Delete("/collections/{id}/snippets/{snippetID}", collectionHandler.HandleRemoveSnippet)
		})
	})
}
