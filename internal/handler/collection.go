package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/service"
)

// CollectionHandler exposes the collection resource. Every route sits behind
// RequireAuth — collections are private to their owner, so there is no
// public listing.
type CollectionHandler struct {
	collections *service.CollectionService
	logger      *slog.Logger
}

// NewCollectionHandler creates a CollectionHandler.
func NewCollectionHandler(collections *service.CollectionService, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{
		collections: collections,
		logger:      logger,
	}
}

type collectionRequest struct {
	Name string `json:"name" validate:"required"`
}

// HandleList returns the caller's collections.
//
// HTTP: GET /api/collections
func (h *CollectionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	collections, err := h.collections.List(r.Context(), username)
	if err != nil {
		h.logger.Error("failed to list collections", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collections)
}

// HandleCreate creates an empty collection.
//
// HTTP: POST /api/collections → 200 with {"id": str}, same shape as the
// snippet create.
func (h *CollectionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	collection, err := h.collections.Create(r.Context(), username, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": collection.ID})
}

// HandleGetByID returns one of the caller's collections.
//
// HTTP: GET /api/collections/{id}
func (h *CollectionHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	collection, err := h.collections.GetByID(r.Context(), username, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, collection)
}

// HandleRename changes a collection's name.
//
// HTTP: PUT /api/collections/{id}
func (h *CollectionHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	var req collectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.collections.Rename(r.Context(), username, r.PathValue("id"), req.Name); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Collection updated"})
}

// HandleDelete removes a collection, leaving its snippets alone.
//
// HTTP: DELETE /api/collections/{id}
func (h *CollectionHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	if err := h.collections.Delete(r.Context(), username, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Collection deleted"})
}

// HandleAddSnippet adds a snippet reference to a collection.
//
// HTTP: POST /api/collections/{id}/snippets/{snippetID}
func (h *CollectionHandler) HandleAddSnippet(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	err := h.collections.AddSnippet(r.Context(), username, r.PathValue("id"), r.PathValue("snippetID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet added to collection"})
}

// HandleRemoveSnippet drops a snippet reference from a collection.
//
// HTTP: DELETE /api/collections/{id}/snippets/{snippetID}
func (h *CollectionHandler) HandleRemoveSnippet(w http.ResponseWriter, r *http.Request) {
	username, _ := auth.UsernameFromContext(r.Context())

	err := h.collections.RemoveSnippet(r.Context(), username, r.PathValue("id"), r.PathValue("snippetID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet removed from collection"})
}
