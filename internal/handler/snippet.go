package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/repository"
	"github.com/sakif/snippet-share/internal/service"
)

// SnippetHandler exposes the snippet resource over HTTP. Each method is
// stateless: parse, call the service, serialize, map errors — nothing else.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{
		snippets: snippets,
		logger:   logger,
	}
}

// createSnippetRequest is the POST body. The validate tags are the schema:
// a missing required field or wrong type is a 400 before the service runs.
type createSnippetRequest struct {
	Title       string `json:"title"       validate:"required"`
	Filename    string `json:"filename"    validate:"required"`
	Description string `json:"description"`
	Language    string `json:"language"    validate:"required"`
	Value       string `json:"value"       validate:"required"`
	Private     bool   `json:"private"`
	Source      string `json:"source"`
}

// updateSnippetRequest is the PUT body. Every field is optional — pointer
// fields distinguish "absent" (keep stored value) from "present but zero"
// (e.g. flipping private back to false).
type updateSnippetRequest struct {
	Title       *string `json:"title"`
	Filename    *string `json:"filename"`
	Description *string `json:"description"`
	Language    *string `json:"language"`
	Value       *string `json:"value"`
	Private     *bool   `json:"private"`
	Source      *string `json:"source"`
}

// HandleList returns all public snippets as a JSON array.
//
// HTTP: GET /api/snippets — no auth. Private snippets never appear here;
// an empty result is `[]`, not null.
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	snippets, err := h.snippets.ListPublic(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list snippets", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGetByID returns a single snippet document.
//
// HTTP: GET /api/snippets/{id} — no auth; private snippets are reachable by
// ID, only the listing filters on visibility.
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	snippet, err := h.snippets.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate saves a new snippet for the authenticated user.
//
// HTTP: POST /api/snippets — auth required.
// Success is 200 with `{"id": "<new id>"}`; the client fetches the full
// document separately if it wants the server-stamped fields.
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "valid authentication required"})
		return
	}

	var req createSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Create(r.Context(), username, service.CreateSnippetInput{
		Title:       req.Title,
		Filename:    req.Filename,
		Description: req.Description,
		Language:    req.Language,
		Value:       req.Value,
		Private:     req.Private,
		Source:      req.Source,
	})
	if err != nil {
		h.logger.Error("failed to create snippet",
			slog.String("user", username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": snippet.ID})
}

// HandleUpdate applies a partial update to an owned snippet.
//
// HTTP: PUT /api/snippets/{id} — auth required, owner only. Responds with a
// confirmation message, not the document; updatedOn is stamped server-side.
// A non-owner's request is a 404, indistinguishable from a missing ID.
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "valid authentication required"})
		return
	}

	var req updateSnippetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	patch := repository.SnippetPatch{
		Title:       req.Title,
		Filename:    req.Filename,
		Description: req.Description,
		Language:    req.Language,
		Value:       req.Value,
		Private:     req.Private,
		Source:      req.Source,
	}

	if err := h.snippets.Update(r.Context(), username, r.PathValue("id"), patch); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet updated"})
}

// HandleDelete removes an owned snippet.
//
// HTTP: DELETE /api/snippets/{id} — auth required, owner only.
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "valid authentication required"})
		return
	}

	if err := h.snippets.Delete(r.Context(), username, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet deleted"})
}

// HandleLike records a like from the authenticated user.
//
// HTTP: POST /api/snippets/{id}/like — auth required, no ownership
// restriction. Idempotent: liking twice is the same as liking once.
func (h *SnippetHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "valid authentication required"})
		return
	}

	if err := h.snippets.Like(r.Context(), username, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Snippet liked"})
}
