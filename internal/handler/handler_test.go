package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/repository/sqlite"
	"github.com/sakif/snippet-share/internal/service"
)

// newTestRouter wires the real stack — sqlite in memory, real services, real
// auth middleware — behind the same route table the server registers. Handler
// tests exercise full request flows, not handlers in isolation.
func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := auth.NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("failed to create token service: %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(4)

	authService := service.NewAuthService(db, tokens, passwords, logger)
	snippetService := service.NewSnippetService(db, logger)
	collectionService := service.NewCollectionService(db, logger)

	authHandler := NewAuthHandler(authService, nil, logger)
	snippetHandler := NewSnippetHandler(snippetService, logger)
	collectionHandler := NewCollectionHandler(collectionService, logger)

	router := chi.NewRouter()
	RegisterAPIRoutes(router, authHandler, snippetHandler, collectionHandler, auth.RequireAuth(tokens))
	return router
}

// doRequest performs a JSON request against the router. An empty token sends
// no Authorization header; a nil body sends no payload.
func doRequest(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals the recorded response body into out.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}

// signupUser registers a user through the API and returns their token.
func signupUser(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": username,
		"password": "sup3rsecret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup for %s: status %d, body %s", username, rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	return resp.Token
}

// createSnippet creates a snippet through the API and returns its ID.
func createSnippet(t *testing.T, router http.Handler, token, title string, private bool) string {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/api/snippets", token, map[string]any{
		"title":    title,
		"filename": "main.go",
		"language": "go",
		"value":    "package main",
		"private":  private,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("creating snippet %q: status %d, body %s", title, rec.Code, rec.Body.String())
	}

	var resp struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &resp)
	return resp.ID
}
