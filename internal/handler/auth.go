package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/service"
)

// AuthHandler manages registration, login, and the GitHub OAuth flow.
//
// API clients authenticate with the bearer token returned by signup/login;
// the browser-based OAuth flow instead lands the token in an HttpOnly
// cookie, which the auth middleware accepts as a fallback.
type AuthHandler struct {
	authService *service.AuthService
	github      *auth.GitHubProvider // nil when OAuth isn't configured
	logger      *slog.Logger
}

// NewAuthHandler creates an AuthHandler. github may be nil; the server then
// skips registering the OAuth routes.
func NewAuthHandler(authService *service.AuthService, github *auth.GitHubProvider, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		github:      github,
		logger:      logger,
	}
}

type signupRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// authResponse is returned by signup and login.
type authResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// HandleSignup registers a new account.
//
// HTTP: POST /api/auth/signup → 201 with {id, username, token}.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		ID:       result.User.ID,
		Username: result.User.Username,
		Token:    result.Token,
	})
}

// HandleLogin authenticates a username/password pair.
//
// HTTP: POST /api/auth/login → 200 with {id, username, token}.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		ID:       result.User.ID,
		Username: result.User.Username,
		Token:    result.Token,
	})
}

// HandleLogout clears the token cookie used by the browser OAuth flow.
// Bearer-token clients just discard their token; the token itself stays
// valid until expiry — that's the stateless JWT trade-off.
//
// HTTP: POST /api/auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out"})
}

// HandleMe returns the authenticated user's own record, including the
// derived snippetsCreated/snippetsLiked lists.
//
// HTTP: GET /api/me — auth required.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "valid authentication required"})
		return
	}

	user, err := h.authService.GetUserByUsername(r.Context(), username)
	if err != nil {
		h.logger.Error("HandleMe: user lookup failed", slog.String("username", username))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleUserProfile returns any user's public record by username.
//
// HTTP: GET /api/users/{username} — no auth. PasswordHash never serializes
// (json:"-"), so the full model is safe to return.
func (h *AuthHandler) HandleUserProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.GetUserByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// HandleGitHubLogin redirects the browser to GitHub's authorization page.
//
// HTTP: GET /auth/github/login
//
// The random state lands in a short-lived cookie; the callback checks it
// against the state GitHub echoes back (CSRF guard).
func (h *AuthHandler) HandleGitHubLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10 minutes
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.github.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleGitHubCallback completes the OAuth flow: verify state, exchange the
// code, upsert the user, set the token cookie, redirect home.
//
// HTTP: GET /auth/github/callback?code=xxx&state=yyy
func (h *AuthHandler) HandleGitHubCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie("oauth_state")
	if err != nil || stateCookie.Value == "" {
		h.logger.Warn("auth callback: missing state cookie")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid OAuth state"})
		return
	}
	if r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("auth callback: state mismatch")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "invalid OAuth state"})
		return
	}

	// The state cookie is single-use.
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("auth callback: user denied authorization", slog.String("error", errParam))
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Message: "missing OAuth code"})
		return
	}

	ghUser, err := h.github.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("auth callback: GitHub exchange failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "authentication failed"})
		return
	}

	result, err := h.authService.LoginOrRegisterGitHub(r.Context(), ghUser)
	if err != nil {
		h.logger.Error("auth callback: login failed",
			slog.Int64("githubID", ghUser.ID),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Message: "authentication failed"})
		return
	}

	// HttpOnly keeps the token out of reach of page scripts.
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    result.Token,
		Path:     "/",
		MaxAge:   int(auth.AccessTokenTTL / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
