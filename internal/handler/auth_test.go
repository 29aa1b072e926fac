package handler

import (
	"net/http"
	"testing"

	"github.com/sakif/snippet-share/internal/model"
)

// =========================================================================
// SIGNUP / LOGIN TESTS
// =========================================================================

func TestSignupAndLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "sup3rsecret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup: status %d, body %s", rec.Code, rec.Body.String())
	}
	var signup struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Token    string `json:"token"`
	}
	decodeBody(t, rec, &signup)
	if signup.ID == "" || signup.Username != "alice" || signup.Token == "" {
		t.Errorf("signup response = %+v, want id, username and token", signup)
	}

	login := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "sup3rsecret",
	})
	if login.Code != http.StatusOK {
		t.Fatalf("login: status %d, body %s", login.Code, login.Body.String())
	}
}

func TestSignup_TakenUsername(t *testing.T) {
	router := newTestRouter(t)
	signupUser(t, router, "alice")

	rec := doRequest(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
		"password": "otherpassword",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestSignup_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"username": "alice",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	router := newTestRouter(t)
	signupUser(t, router, "alice")

	rec := doRequest(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrongwrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var resp ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Message != "invalid username or password" {
		t.Errorf("message = %q, want the uniform login failure text", resp.Message)
	}
}

// =========================================================================
// ME / PROFILE TESTS
// =========================================================================

func TestMe(t *testing.T) {
	router := newTestRouter(t)
	token := signupUser(t, router, "alice")
	created := createSnippet(t, router, token, "mine", false)

	rec := doRequest(t, router, http.MethodGet, "/api/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var me model.User
	decodeBody(t, rec, &me)
	if me.Username != "alice" {
		t.Errorf("username = %q, want alice", me.Username)
	}
	if len(me.SnippetsCreated) != 1 || me.SnippetsCreated[0] != created {
		t.Errorf("snippetsCreated = %v, want [%s]", me.SnippetsCreated, created)
	}
}

func TestMe_NoToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/me", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestUserProfile(t *testing.T) {
	router := newTestRouter(t)
	aliceToken := signupUser(t, router, "alice")
	bobToken := signupUser(t, router, "bob")
	created := createSnippet(t, router, aliceToken, "liked by bob", false)
	if rec := doRequest(t, router, http.MethodPost, "/api/snippets/"+created+"/like", bobToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("like: status %d", rec.Code)
	}

	// The profile is public: no token needed.
	rec := doRequest(t, router, http.MethodGet, "/api/users/bob", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var profile model.User
	decodeBody(t, rec, &profile)
	if len(profile.SnippetsLiked) != 1 || profile.SnippetsLiked[0] != created {
		t.Errorf("snippetsLiked = %v, want [%s]", profile.SnippetsLiked, created)
	}

	// The password hash must never serialize.
	if body := rec.Body.String(); len(body) > 0 {
		var raw map[string]any
		decodeBody(t, rec, &raw)
		for key := range raw {
			if key == "passwordHash" || key == "password_hash" {
				t.Errorf("profile leaked %q", key)
			}
		}
	}
}

func TestUserProfile_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/api/users/ghost", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

// =========================================================================
// LOGOUT TESTS
// =========================================================================

func TestLogout_ClearsCookie(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should expire the token cookie")
	}
}
