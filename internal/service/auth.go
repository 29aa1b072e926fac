// Package service — authentication business logic.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/auth"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 30
	MinPasswordLength = 8
)

// usernamePattern keeps usernames URL- and mention-safe. Usernames end up
// inside snippet documents (addedBy, likedBy), so the charset is locked down
// at registration.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// AuthService handles registration, login, and the GitHub OAuth upsert.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the authenticated user and the issued token so the
// handler can respond (and set the cookie, for the OAuth flow) in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new password-based account and signs the caller in.
// A taken username surfaces as the Conflict kind.
func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)

	if len(username) < MinUsernameLength || len(username) > MaxUsernameLength {
		return nil, apperror.ValidationFailed("username",
			fmt.Sprintf("username must be %d-%d characters", MinUsernameLength, MaxUsernameLength))
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperror.ValidationFailed("username",
			"username may only contain letters, digits, '-' and '_'")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", "password must be 72 bytes or fewer")
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("registering user %s: %w", username, err)
	}

	s.logger.Info("user registered", slog.String("username", username))

	token, err := s.tokens.Generate(username)
	if err != nil {
		return nil, fmt.Errorf("generating token for %s: %w", username, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies a username/password pair and issues a token.
//
// A missing user and a wrong password both come back as the same
// Unauthorized message, so login can't be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	// OAuth-only accounts have no password hash to verify against.
	if user.PasswordHash == "" {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized("invalid username or password")
	}

	token, err := s.tokens.Generate(username)
	if err != nil {
		return nil, fmt.Errorf("generating token for %s: %w", username, err)
	}

	s.logger.Info("user logged in", slog.String("username", username))

	return &AuthResult{User: user, Token: token}, nil
}

// LoginOrRegisterGitHub completes the GitHub OAuth callback: upsert the
// account bound to the GitHub ID, then issue a token. First login creates
// the account; later logins refresh the username from GitHub.
func (s *AuthService) LoginOrRegisterGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user := &model.User{
		Username: ghUser.Login,
		GitHubID: ghUser.ID,
	}
	if err := s.users.UpsertGitHubUser(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: upserting user (githubID=%d): %w", ghUser.ID, err)
	}

	s.logger.Info("user authenticated via GitHub",
		slog.String("username", user.Username),
		slog.Int64("githubID", ghUser.ID),
	)

	token, err := s.tokens.Generate(user.Username)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for %s: %w", user.Username, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByUsername returns the full user record, including the derived
// created/liked snippet lists. Used by /api/me and the public profile route.
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	return s.users.GetByUsername(ctx, username)
}
