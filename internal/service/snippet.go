// Package service contains the business logic layer: validation limits,
// ownership rules, and credential checks, with no knowledge of HTTP or SQL.
// Handlers call services; services call repository interfaces; main wires
// the chain together.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// Validation limits. Named constants so error messages and checks can't
// drift apart.
const (
	MaxTitleLength    = 100
	MaxFilenameLength = 255
	MaxValueLength    = 100000 // ~100KB of code
	DefaultListLimit  = 20
	MaxListLimit      = 100
)

// CreateSnippetInput carries the caller-supplied fields of a new snippet.
// AddedBy and the timestamps are stamped by the service and repository, not
// accepted from the client.
type CreateSnippetInput struct {
	Title       string
	Filename    string
	Description string
	Language    string
	Value       string
	Private     bool
	Source      string
}

// SnippetService handles business logic for snippets.
type SnippetService struct {
	repo   repository.SnippetRepository
	logger *slog.Logger
}

// NewSnippetService creates a SnippetService. The caller decides which
// repository implementation to inject (sqlite in production, a mock in
// tests).
func NewSnippetService(repo repository.SnippetRepository, logger *slog.Logger) *SnippetService {
	return &SnippetService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new snippet on behalf of username.
func (s *SnippetService) Create(ctx context.Context, username string, in CreateSnippetInput) (*model.Snippet, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Filename = strings.TrimSpace(in.Filename)

	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "snippet title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
	}
	if in.Filename == "" {
		return nil, apperror.ValidationFailed("filename", "filename is required")
	}
	if len(in.Filename) > MaxFilenameLength {
		return nil, apperror.ValidationFailed("filename",
			fmt.Sprintf("filename must be %d characters or less", MaxFilenameLength))
	}
	if strings.TrimSpace(in.Language) == "" {
		return nil, apperror.ValidationFailed("language", "language is required")
	}
	if in.Value == "" {
		return nil, apperror.ValidationFailed("value", "snippet value is required")
	}
	if len(in.Value) > MaxValueLength {
		return nil, apperror.ValidationFailed("value",
			fmt.Sprintf("snippet value must be %d characters or less", MaxValueLength))
	}

	snippet := &model.Snippet{
		Title:       in.Title,
		Filename:    in.Filename,
		Description: strings.TrimSpace(in.Description),
		Language:    strings.TrimSpace(in.Language),
		Value:       in.Value,
		AddedBy:     username,
		Private:     in.Private,
		Source:      strings.TrimSpace(in.Source),
	}

	if err := s.repo.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
		slog.String("addedBy", username),
	)

	return snippet, nil
}

// GetByID retrieves a snippet by ID, private or not — visibility restricts
// the listing, not direct access. Returns the NotFound kind when missing.
func (s *SnippetService) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "snippet ID is required")
	}

	return s.repo.GetByID(ctx, id)
}

// ListPublic retrieves public snippets with pagination, newest first.
func (s *SnippetService) ListPublic(ctx context.Context, limit, offset int) ([]model.Snippet, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	snippets, err := s.repo.ListPublic(ctx, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return snippets, nil
}

// Update applies a partial patch to a snippet owned by username. Supplied
// fields are validated with the same limits as Create; omitted fields keep
// their stored values. A non-owner gets NotFound, never Forbidden.
func (s *SnippetService) Update(ctx context.Context, username, id string, patch repository.SnippetPatch) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return apperror.ValidationFailed("title", "snippet title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return apperror.ValidationFailed("title",
				fmt.Sprintf("snippet title must be %d characters or less", MaxTitleLength))
		}
		patch.Title = &title
	}
	if patch.Filename != nil {
		filename := strings.TrimSpace(*patch.Filename)
		if filename == "" {
			return apperror.ValidationFailed("filename", "filename must not be empty")
		}
		if len(filename) > MaxFilenameLength {
			return apperror.ValidationFailed("filename",
				fmt.Sprintf("filename must be %d characters or less", MaxFilenameLength))
		}
		patch.Filename = &filename
	}
	if patch.Value != nil && len(*patch.Value) > MaxValueLength {
		return apperror.ValidationFailed("value",
			fmt.Sprintf("snippet value must be %d characters or less", MaxValueLength))
	}

	if err := s.repo.Update(ctx, id, username, patch); err != nil {
		return err
	}

	s.logger.Info("snippet updated",
		slog.String("id", id),
		slog.String("owner", username),
	)
	return nil
}

// Delete removes a snippet owned by username.
func (s *SnippetService) Delete(ctx context.Context, username, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.Delete(ctx, id, username); err != nil {
		return err
	}

	s.logger.Info("snippet deleted",
		slog.String("id", id),
		slog.String("owner", username),
	)
	return nil
}

// Like records that username likes the snippet. Any authenticated user may
// like any snippet, their own included; liking twice changes nothing.
func (s *SnippetService) Like(ctx context.Context, username, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "snippet ID is required")
	}

	if err := s.repo.Like(ctx, id, username); err != nil {
		return err
	}

	s.logger.Info("snippet liked",
		slog.String("id", id),
		slog.String("likedBy", username),
	)
	return nil
}
