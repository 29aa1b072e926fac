// Package service — collection business logic.
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

const MaxCollectionNameLength = 100

// CollectionService handles business logic for snippet collections. Every
// operation is scoped to the authenticated owner; collections are not
// visible to other users at all.
type CollectionService struct {
	repo   repository.CollectionRepository
	logger *slog.Logger
}

// NewCollectionService creates a CollectionService.
func NewCollectionService(repo repository.CollectionRepository, logger *slog.Logger) *CollectionService {
	return &CollectionService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new, empty collection for owner.
func (s *CollectionService) Create(ctx context.Context, owner, name string) (*model.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "collection name is required")
	}
	if len(name) > MaxCollectionNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("collection name must be %d characters or less", MaxCollectionNameLength))
	}

	collection := &model.Collection{
		Name:  name,
		Owner: owner,
	}
	if err := s.repo.CreateCollection(ctx, collection); err != nil {
		return nil, fmt.Errorf("creating collection: %w", err)
	}

	s.logger.Info("collection created",
		slog.String("id", collection.ID),
		slog.String("name", name),
		slog.String("owner", owner),
	)

	return collection, nil
}

// GetByID retrieves one of owner's collections.
func (s *CollectionService) GetByID(ctx context.Context, owner, id string) (*model.Collection, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "collection ID is required")
	}

	return s.repo.GetCollectionByID(ctx, id, owner)
}

// List retrieves all of owner's collections.
func (s *CollectionService) List(ctx context.Context, owner string) ([]model.Collection, error) {
	collections, err := s.repo.ListCollectionsByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	return collections, nil
}

// Rename changes a collection's name.
func (s *CollectionService) Rename(ctx context.Context, owner, id, name string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "collection ID is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.ValidationFailed("name", "collection name is required")
	}
	if len(name) > MaxCollectionNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("collection name must be %d characters or less", MaxCollectionNameLength))
	}

	return s.repo.RenameCollection(ctx, id, owner, name)
}

// Delete removes one of owner's collections. Member snippets are untouched.
func (s *CollectionService) Delete(ctx context.Context, owner, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "collection ID is required")
	}

	if err := s.repo.DeleteCollection(ctx, id, owner); err != nil {
		return err
	}

	s.logger.Info("collection deleted",
		slog.String("id", id),
		slog.String("owner", owner),
	)
	return nil
}

// AddSnippet adds a snippet reference to one of owner's collections.
func (s *CollectionService) AddSnippet(ctx context.Context, owner, id, snippetID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "collection ID is required")
	}
	if strings.TrimSpace(snippetID) == "" {
		return apperror.ValidationFailed("snippetId", "snippet ID is required")
	}

	return s.repo.AddSnippetToCollection(ctx, id, owner, snippetID)
}

// RemoveSnippet drops a snippet reference from one of owner's collections.
func (s *CollectionService) RemoveSnippet(ctx context.Context, owner, id, snippetID string) error {
	if strings.TrimSpace(id) == "" {
		return apperror.ValidationFailed("id", "collection ID is required")
	}
	if strings.TrimSpace(snippetID) == "" {
		return apperror.ValidationFailed("snippetId", "snippet ID is required")
	}

	return s.repo.RemoveSnippetFromCollection(ctx, id, owner, snippetID)
}
