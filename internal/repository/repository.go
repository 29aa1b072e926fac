// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation; tests
// substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/snippet-share/internal/model"
)

// ListOptions controls pagination for list queries.
type ListOptions struct {
	Limit  int
	Offset int
}

// SnippetPatch is a partial update: nil fields are left untouched. AddedBy,
// AddedOn, and ID are not patchable — they're immutable after creation.
type SnippetPatch struct {
	Title       *string
	Filename    *string
	Description *string
	Language    *string
	Value       *string
	Private     *bool
	Source      *string
}

// Empty reports whether the patch changes nothing.
func (p SnippetPatch) Empty() bool {
	return p.Title == nil && p.Filename == nil && p.Description == nil &&
		p.Language == nil && p.Value == nil && p.Private == nil && p.Source == nil
}

// SnippetRepository stores snippets and their likes.
//
// Update and Delete take the owner's username and match it in the same
// query as the ID — a non-owner's request affects zero rows and surfaces as
// the same NotFound a missing ID would.
type SnippetRepository interface {
	Create(ctx context.Context, snippet *model.Snippet) error
	GetByID(ctx context.Context, id string) (*model.Snippet, error)
	ListPublic(ctx context.Context, opts ListOptions) ([]model.Snippet, error)
	Update(ctx context.Context, id, owner string, patch SnippetPatch) error
	Delete(ctx context.Context, id, owner string) error

	// Like records that username likes the snippet. Idempotent: liking an
	// already-liked snippet is a no-op, not a duplicate entry.
	Like(ctx context.Context, id, username string) error
}

// UserRepository stores user accounts. Method names carry the entity so the
// sqlite DB can implement all three repository interfaces on one type.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// UpsertGitHubUser creates or refreshes the account bound to
	// user.GitHubID.
	UpsertGitHubUser(ctx context.Context, user *model.User) error
}

// CollectionRepository stores collections and their snippet memberships.
// All reads and writes are scoped to the owning username.
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *model.Collection) error
	GetCollectionByID(ctx context.Context, id, owner string) (*model.Collection, error)
	ListCollectionsByOwner(ctx context.Context, owner string) ([]model.Collection, error)
	RenameCollection(ctx context.Context, id, owner, name string) error
	DeleteCollection(ctx context.Context, id, owner string) error
	AddSnippetToCollection(ctx context.Context, id, owner, snippetID string) error
	RemoveSnippetFromCollection(ctx context.Context, id, owner, snippetID string) error
}
