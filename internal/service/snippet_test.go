package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// testLogger discards output so test runs stay quiet.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSnippetRepo is a hand-written mock. Each method delegates to an
// optional func field; a nil field means "not expected in this test".
type mockSnippetRepo struct {
	createFn     func(ctx context.Context, snippet *model.Snippet) error
	getByIDFn    func(ctx context.Context, id string) (*model.Snippet, error)
	listPublicFn func(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error)
	updateFn     func(ctx context.Context, id, owner string, patch repository.SnippetPatch) error
	deleteFn     func(ctx context.Context, id, owner string) error
	likeFn       func(ctx context.Context, id, username string) error
}

func (m *mockSnippetRepo) Create(ctx context.Context, snippet *model.Snippet) error {
	return m.createFn(ctx, snippet)
}

func (m *mockSnippetRepo) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockSnippetRepo) ListPublic(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	return m.listPublicFn(ctx, opts)
}

func (m *mockSnippetRepo) Update(ctx context.Context, id, owner string, patch repository.SnippetPatch) error {
	return m.updateFn(ctx, id, owner, patch)
}

func (m *mockSnippetRepo) Delete(ctx context.Context, id, owner string) error {
	return m.deleteFn(ctx, id, owner)
}

func (m *mockSnippetRepo) Like(ctx context.Context, id, username string) error {
	return m.likeFn(ctx, id, username)
}

func validInput() CreateSnippetInput {
	return CreateSnippetInput{
		Title:    "hello world",
		Filename: "hello.py",
		Language: "python",
		Value:    "print('hello')",
	}
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestSnippetServiceCreate(t *testing.T) {
	var saved *model.Snippet
	repo := &mockSnippetRepo{
		createFn: func(_ context.Context, snippet *model.Snippet) error {
			snippet.ID = "snip-1"
			saved = snippet
			return nil
		},
	}
	svc := NewSnippetService(repo, testLogger())

	in := validInput()
	in.Title = "  padded title  "
	snippet, err := svc.Create(context.Background(), "alice", in)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if snippet.ID != "snip-1" {
		t.Errorf("ID = %q, want snip-1", snippet.ID)
	}
	if saved.Title != "padded title" {
		t.Errorf("Title = %q, want surrounding whitespace trimmed", saved.Title)
	}
	if saved.AddedBy != "alice" {
		t.Errorf("AddedBy = %q, want the authenticated caller", saved.AddedBy)
	}
}

func TestSnippetServiceCreate_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreateSnippetInput)
	}{
		{"missing title", func(in *CreateSnippetInput) { in.Title = "   " }},
		{"title too long", func(in *CreateSnippetInput) { in.Title = strings.Repeat("a", MaxTitleLength+1) }},
		{"missing filename", func(in *CreateSnippetInput) { in.Filename = "" }},
		{"filename too long", func(in *CreateSnippetInput) { in.Filename = strings.Repeat("f", MaxFilenameLength+1) }},
		{"missing language", func(in *CreateSnippetInput) { in.Language = " " }},
		{"missing value", func(in *CreateSnippetInput) { in.Value = "" }},
		{"value too long", func(in *CreateSnippetInput) { in.Value = strings.Repeat("x", MaxValueLength+1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSnippetRepo{
				createFn: func(context.Context, *model.Snippet) error {
					t.Fatal("repository must not be reached on invalid input")
					return nil
				},
			}
			svc := NewSnippetService(repo, testLogger())

			in := validInput()
			tt.mutate(&in)
			_, err := svc.Create(context.Background(), "alice", in)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Create() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSnippetServiceCreate_RepoConflictPropagates(t *testing.T) {
	repo := &mockSnippetRepo{
		createFn: func(context.Context, *model.Snippet) error {
			return apperror.Conflict("duplicate title")
		},
	}
	svc := NewSnippetService(repo, testLogger())

	_, err := svc.Create(context.Background(), "alice", validInput())
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() = %v, conflict kind must survive wrapping", err)
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestSnippetServiceListPublic_Pagination(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, DefaultListLimit, 0},
		{"explicit", 5, 10, 5, 10},
		{"limit clamped to max", MaxListLimit + 50, 0, MaxListLimit, 0},
		{"negative offset normalized", 5, -3, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got repository.ListOptions
			repo := &mockSnippetRepo{
				listPublicFn: func(_ context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
					got = opts
					return []model.Snippet{}, nil
				},
			}
			svc := NewSnippetService(repo, testLogger())

			if _, err := svc.ListPublic(context.Background(), tt.limit, tt.offset); err != nil {
				t.Fatalf("ListPublic() error = %v", err)
			}
			if got.Limit != tt.wantLimit || got.Offset != tt.wantOffset {
				t.Errorf("opts = %+v, want limit %d offset %d", got, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestSnippetServiceUpdate_TrimsPatchedTitle(t *testing.T) {
	var got repository.SnippetPatch
	repo := &mockSnippetRepo{
		updateFn: func(_ context.Context, _, _ string, patch repository.SnippetPatch) error {
			got = patch
			return nil
		},
	}
	svc := NewSnippetService(repo, testLogger())

	title := "  new title  "
	err := svc.Update(context.Background(), "alice", "snip-1", repository.SnippetPatch{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Title == nil || *got.Title != "new title" {
		t.Errorf("patched title = %v, want trimmed", got.Title)
	}
}

func TestSnippetServiceUpdate_RejectsBlankTitle(t *testing.T) {
	repo := &mockSnippetRepo{
		updateFn: func(context.Context, string, string, repository.SnippetPatch) error {
			t.Fatal("repository must not be reached on invalid input")
			return nil
		},
	}
	svc := NewSnippetService(repo, testLogger())

	blank := "   "
	err := svc.Update(context.Background(), "alice", "snip-1", repository.SnippetPatch{Title: &blank})
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Update() = %v, want ErrValidation", err)
	}
}

func TestSnippetServiceUpdate_NotFoundPropagates(t *testing.T) {
	repo := &mockSnippetRepo{
		updateFn: func(context.Context, string, string, repository.SnippetPatch) error {
			return apperror.NotFound("snippet", "snip-1")
		},
	}
	svc := NewSnippetService(repo, testLogger())

	err := svc.Update(context.Background(), "bob", "snip-1", repository.SnippetPatch{})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// DELETE / LIKE TESTS
// =========================================================================

func TestSnippetServiceDelete_PassesOwner(t *testing.T) {
	var gotID, gotOwner string
	repo := &mockSnippetRepo{
		deleteFn: func(_ context.Context, id, owner string) error {
			gotID, gotOwner = id, owner
			return nil
		},
	}
	svc := NewSnippetService(repo, testLogger())

	if err := svc.Delete(context.Background(), "alice", "snip-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotID != "snip-1" || gotOwner != "alice" {
		t.Errorf("repo called with (%q, %q), want (snip-1, alice)", gotID, gotOwner)
	}
}

func TestSnippetServiceLike(t *testing.T) {
	var gotID, gotUser string
	repo := &mockSnippetRepo{
		likeFn: func(_ context.Context, id, username string) error {
			gotID, gotUser = id, username
			return nil
		},
	}
	svc := NewSnippetService(repo, testLogger())

	if err := svc.Like(context.Background(), "bob", "snip-1"); err != nil {
		t.Fatalf("Like() error = %v", err)
	}
	if gotID != "snip-1" || gotUser != "bob" {
		t.Errorf("repo called with (%q, %q), want (snip-1, bob)", gotID, gotUser)
	}
}

func TestSnippetServiceLike_EmptyID(t *testing.T) {
	svc := NewSnippetService(&mockSnippetRepo{}, testLogger())

	err := svc.Like(context.Background(), "bob", "  ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Like() = %v, want ErrValidation", err)
	}
}
