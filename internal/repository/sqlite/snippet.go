package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// compile-time check that *DB implements repository.SnippetRepository
var _ repository.SnippetRepository = (*DB)(nil)

// snippetColumns is the SELECT list shared by every snippet query; the
// users join turns the stored added_by ID into the username the API exposes.
const snippetColumns = `
	s.id, s.title, s.filename, s.description, s.language, s.value,
	u.username, s.private, s.source, s.added_on, s.updated_on`

// Create inserts a new snippet. snippet.AddedBy must carry the creator's
// username; ID, AddedOn, and UpdatedOn are filled in here (pointer receiver,
// so the caller sees them after the call). AddedOn is stamped once, in UTC,
// and never touched again.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	ownerID, err := db.userIDByUsername(ctx, snippet.AddedBy)
	if err != nil {
		return err
	}

	snippet.ID = xid.New().String()
	now := time.Now().UTC()
	snippet.AddedOn = now
	snippet.UpdatedOn = now
	if snippet.LikedBy == nil {
		snippet.LikedBy = []string{}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, title, filename, description, language, value,
		                       added_by, private, source, added_on, updated_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.Title,
		snippet.Filename,
		snippet.Description,
		snippet.Language,
		snippet.Value,
		ownerID,
		snippet.Private,
		snippet.Source,
		snippet.AddedOn,
		snippet.UpdatedOn,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(
				fmt.Sprintf("snippet with title %q already exists", snippet.Title))
		}
		return fmt.Errorf("sqlite: creating snippet: %w", err)
	}

	return nil
}

// GetByID retrieves a single snippet, private or not, with its likers.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Snippet, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT`+snippetColumns+`
		 FROM snippets s
		 JOIN users u ON u.id = s.added_by
		 WHERE s.id = ?`,
		id,
	)

	snippet, err := scanSnippet(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("snippet", id)
		}
		return nil, fmt.Errorf("sqlite: getting snippet %s: %w", id, err)
	}

	if snippet.LikedBy, err = db.likers(ctx, snippet.ID); err != nil {
		return nil, err
	}

	return snippet, nil
}

// ListPublic retrieves public snippets, newest first.
func (db *DB) ListPublic(ctx context.Context, opts repository.ListOptions) ([]model.Snippet, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := db.conn.QueryContext(ctx,
		`SELECT`+snippetColumns+`
		 FROM snippets s
		 JOIN users u ON u.id = s.added_by
		 WHERE s.private = 0
		 ORDER BY s.added_on DESC
		 LIMIT ? OFFSET ?`,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing snippets: %w", err)
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, limit)
	for rows.Next() {
		snippet, err := scanSnippet(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet row: %w", err)
		}
		snippets = append(snippets, *snippet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippets: %w", err)
	}

	// Fill likers only after the snippet rows are fully consumed, so we
	// never run nested queries while rows is still open.
	for i := range snippets {
		if snippets[i].LikedBy, err = db.likers(ctx, snippets[i].ID); err != nil {
			return nil, err
		}
	}

	return snippets, nil
}

// Update applies a partial patch to a snippet owned by owner. The ownership
// predicate lives in the WHERE clause: a non-owner's request matches zero
// rows and returns the same NotFound a missing ID would. updated_on is
// stamped in the same statement, so it advances exactly when a row changes.
func (db *DB) Update(ctx context.Context, id, owner string, patch repository.SnippetPatch) error {
	if patch.Empty() {
		return apperror.ValidationFailed("body", "no updatable fields supplied")
	}

	set := []string{"updated_on = ?"}
	args := []any{time.Now().UTC()}

	add := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Filename != nil {
		add("filename", *patch.Filename)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Language != nil {
		add("language", *patch.Language)
	}
	if patch.Value != nil {
		add("value", *patch.Value)
	}
	if patch.Private != nil {
		add("private", *patch.Private)
	}
	if patch.Source != nil {
		add("source", *patch.Source)
	}

	args = append(args, id, owner)

	result, err := db.conn.ExecContext(ctx,
		`UPDATE snippets SET `+strings.Join(set, ", ")+`
		 WHERE id = ? AND added_by = (SELECT id FROM users WHERE username = ?)`,
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			msg := "snippet with this title already exists"
			if patch.Title != nil {
				msg = fmt.Sprintf("snippet with title %q already exists", *patch.Title)
			}
			return apperror.Conflict(msg)
		}
		return fmt.Errorf("sqlite: updating snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// Delete removes a snippet owned by owner. Likes and collection memberships
// go with it via ON DELETE CASCADE — no dangling references are left behind.
func (db *DB) Delete(ctx context.Context, id, owner string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM snippets
		 WHERE id = ? AND added_by = (SELECT id FROM users WHERE username = ?)`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting snippet %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("snippet", id)
	}

	return nil
}

// Like records that username likes the snippet. The INSERT OR IGNORE against
// the composite primary key makes a second like a no-op — a single atomic
// write covers both the snippet's liker set and the user's liked list, since
// both are views over this table.
func (db *DB) Like(ctx context.Context, id, username string) error {
	userID, err := db.userIDByUsername(ctx, username)
	if err != nil {
		return err
	}

	// Existence check first: liking a missing snippet is a typed NotFound,
	// not a foreign-key failure dressed up as a 500.
	var exists int
	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets WHERE id = ?`, id,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking snippet %s: %w", id, err)
	}
	if exists == 0 {
		return apperror.NotFound("snippet", id)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO snippet_likes (snippet_id, user_id, liked_at)
		 VALUES (?, ?, ?)`,
		id, userID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: liking snippet %s: %w", id, err)
	}

	return nil
}

// likers returns the usernames that liked a snippet, ordered by first like.
func (db *DB) likers(ctx context.Context, snippetID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT u.username
		 FROM snippet_likes l
		 JOIN users u ON u.id = l.user_id
		 WHERE l.snippet_id = ?
		 ORDER BY l.liked_at, u.username`,
		snippetID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading likers for %s: %w", snippetID, err)
	}
	defer rows.Close()

	usernames := []string{}
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("sqlite: scanning liker row: %w", err)
		}
		usernames = append(usernames, username)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating likers: %w", err)
	}

	return usernames, nil
}

// scanner is the part of sql.Row and sql.Rows that scanSnippet needs.
type scanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row scanner) (*model.Snippet, error) {
	var s model.Snippet
	err := row.Scan(
		&s.ID, &s.Title, &s.Filename, &s.Description, &s.Language, &s.Value,
		&s.AddedBy, &s.Private, &s.Source, &s.AddedOn, &s.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
