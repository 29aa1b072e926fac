package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snippet-share/internal/apperror"
	"github.com/sakif/snippet-share/internal/model"
	"github.com/sakif/snippet-share/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

// CreateUser inserts a new password-based account. The username is UNIQUE —
// a duplicate surfaces as the Conflict kind.
func (db *DB) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(
				fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: creating user %s: %w", user.Username, err)
	}

	return nil
}

// GetByUsername retrieves a user and their derived snippet lists: the
// snippets they created (ordered by creation) and the snippets they liked
// (ordered by like time). Both lists are views over other tables, never
// stored on the user row, so they can't drift out of sync.
func (db *DB) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var (
		u        model.User
		githubID sql.NullInt64
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, github_id, created_at, updated_at
		 FROM users WHERE username = ?`,
		username,
	).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&githubID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", username)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", username, err)
	}
	u.GitHubID = githubID.Int64

	if u.SnippetsCreated, err = db.snippetIDs(ctx,
		`SELECT id FROM snippets WHERE added_by = ? ORDER BY added_on`, u.ID); err != nil {
		return nil, err
	}
	if u.SnippetsLiked, err = db.snippetIDs(ctx,
		`SELECT snippet_id FROM snippet_likes WHERE user_id = ? ORDER BY liked_at`, u.ID); err != nil {
		return nil, err
	}

	return &u, nil
}

// UpsertGitHubUser creates or refreshes the account bound to user.GitHubID.
// First login inserts; later logins keep the existing internal ID and
// refresh the username in case it changed on GitHub.
func (db *DB) UpsertGitHubUser(ctx context.Context, user *model.User) error {
	var existingID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE github_id = ?`, user.GitHubID,
	).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("sqlite: looking up user by github_id %d: %w", user.GitHubID, err)
	}

	if existingID != "" {
		user.ID = existingID
		user.UpdatedAt = time.Now().UTC()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE users SET username = ?, updated_at = ? WHERE id = ?`,
			user.Username, user.UpdatedAt, user.ID,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict(
					fmt.Sprintf("username %q is already taken", user.Username))
			}
			return fmt.Errorf("sqlite: updating user %s: %w", user.ID, err)
		}
		return nil
	}

	now := time.Now().UTC()
	user.ID = xid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO users (id, username, github_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Username,
		user.GitHubID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(
				fmt.Sprintf("username %q is already taken", user.Username))
		}
		return fmt.Errorf("sqlite: inserting user (githubID=%d): %w", user.GitHubID, err)
	}

	return nil
}

// userIDByUsername resolves a username to the internal user ID.
func (db *DB) userIDByUsername(ctx context.Context, username string) (string, error) {
	var id string
	err := db.conn.QueryRowContext(ctx,
		`SELECT id FROM users WHERE username = ?`, username,
	).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", apperror.NotFound("user", username)
		}
		return "", fmt.Errorf("sqlite: looking up user %s: %w", username, err)
	}
	return id, nil
}

// snippetIDs runs a single-column query returning snippet IDs.
func (db *DB) snippetIDs(ctx context.Context, query, arg string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading snippet ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning snippet id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating snippet ids: %w", err)
	}

	return ids, nil
}
