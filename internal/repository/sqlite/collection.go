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

// compile-time check that *DB implements repository.CollectionRepository
var _ repository.CollectionRepository = (*DB)(nil)

// CreateCollection inserts a new collection. collection.Owner carries the
// owning username; the name is unique per owner.
func (db *DB) CreateCollection(ctx context.Context, collection *model.Collection) error {
	ownerID, err := db.userIDByUsername(ctx, collection.Owner)
	if err != nil {
		return err
	}

	collection.ID = xid.New().String()
	now := time.Now().UTC()
	collection.CreatedAt = now
	collection.UpdatedAt = now
	if collection.Snippets == nil {
		collection.Snippets = []string{}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO collections (id, name, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		collection.ID,
		collection.Name,
		ownerID,
		collection.CreatedAt,
		collection.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(
				fmt.Sprintf("collection named %q already exists", collection.Name))
		}
		return fmt.Errorf("sqlite: creating collection: %w", err)
	}

	return nil
}

// GetCollectionByID retrieves one of owner's collections with its snippet
// IDs. Someone else's collection is NotFound, same as a missing one.
func (db *DB) GetCollectionByID(ctx context.Context, id, owner string) (*model.Collection, error) {
	var c model.Collection
	err := db.conn.QueryRowContext(ctx,
		`SELECT c.id, c.name, u.username, c.created_at, c.updated_at
		 FROM collections c
		 JOIN users u ON u.id = c.owner_id
		 WHERE c.id = ? AND u.username = ?`,
		id, owner,
	).Scan(&c.ID, &c.Name, &c.Owner, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("collection", id)
		}
		return nil, fmt.Errorf("sqlite: getting collection %s: %w", id, err)
	}

	if c.Snippets, err = db.collectionSnippetIDs(ctx, c.ID); err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCollectionsByOwner retrieves all of owner's collections, oldest first.
func (db *DB) ListCollectionsByOwner(ctx context.Context, owner string) ([]model.Collection, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT c.id, c.name, u.username, c.created_at, c.updated_at
		 FROM collections c
		 JOIN users u ON u.id = c.owner_id
		 WHERE u.username = ?
		 ORDER BY c.created_at`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing collections: %w", err)
	}
	defer rows.Close()

	collections := []model.Collection{}
	for rows.Next() {
		var c model.Collection
		if err := rows.Scan(&c.ID, &c.Name, &c.Owner, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning collection row: %w", err)
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating collections: %w", err)
	}

	for i := range collections {
		if collections[i].Snippets, err = db.collectionSnippetIDs(ctx, collections[i].ID); err != nil {
			return nil, err
		}
	}

	return collections, nil
}

// RenameCollection changes a collection's name, ownership-scoped like every
// other mutation.
func (db *DB) RenameCollection(ctx context.Context, id, owner, name string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE collections SET name = ?, updated_at = ?
		 WHERE id = ? AND owner_id = (SELECT id FROM users WHERE username = ?)`,
		name, time.Now().UTC(), id, owner,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(fmt.Sprintf("collection named %q already exists", name))
		}
		return fmt.Errorf("sqlite: renaming collection %s: %w", id, err)
	}
	return db.requireAffected(result, "collection", id)
}

// DeleteCollection removes a collection and its membership rows (cascade).
// The snippets themselves are untouched.
func (db *DB) DeleteCollection(ctx context.Context, id, owner string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM collections
		 WHERE id = ? AND owner_id = (SELECT id FROM users WHERE username = ?)`,
		id, owner,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting collection %s: %w", id, err)
	}
	return db.requireAffected(result, "collection", id)
}

// AddSnippetToCollection adds a snippet reference to one of owner's
// collections. Idempotent, like Like: re-adding is a no-op.
func (db *DB) AddSnippetToCollection(ctx context.Context, id, owner, snippetID string) error {
	if _, err := db.GetCollectionByID(ctx, id, owner); err != nil {
		return err
	}

	var exists int
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM snippets WHERE id = ?`, snippetID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("sqlite: checking snippet %s: %w", snippetID, err)
	}
	if exists == 0 {
		return apperror.NotFound("snippet", snippetID)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT OR IGNORE INTO collection_snippets (collection_id, snippet_id, added_at)
		 VALUES (?, ?, ?)`,
		id, snippetID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: adding snippet %s to collection %s: %w", snippetID, id, err)
	}

	_, err = db.conn.ExecContext(ctx,
		`UPDATE collections SET updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("sqlite: touching collection %s: %w", id, err)
	}

	return nil
}

// RemoveSnippetFromCollection drops a snippet reference from one of owner's
// collections. Removing a snippet that isn't a member is NotFound.
func (db *DB) RemoveSnippetFromCollection(ctx context.Context, id, owner, snippetID string) error {
	if _, err := db.GetCollectionByID(ctx, id, owner); err != nil {
		return err
	}

	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM collection_snippets WHERE collection_id = ? AND snippet_id = ?`,
		id, snippetID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: removing snippet %s from collection %s: %w", snippetID, id, err)
	}
	return db.requireAffected(result, "snippet", snippetID)
}

// collectionSnippetIDs returns a collection's snippet IDs, insertion order.
func (db *DB) collectionSnippetIDs(ctx context.Context, collectionID string) ([]string, error) {
	return db.snippetIDs(ctx,
		`SELECT snippet_id FROM collection_snippets
		 WHERE collection_id = ? ORDER BY added_at`, collectionID)
}

// requireAffected turns a zero-row write into NotFound.
func (db *DB) requireAffected(result sql.Result, resource, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound(resource, id)
	}
	return nil
}
