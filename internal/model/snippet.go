// Package model defines the data structures used throughout the application.
// Each entity is an explicit typed struct — validation happens once at the
// request boundary, not at every field access.
package model

import "time"

// Snippet represents a shared code snippet with its metadata.
//
// The `json:"..."` struct tags control how encoding/json serializes each
// field; the names match the API contract exactly (camelCase, addedBy as a
// username string, likedBy as an ordered list of usernames).
//
// Invariants enforced by the repository layer:
//   - ID is generated once at creation and never changes
//   - AddedOn is set once at creation and never changes
//   - UpdatedOn only moves forward (stamped on every update)
//   - Only the creating user (AddedBy) may update or delete the snippet
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Filename    string    `json:"filename"`
	Description string    `json:"description"`
	Language    string    `json:"language"`
	Value       string    `json:"value"`
	AddedBy     string    `json:"addedBy"`  // username of the creator
	LikedBy     []string  `json:"likedBy"`  // usernames, ordered by first like
	AddedOn     time.Time `json:"addedOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
	Private     bool      `json:"private"`
	Source      string    `json:"source"` // where the snippet came from, e.g. "manual" or a URL
}
