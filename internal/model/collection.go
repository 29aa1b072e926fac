// Package model defines the data structures used throughout the application.
package model

import "time"

// Collection is a named grouping of snippet references owned by one user.
//
// Membership is a non-owning reference: deleting a snippet removes it from
// every collection (FK cascade), but deleting a collection never touches the
// snippets themselves. Collections follow the same ownership rule as
// snippets — only the owner may see or mutate them, and a non-owner's
// request is indistinguishable from "not found".
type Collection struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Owner     string    `json:"owner"`    // username of the owning user
	Snippets  []string  `json:"snippets"` // snippet IDs, ordered by insertion
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
