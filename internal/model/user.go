// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// Accounts are created either with a username/password pair (signup) or via
// GitHub OAuth. For OAuth-only accounts PasswordHash stays empty and GitHubID
// holds GitHub's numeric user ID (UNIQUE in the DB, so one GitHub account
// maps to exactly one app account).
//
// PasswordHash has `json:"-"` so it can never leak into an API response,
// no matter which handler serializes the user.
//
// SnippetsCreated and SnippetsLiked are derived, ordered lists of snippet
// IDs. They are not stored on the user row — the repository reconstructs
// them from the snippets table and the likes join table.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	GitHubID     int64     `json:"-"` // 0 when the account was created via signup
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	SnippetsCreated []string `json:"snippetsCreated"`
	SnippetsLiked   []string `json:"snippetsLiked"`
}
