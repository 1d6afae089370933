// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// User is a row of the identity provider's users table. Blog code never
// reads the password hash directly; it only compares identities.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	CreatedAt    time.Time `json:"created_at"`
}

// Identity is the authenticated caller of a request, injected by the
// session middleware. The zero value is an anonymous visitor.
type Identity struct {
	UserID   int64
	Username string
}

// Anonymous is the identity of a visitor without a session.
var Anonymous = Identity{}

// IsAuthenticated returns true if the identity belongs to a logged-in user.
func (i Identity) IsAuthenticated() bool {
	return i.UserID != 0
}

// Is reports whether the identity is the given user.
func (i Identity) Is(userID int64) bool {
	return i.IsAuthenticated() && i.UserID == userID
}
