// Package models defines the client-side data model: credentials,
// conversations and chat messages.
package models

import "time"

// Credential is the bearer token and user id returned by a successful
// login or signup. It is the only authorization artifact the client holds.
type Credential struct {
	Token  string
	UserID string
}

// Empty reports whether c carries no token.
func (c Credential) Empty() bool {
	return c.Token == ""
}

// User is the account profile returned by the backend.
type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
