// Package session carries the authenticated user of a request as an explicit value.
package session

import "github.com/google/uuid"

// Context is what the back office keeps about the logged-in user for the lifetime of a request.
type Context struct {
	userID     uuid.UUID
	userName   string
	email      string
	adminGeral bool
}

func New(userID uuid.UUID, userName, email string, adminGeral bool) Context {
	return Context{
		userID:     userID,
		userName:   userName,
		email:      email,
		adminGeral: adminGeral,
	}
}

func (c Context) UserID() uuid.UUID { return c.userID }

func (c Context) Email() string { return c.email }

// UserName falls back to the e-mail when the user has no display name.
func (c Context) UserName() string {
	if c.userName != "" {
		return c.userName
	}
	return c.email
}

func (c Context) IsAdminGeral() bool { return c.adminGeral }

func (c Context) Authenticated() bool { return c.userID != uuid.Nil }
