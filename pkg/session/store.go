// Package session issues and validates the server-side sessions carried by
// the auth cookie. A session is a row in the sessions table referenced by
// the jti of a signed token, so logout is a real revocation and every
// request re-verifies the session against storage.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNoSession = errors.New("session not found")

// Session is one issued login session.
type Session struct {
	ID        string
	AccountID int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store abstracts session persistence.
type Store interface {
	Create(ctx context.Context, s Session) error
	// Get returns ErrNoSession when the id is unknown.
	Get(ctx context.Context, id string) (Session, error)
	// Delete is idempotent: removing an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
