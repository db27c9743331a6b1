package auth

import (
	"context"

	"github.com/google/uuid"
)

// Session identifies one browser. The hand-off slot is keyed by ID.
type Session struct {
	ID    string
	Email string
}

// NewSession starts an anonymous session with a random identifier.
func NewSession() Session {
	return Session{ID: uuid.NewString()}
}

// SignedIn reports whether the session has passed the login form.
func (s Session) SignedIn() bool {
	return s.Email != ""
}

type sessionKey struct{}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
