// Package auth is the HTTP perimeter: request identification, CORS, rate
// limiting, and guard enforcement in front of every handler.
package auth

import (
	"context"
	"errors"

	"github.com/gatehouse-io/gatehouse/pkg/authz"
)

type contextKey string

const sessionKey contextKey = "session"

// ErrNoSession is returned when no session was injected by the perimeter.
var ErrNoSession = errors.New("no session in context")

// WithSession attaches the resolved session to the request context.
func WithSession(ctx context.Context, s *authz.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFrom retrieves the session the guard middleware injected.
func SessionFrom(ctx context.Context) (*authz.Session, error) {
	s, ok := ctx.Value(sessionKey).(*authz.Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}
