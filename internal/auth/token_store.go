package auth

import (
	"context"
	"errors"
)

// TokenStore holds opaque bearer tokens and the user they belong to.
// Tokens expire server-side; Resolve on an expired or revoked token
// returns ErrTokenNotFound.
type TokenStore interface {
	Store(ctx context.Context, token string, userID uint) error

	Resolve(ctx context.Context, token string) (uint, error)

	Revoke(ctx context.Context, token string) error
}

var ErrTokenNotFound = errors.New("token not found")
