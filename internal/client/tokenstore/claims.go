package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/vitapick/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of access-token claims the client displays.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token had expired at now. Tokens without an
// expiry never expire.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseClaims decodes a JWT access token without verifying its signature.
// The client does not hold the signing key; the backend remains the
// authority on validity.
func ParseClaims(token string) (*Claims, error) {
	var rc jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}

	c := &Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	return c, nil
}

// Claims decodes the stored access token.
func (s *Store) Claims(ctx context.Context) (*Claims, error) {
	access, ok := s.Access(ctx)
	if !ok {
		return nil, common.ErrNoAccessToken
	}
	return ParseClaims(access)
}
