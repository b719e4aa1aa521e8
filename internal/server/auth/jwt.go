// Package auth implements the session token codec, password hashing and the
// cookie session gate that guards every protected endpoint.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the user snapshot carried inside a session token.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// Claims is the fixed-shape token payload: the identity plus the registered
// iat/exp timestamps.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// Validate is called by the jwt parser after the time based checks and
// rejects tokens with partial claims.
func (c Claims) Validate() error {
	if c.UserID == "" || c.Username == "" || c.Role == "" {
		return errors.New("missing identity claims")
	}
	if c.IssuedAt == nil {
		return errors.New("missing iat")
	}
	return nil
}

// TokenCodec issues and verifies HS256 session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

func NewTokenCodec(secret string, ttl time.Duration, opts ...CodecOption) *TokenCodec {
	c := &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// TTL is the lifetime given to issued tokens.
func (c *TokenCodec) TTL() time.Duration { return c.ttl }

// Issue signs id with iat = now and exp = now + ttl.
func (c *TokenCodec) Issue(id Identity) (string, error) {
	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Identity: id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	return token.SignedString(c.secret)
}

// Verify returns the claims of a valid, unexpired token. Every failure
// (forged, wrong secret, malformed, wrong algorithm, partial claims,
// expired) is reported as common.ErrInvalidToken and nothing else.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
