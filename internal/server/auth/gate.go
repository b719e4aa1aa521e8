package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
)

// UserLookup re-reads a user by id.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Gate turns the auth_token cookie of a request into verified claims.
// It never issues or refreshes tokens.
type Gate struct {
	codec *TokenCodec
	users UserLookup
}

func NewGate(codec *TokenCodec, users UserLookup) *Gate {
	return &Gate{codec: codec, users: users}
}

// Authenticate returns the claims carried by the request cookie. A missing
// cookie or a token that fails verification yields common.ErrorUnauthorized.
func (g *Gate) Authenticate(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(common.AuthCookieName)
	if err != nil || cookie.Value == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := g.codec.Verify(cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	return claims, nil
}

// Fresh re-reads the current profile of the token's user. The result is
// display data only; authorization decisions use the verified claims.
// A deleted user yields common.ErrorNotFound.
func (g *Gate) Fresh(ctx context.Context, claims *Claims) (*models.User, error) {
	return g.users.GetByID(ctx, claims.UserID)
}

// SessionCookie builds the auth_token cookie for token.
func SessionCookie(token string, maxAgeSeconds int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     common.AuthCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAgeSeconds,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearedCookie expires the auth_token cookie in the browser.
func ClearedCookie(secure bool) *http.Cookie {
	return SessionCookie("", -1, secure)
}
