package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	user *models.User
	err  error
	ids  []string
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	f.ids = append(f.ids, id)
	return f.user, f.err
}

func requestWithCookie(value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if value != "" {
		r.AddCookie(&http.Cookie{Name: common.AuthCookieName, Value: value})
	}
	return r
}

func TestGate_Authenticate(t *testing.T) {
	codec := NewTokenCodec("secret", time.Hour)
	gate := NewGate(codec, &fakeUsers{})

	valid, err := codec.Issue(admin)
	require.NoError(t, err)
	foreign, err := NewTokenCodec("another-secret", time.Hour).Issue(admin)
	require.NoError(t, err)

	t.Run("no cookie", func(t *testing.T) {
		_, err := gate.Authenticate(requestWithCookie(""))
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("foreign secret", func(t *testing.T) {
		_, err := gate.Authenticate(requestWithCookie(foreign))
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})

	t.Run("valid", func(t *testing.T) {
		claims, err := gate.Authenticate(requestWithCookie(valid))
		require.NoError(t, err)
		assert.Equal(t, "admin1", claims.Username)
	})

	t.Run("other cookie only", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "session", Value: valid})
		_, err := gate.Authenticate(r)
		assert.ErrorIs(t, err, common.ErrorUnauthorized)
	})
}

func TestGate_Fresh(t *testing.T) {
	claims := &Claims{Identity: admin}

	t.Run("current profile", func(t *testing.T) {
		users := &fakeUsers{user: &models.User{ID: admin.UserID, Username: "renamed", FullName: "Admin Renamed"}}
		u, err := NewGate(NewTokenCodec("s", time.Hour), users).Fresh(context.Background(), claims)
		require.NoError(t, err)
		assert.Equal(t, "renamed", u.Username)
		assert.Equal(t, []string{admin.UserID}, users.ids)
	})

	t.Run("deleted user", func(t *testing.T) {
		users := &fakeUsers{err: common.ErrorNotFound}
		_, err := NewGate(NewTokenCodec("s", time.Hour), users).Fresh(context.Background(), claims)
		assert.True(t, errors.Is(err, common.ErrorNotFound))
	})
}

func TestSessionCookie(t *testing.T) {
	c := SessionCookie("tok", 86400, true)
	assert.Equal(t, common.AuthCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 86400, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	cleared := ClearedCookie(false)
	assert.Equal(t, -1, cleared.MaxAge)
	assert.Empty(t, cleared.Value)
	assert.False(t, cleared.Secure)
}
