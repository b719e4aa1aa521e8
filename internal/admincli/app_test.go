package admincli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/auth"
	"github.com/dmitrijs2005/earsip/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/earsip/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type migrationRecorder struct {
	*repotest.Manager
	calls int
	err   error
}

func (m *migrationRecorder) RunMigrations(context.Context, *sql.DB) error {
	m.calls++
	return m.err
}

func stubPasswords(t *testing.T, passwords ...string) {
	t.Helper()
	old := readPassword
	t.Cleanup(func() { readPassword = old })
	readPassword = func(int) ([]byte, error) {
		if len(passwords) == 0 {
			return nil, errors.New("no more input")
		}
		pw := passwords[0]
		passwords = passwords[1:]
		return []byte(pw), nil
	}
}

func newTestApp(input string) (*App, *migrationRecorder, *bytes.Buffer) {
	rm := &migrationRecorder{Manager: repotest.New()}
	users := services.NewUserService(nil, rm, auth.NewTokenCodec("s", time.Hour), auth.NewPasswordHasher(bcrypt.MinCost))
	var out bytes.Buffer
	return NewApp(nil, rm, users, strings.NewReader(input), &out, 0), rm, &out
}

func TestCreateAdmin(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	app, rm, out := newTestApp("admin1\nAdmin One\n\n")

	require.NoError(t, app.Run(context.Background(), "create-admin"))
	assert.Contains(t, out.String(), "Created admin admin1")
	assert.Equal(t, 1, rm.UserCount())
}

func TestCreateAdmin_Mismatch(t *testing.T) {
	stubPasswords(t, "secret1", "secret2")
	app, rm, _ := newTestApp("admin1\nAdmin One\nadmin@example.com\n")

	err := app.Run(context.Background(), "create-admin")
	assert.EqualError(t, err, "passwords do not match")
	assert.Equal(t, 0, rm.UserCount())
}

func TestCreateAdmin_ShortPassword(t *testing.T) {
	stubPasswords(t, "123", "123")
	app, _, _ := newTestApp("admin1\nAdmin One\n\n")

	err := app.Run(context.Background(), "create-admin")
	assert.ErrorIs(t, err, common.ErrPasswordTooShort)
}

func TestMigrate(t *testing.T) {
	app, rm, out := newTestApp("")
	require.NoError(t, app.Run(context.Background(), "migrate"))
	assert.Equal(t, 1, rm.calls)
	assert.Contains(t, out.String(), "Migrations applied.")

	rm.err = errors.New("dirty")
	assert.ErrorContains(t, app.Run(context.Background(), "migrate"), "dirty")
}

func TestStats(t *testing.T) {
	app, _, out := newTestApp("")
	require.NoError(t, app.Run(context.Background(), "stats"))
	assert.Contains(t, out.String(), "Incoming letters: 0")
	assert.Contains(t, out.String(), "Pending: 0")
}

func TestUnknownCommand(t *testing.T) {
	app, _, out := newTestApp("")
	err := app.Run(context.Background(), "drop-all")
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Contains(t, out.String(), "Usage:")

	out.Reset()
	require.NoError(t, app.Run(context.Background(), "help"))
	assert.Contains(t, out.String(), "create-admin")
}
