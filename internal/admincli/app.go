// Package admincli implements the operator command line of the archive
// server: applying migrations, creating admin accounts and printing
// archive statistics without going through the HTTP API.
package admincli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/earsip/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/earsip/internal/server/services"
)

const usage = `Usage: earsip-cli <command> [flags]

Commands:
  migrate        apply pending database migrations
  create-admin   create an ADMIN account (prompts for the details)
  stats          print letter counters
  help           show this message`

// ErrUnknownCommand is returned for a command App does not implement.
var ErrUnknownCommand = errors.New("unknown command")

type App struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	users       *services.UserService
	dashboard   *services.DashboardService

	in      *bufio.Reader
	out     io.Writer
	stdinFd int
}

func NewApp(db *sql.DB, rm repomanager.RepositoryManager, users *services.UserService, in io.Reader, out io.Writer, stdinFd int) *App {
	return &App{
		db:          db,
		repomanager: rm,
		users:       users,
		dashboard:   services.NewDashboardService(db, rm),
		in:          bufio.NewReader(in),
		out:         out,
		stdinFd:     stdinFd,
	}
}

// Run executes command.
func (a *App) Run(ctx context.Context, command string) error {
	switch command {
	case "migrate":
		return a.migrate(ctx)
	case "create-admin":
		return a.createAdmin(ctx)
	case "stats":
		return a.stats(ctx)
	case "", "help", "-h", "--help":
		fmt.Fprintln(a.out, usage)
		return nil
	}
	fmt.Fprintln(a.out, usage)
	return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
}

func (a *App) migrate(ctx context.Context) error {
	if err := a.repomanager.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	fmt.Fprintln(a.out, "Migrations applied.")
	return nil
}

func (a *App) createAdmin(ctx context.Context) error {
	username, err := GetSimpleText(a.in, "Username", a.out)
	if err != nil {
		return err
	}
	fullName, err := GetSimpleText(a.in, "Full name", a.out)
	if err != nil {
		return err
	}
	email, err := GetSimpleText(a.in, "Email (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.stdinFd, "Password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword(a.stdinFd, "Repeat password", a.out)
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	u, err := a.users.Register(ctx, services.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
		FullName: fullName,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Fprintf(a.out, "Created admin %s (%s)\n", u.Username, u.ID)
	return nil
}

func (a *App) stats(ctx context.Context) error {
	st, err := a.dashboard.Stats(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	fmt.Fprintf(a.out, "Incoming letters: %d\n", st.IncomingTotal)
	fmt.Fprintf(a.out, "Outgoing letters: %d\n", st.OutgoingTotal)
	fmt.Fprintf(a.out, "Archived: %d\n", st.ArchivedTotal)
	fmt.Fprintf(a.out, "Pending: %d\n", st.PendingTotal)
	return nil
}
