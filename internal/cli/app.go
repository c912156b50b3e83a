// Package cli is the interactive terminal frontend. It renders exclusively
// from the sync engine's snapshot and routes every mutation through the
// engagement and auth services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/pods/internal/auth"
	"github.com/dmitrijs2005/pods/internal/common"
	"github.com/dmitrijs2005/pods/internal/config"
	"github.com/dmitrijs2005/pods/internal/engagement"
	"github.com/dmitrijs2005/pods/internal/filex"
	"github.com/dmitrijs2005/pods/internal/logging"
	"github.com/dmitrijs2005/pods/internal/models"
	"github.com/dmitrijs2005/pods/internal/session"
	"github.com/dmitrijs2005/pods/internal/store"
	"github.com/dmitrijs2005/pods/internal/store/postgres"
	"github.com/dmitrijs2005/pods/internal/syncer"
)

// App wires the gateway, the sync engine and the services behind the REPL.
type App struct {
	config   *config.Config
	log      logging.Logger
	gw       store.Gateway
	authSvc  *auth.Service
	engine   *syncer.Engine
	svc      *engagement.Service
	sessions *session.Store

	reader *bufio.Reader
	out    io.Writer

	user *models.User
	// folderID is the currently selected folder, empty until "select".
	folderID string
}

// NewApp connects to the store, seeds the system scope and restores a saved
// session if one exists.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	gw, err := postgres.NewGateway(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("store init: %w", err)
	}

	stateDir := c.StateDir
	if stateDir == "" {
		stateDir, err = filex.DefaultStateDir("pods")
		if err != nil {
			return nil, err
		}
	}
	sessions, err := session.NewStore(stateDir)
	if err != nil {
		return nil, err
	}

	authSvc := auth.NewService(gw, log)
	if err := authSvc.EnsureArchitect(ctx); err != nil {
		return nil, err
	}

	engine := syncer.NewEngine(gw, log, syncer.Options{
		PollInterval:  c.PollInterval,
		RefreshWindow: c.RefreshWindow,
		RetryDelay:    c.RetryDelay,
	})

	app := &App{
		config:   c,
		log:      log,
		gw:       gw,
		authSvc:  authSvc,
		engine:   engine,
		svc:      engagement.NewService(gw, engine, log),
		sessions: sessions,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}

	if user, err := sessions.Load(); err == nil {
		app.signIn(ctx, user)
	} else if !errors.Is(err, common.ErrInvalidSession) {
		return nil, err
	}

	return app, nil
}

// Close stops the engine and releases the store connection.
func (a *App) Close() error {
	a.engine.Stop()
	return a.gw.Close()
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// signIn makes the user current and points the sync engine at their party.
func (a *App) signIn(ctx context.Context, user *models.User) {
	a.user = user
	a.folderID = ""
	a.engine.Stop()
	a.engine.Start(ctx, user.PartyID)
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", user.Name, user.Role)
}

// signOut drops the session, the visit history and the snapshot.
func (a *App) signOut() {
	a.user = nil
	a.folderID = ""
	a.engine.Stop()
	a.svc.Visits().Reset()
	if err := a.sessions.Clear(); err != nil {
		a.log.Warn(context.Background(), "failed to clear session", "error", err)
	}
}

// snapshot returns the current view, or nil with a user-facing hint when the
// engine has not loaded yet.
func (a *App) snapshot() *syncer.Snapshot {
	snap := a.engine.Snapshot()
	if snap == nil {
		fmt.Fprintln(a.out, "Still syncing, try again in a moment")
	}
	return snap
}
