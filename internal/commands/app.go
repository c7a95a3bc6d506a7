// Package commands is the cobra surface of droplog. Every command pulls its
// dependencies from an App wired once at startup; no package-level
// singletons, so the command tree is testable against fakes.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/droplog/internal/api"
	"github.com/sakif/droplog/internal/credstore"
	"github.com/sakif/droplog/internal/service"
	"github.com/sakif/droplog/internal/session"
)

// App bundles the wired dependency graph:
//
//	credstore → api.Client → session.Store
//	                      └→ resource services
type App struct {
	Logger   *slog.Logger
	Creds    *credstore.Store
	Client   *api.Client
	Session  *session.Store
	Airdrops *service.AirdropService
	Tasks    *service.TaskService
	Tags     *service.TagService
	Users    *service.UserService
}

// NewApp wires the full dependency graph against the backend at apiURL,
// persisting credentials at dbPath.
func NewApp(apiURL, dbPath string, logger *slog.Logger) (*App, error) {
	creds, err := credstore.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("commands: opening credential store: %w", err)
	}

	client := api.New(apiURL, creds, logger)

	return &App{
		Logger:   logger,
		Creds:    creds,
		Client:   client,
		Session:  session.New(client, creds, logger),
		Airdrops: service.NewAirdropService(client, logger),
		Tasks:    service.NewTaskService(client, logger),
		Tags:     service.NewTagService(client, logger),
		Users:    service.NewUserService(client, logger),
	}, nil
}

// Close releases the credential store.
func (a *App) Close() error {
	return a.Creds.Close()
}

// requireSession rehydrates the persisted session and fails when no valid
// sign-in results. Commands that talk to the backend call this first so the
// user gets "run droplog login" instead of a raw 401.
func requireSession(ctx context.Context, app *App) error {
	if err := app.Session.Initialize(ctx); err != nil {
		return err
	}
	if !app.Session.IsAuthenticated() {
		return fmt.Errorf("not signed in, run 'droplog login' first")
	}
	return nil
}
