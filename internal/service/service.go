// Package service contains the per-entity resource services.
//
// Each service owns the mapping between the client's field shapes and the
// backend's payload shapes: tag names are lower-cased before submission,
// optional strings default to "" rather than being omitted, and backend
// envelope failures are re-thrown as normalized apperror values with a
// display-ready message. UI layers catch and show the message without ever
// inspecting the transport shape.
//
// Every service fails fast with apperror.NotAuthenticated when no token is
// present; a request the backend is guaranteed to reject is never sent.
package service

import (
	"context"

	"github.com/sakif/droplog/internal/api"
	"github.com/sakif/droplog/internal/apperror"
)

// Gateway is the slice of the api client the services use. api.Client
// implements it; tests substitute an in-memory fake.
type Gateway interface {
	Get(ctx context.Context, path string) (*api.Envelope, error)
	Post(ctx context.Context, path string, body any) (*api.Envelope, error)
	Put(ctx context.Context, path string, body any) (*api.Envelope, error)
	Patch(ctx context.Context, path string, body any) (*api.Envelope, error)
	Delete(ctx context.Context, path string) (*api.Envelope, error)
	Token() string
}

// requireAuth is the shared fail-fast guard.
func requireAuth(gw Gateway) error {
	if gw.Token() == "" {
		return apperror.NotAuthenticated()
	}
	return nil
}
