// Package session owns the authentication state machine.
//
// STATE MACHINE:
//
//	Uninitialized → Loading → {Authenticated, Unauthenticated}
//
// Initialize always resolves Loading; success and failure both settle into
// a terminal state, never a retry loop. Authenticated falls back to
// Unauthenticated on sign-out or whenever a 401 is observed (the gateway
// reports it as apperror.ErrSessionExpired and this package reacts by
// clearing everything local).
//
// The store is an explicit dependency handed to its consumers at
// construction; there is no package-level singleton, so tests construct a
// store around a fake gateway without touching globals.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/sakif/droplog/internal/api"
	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/credstore"
	"github.com/sakif/droplog/internal/model"
)

// State is the position of the session state machine.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Gateway is the slice of the api client the session store needs.
// Taking an interface (not *api.Client) lets tests inject a fake.
type Gateway interface {
	Get(ctx context.Context, path string) (*api.Envelope, error)
	Post(ctx context.Context, path string, body any) (*api.Envelope, error)
	Patch(ctx context.Context, path string, body any) (*api.Envelope, error)
}

// Store holds the authenticated user, token, and loading/error flags.
//
// Operations serialize on one mutex: the session is a single logical
// resource and concurrent SignIn/SignOut interleavings have no sensible
// meaning. Reads (User, Token, State) take the same lock and are cheap.
type Store struct {
	mu      sync.Mutex
	gateway Gateway
	creds   *credstore.Store
	logger  *slog.Logger

	state   State
	user    *model.User
	token   string
	lastErr string
}

// New creates an unauthenticated, uninitialized session store.
func New(gateway Gateway, creds *credstore.Store, logger *slog.Logger) *Store {
	return &Store{
		gateway: gateway,
		creds:   creds,
		logger:  logger,
		state:   StateUninitialized,
	}
}

// authData is the user payload wrapper used by every /api/auth response.
type authData struct {
	User *model.User `json:"user"`
}

// State returns the current machine state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsAuthenticated reports whether a user is currently signed in.
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// User returns the signed-in user, or nil.
func (s *Store) User() *model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Token returns the current bearer token, or "".
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Err returns the last operation's error message, or "".
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Initialize rehydrates the session from persisted credentials.
//
// If a token is stored: check its expiry locally first (skips a doomed
// round-trip), then confirm with GET /api/auth/me. ANY failure; expired,
// 401, network down, corrupt row; clears the persisted auth and settles
// into Unauthenticated. No retries: a client that can't confirm its session
// starts signed out and lets the user decide.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateLoading
	s.lastErr = ""

	token, user, ok, err := s.creds.Load()
	if err != nil {
		s.logger.Error("failed to load persisted credentials", slog.String("error", err.Error()))
		s.settleUnauthenticatedLocked()
		return nil
	}
	if !ok {
		s.settleUnauthenticatedLocked()
		return nil
	}

	if tokenExpired(token) {
		s.logger.Info("persisted token expired, starting signed out")
		_ = s.creds.Clear()
		s.settleUnauthenticatedLocked()
		return nil
	}

	// Provisional: the gateway reads the token from the credstore, so it
	// is already in place for the confirmation call.
	s.token = token
	s.user = user

	env, err := s.gateway.Get(ctx, "/api/auth/me")
	if err != nil {
		s.logger.Info("session rehydration failed, starting signed out",
			slog.String("error", err.Error()))
		_ = s.creds.Clear()
		s.settleUnauthenticatedLocked()
		return nil
	}

	var data authData
	if err := env.Decode(&data); err != nil || data.User == nil {
		_ = s.creds.Clear()
		s.settleUnauthenticatedLocked()
		return nil
	}

	// Persist the fresh user record; profile edits made elsewhere since
	// the last run are picked up here.
	s.user = data.User
	if err := s.creds.Save(token, data.User); err != nil {
		s.logger.Warn("failed to refresh persisted user", slog.String("error", err.Error()))
	}

	s.state = StateAuthenticated
	s.logger.Info("session rehydrated", slog.String("userID", data.User.ID))
	return nil
}

// SignUp registers a new account and signs it in.
//
// Client-side validation runs first; a ValidationFailed return means no
// request was issued. On success the token and user are persisted and the
// machine moves to Authenticated.
func (s *Store) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	if err := validateSignUp(in); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.gateway.Post(ctx, "/api/auth/signup", in)
	if err != nil {
		s.lastErr = err.Error()
		return nil, err
	}
	return s.adoptAuthResponseLocked(env)
}

// SignIn authenticates with email and password.
//
// A 429 from the backend surfaces as apperror.ErrRateLimited; callers may
// tell the user to retry shortly, unlike a wrong-password ErrRemote.
func (s *Store) SignIn(ctx context.Context, email, password string) (*model.User, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	env, err := s.gateway.Post(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		s.lastErr = err.Error()
		return nil, err
	}
	return s.adoptAuthResponseLocked(env)
}

// SignOut invalidates the session remotely (best effort) and ALWAYS clears
// the local state and persisted credentials; a dead backend must not trap
// the user in a signed-in client.
func (s *Store) SignOut(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" {
		if _, err := s.gateway.Post(ctx, "/api/auth/logout", nil); err != nil {
			s.logger.Warn("remote logout failed, clearing local session anyway",
				slog.String("error", err.Error()))
		}
	}
	s.settleUnauthenticatedLocked()
	if err := s.creds.Clear(); err != nil {
		s.logger.Error("failed to clear persisted credentials", slog.String("error", err.Error()))
	}
}

// RefreshUser re-fetches the current user record.
//
// On ErrSessionExpired or ErrNotAuthenticated the store force-signs-out
// locally as a side effect, independent of which caller triggered it.
func (s *Store) RefreshUser(ctx context.Context) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return nil, apperror.NotAuthenticated()
	}

	env, err := s.gateway.Get(ctx, "/api/auth/me")
	if err != nil {
		if errors.Is(err, apperror.ErrSessionExpired) || errors.Is(err, apperror.ErrNotAuthenticated) {
			s.logger.Info("session no longer valid, signing out")
			s.settleUnauthenticatedLocked()
			_ = s.creds.Clear()
		}
		s.lastErr = err.Error()
		return nil, err
	}

	var data authData
	if err := env.Decode(&data); err != nil || data.User == nil {
		return nil, apperror.Remote(env.StatusCode, "malformed user payload", nil)
	}

	s.user = data.User
	if err := s.creds.Save(s.token, data.User); err != nil {
		s.logger.Warn("failed to persist refreshed user", slog.String("error", err.Error()))
	}
	return data.User, nil
}

// UpdatePassword changes the account password via
// PATCH /api/auth/update-password. The new password passes the same local
// complexity policy as sign-up before any request is made.
func (s *Store) UpdatePassword(ctx context.Context, current, newPassword, confirm string) error {
	if current == "" {
		return apperror.ValidationFailed("currentPassword", "current password is required")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	if newPassword != confirm {
		return apperror.ValidationFailed("confirmPassword", "passwords do not match")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAuthenticated {
		return apperror.NotAuthenticated()
	}

	_, err := s.gateway.Patch(ctx, "/api/auth/update-password", map[string]string{
		"currentPassword": current,
		"newPassword":     newPassword,
		"confirmPassword": confirm,
	})
	if err != nil {
		s.lastErr = err.Error()
		return err
	}
	return nil
}

// adoptAuthResponseLocked moves the machine to Authenticated from a signup
// or login envelope. Caller holds s.mu.
func (s *Store) adoptAuthResponseLocked(env *api.Envelope) (*model.User, error) {
	if env.Token == "" {
		return nil, apperror.Remote(env.StatusCode, "auth response carried no token", nil)
	}

	var data authData
	if err := env.Decode(&data); err != nil || data.User == nil {
		return nil, apperror.Remote(env.StatusCode, "auth response carried no user", nil)
	}

	s.token = env.Token
	s.user = data.User
	s.state = StateAuthenticated
	s.lastErr = ""

	if err := s.creds.Save(env.Token, data.User); err != nil {
		// The session still works for this process; only rehydration on
		// the next start is affected.
		s.logger.Error("failed to persist credentials", slog.String("error", err.Error()))
	}

	s.logger.Info("signed in", slog.String("userID", data.User.ID))
	return data.User, nil
}

// settleUnauthenticatedLocked resets in-memory session state. Caller holds
// s.mu and is responsible for clearing the credstore when appropriate.
func (s *Store) settleUnauthenticatedLocked() {
	s.state = StateUnauthenticated
	s.user = nil
	s.token = ""
}
