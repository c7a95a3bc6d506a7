package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/model"
)

// UserService handles profile reads and edits.
//
// Authentication state transitions (sign in/out, password) belong to the
// session package; this service only covers the profile record itself.
type UserService struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(gateway Gateway, logger *slog.Logger) *UserService {
	return &UserService{gateway: gateway, logger: logger}
}

// Get fetches the current user's profile.
func (s *UserService) Get(ctx context.Context) (*model.User, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, "/api/auth/me")
	if err != nil {
		return nil, fmt.Errorf("service/user: fetching profile: %w", err)
	}

	var data struct {
		User *model.User `json:"user"`
	}
	if err := env.Decode(&data); err != nil || data.User == nil {
		return nil, fmt.Errorf("service/user: malformed profile payload")
	}
	return data.User, nil
}

// ProfileUpdate is the editable subset of the user record. Empty strings
// are sent as-is; "clear my username" is expressed by "", never by an
// absent key, so the backend and the rendering code never branch on
// missing-vs-empty.
type ProfileUpdate struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Avatar    string `json:"avatar"`
}

// UpdateProfile edits the profile and returns the authoritative record.
func (s *UserService) UpdateProfile(ctx context.Context, update ProfileUpdate) (*model.User, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	update.FirstName = strings.TrimSpace(update.FirstName)
	update.LastName = strings.TrimSpace(update.LastName)
	update.Username = strings.TrimSpace(update.Username)
	if update.FirstName == "" {
		return nil, apperror.ValidationFailed("firstName", "first name is required")
	}
	if update.LastName == "" {
		return nil, apperror.ValidationFailed("lastName", "last name is required")
	}

	env, err := s.gateway.Patch(ctx, "/api/users/profile", update)
	if err != nil {
		return nil, fmt.Errorf("service/user: updating profile: %w", err)
	}

	var data struct {
		User *model.User `json:"user"`
	}
	if err := env.Decode(&data); err != nil || data.User == nil {
		return nil, fmt.Errorf("service/user: malformed profile payload")
	}

	s.logger.Info("profile updated", slog.String("userID", data.User.ID))
	return data.User, nil
}
