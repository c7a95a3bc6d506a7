package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/model"
)

// TagService manages the user's tag set.
//
// Tag names are unique per user, case-insensitive. The service lower-cases
// every outgoing name so "DeFi" and "defi" collapse into one tag before the
// backend ever compares them.
type TagService struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(gateway Gateway, logger *slog.Logger) *TagService {
	return &TagService{gateway: gateway, logger: logger}
}

// List fetches all of the user's tags.
func (s *TagService) List(ctx context.Context) ([]model.UserTag, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, "/api/tags")
	if err != nil {
		return nil, fmt.Errorf("service/tag: listing tags: %w", err)
	}

	tags := []model.UserTag{}
	if len(env.Data) > 0 {
		if err := env.Decode(&tags); err != nil {
			return nil, fmt.Errorf("service/tag: %w", err)
		}
	}
	return tags, nil
}

// Upsert creates the tag if absent and returns the existing one otherwise.
//
// This is a SINGLE backend call; create-if-absent must not be implemented
// as a client-side existence check followed by a create, because two rapid
// entries of the same new name would race and produce duplicates. The
// backend resolves the upsert atomically.
func (s *TagService) Upsert(ctx context.Context, name, color string) (*model.UserTag, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}

	env, err := s.gateway.Post(ctx, "/api/tags", map[string]string{
		"name":  name,
		"color": color,
	})
	if err != nil {
		return nil, fmt.Errorf("service/tag: upserting tag %q: %w", name, err)
	}

	tag := &model.UserTag{}
	if err := env.Decode(tag); err != nil {
		return nil, fmt.Errorf("service/tag: %w", err)
	}
	s.logger.Info("tag upserted", slog.String("name", tag.Name), slog.String("id", tag.ID))
	return tag, nil
}

// Update changes a tag's name or color. The name is lower-cased like
// everywhere else.
func (s *TagService) Update(ctx context.Context, id, name, color string) (*model.UserTag, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "tag id is required")
	}
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}

	env, err := s.gateway.Put(ctx, "/api/tags/"+url.PathEscape(id), map[string]string{
		"name":  name,
		"color": color,
	})
	if err != nil {
		return nil, fmt.Errorf("service/tag: updating tag %s: %w", id, err)
	}

	tag := &model.UserTag{}
	if err := env.Decode(tag); err != nil {
		return nil, fmt.Errorf("service/tag: %w", err)
	}
	return tag, nil
}

// Delete removes a tag from the user's set. Airdrops keep their tag
// strings; the backend only drops the UserTag record and its usage count.
func (s *TagService) Delete(ctx context.Context, id string) error {
	if err := requireAuth(s.gateway); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "tag id is required")
	}

	if _, err := s.gateway.Delete(ctx, "/api/tags/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("service/tag: deleting tag %s: %w", id, err)
	}
	return nil
}

// Suggestions fetches tag-name completions for a prefix, for the free-text
// tag entry field. limit <= 0 falls back to the backend default.
func (s *TagService) Suggestions(ctx context.Context, prefix string, limit int) ([]model.UserTag, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("q", strings.ToLower(strings.TrimSpace(prefix)))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	env, err := s.gateway.Get(ctx, "/api/tags/suggestions?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("service/tag: fetching suggestions: %w", err)
	}

	tags := []model.UserTag{}
	if len(env.Data) > 0 {
		if err := env.Decode(&tags); err != nil {
			return nil, fmt.Errorf("service/tag: %w", err)
		}
	}
	return tags, nil
}
