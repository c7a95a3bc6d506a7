package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/model"
)

// MaxAirdropNameLength bounds the name field, matching the backend policy.
const MaxAirdropNameLength = 100

// AirdropService translates airdrop CRUD calls into backend requests.
type AirdropService struct {
	gateway Gateway
	logger  *slog.Logger
}

// NewAirdropService creates an AirdropService.
func NewAirdropService(gateway Gateway, logger *slog.Logger) *AirdropService {
	return &AirdropService{gateway: gateway, logger: logger}
}

// AirdropListFilter is the server-side filter set for List. Zero values
// mean "no constraint"; fine-grained filtering (search, tag faceting)
// happens client-side in the listview package.
type AirdropListFilter struct {
	Status    model.AirdropStatus
	Ecosystem string
	Type      string
}

func (f AirdropListFilter) query() string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Ecosystem != "" {
		q.Set("ecosystem", f.Ecosystem)
	}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List fetches the user's airdrops. An empty collection is a normal result,
// never an error; the caller renders an empty state.
func (s *AirdropService) List(ctx context.Context, filter AirdropListFilter) ([]model.Airdrop, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}

	env, err := s.gateway.Get(ctx, "/api/airdrops"+filter.query())
	if err != nil {
		return nil, fmt.Errorf("service/airdrop: listing airdrops: %w", err)
	}

	airdrops := []model.Airdrop{}
	if len(env.Data) > 0 {
		if err := env.Decode(&airdrops); err != nil {
			return nil, fmt.Errorf("service/airdrop: %w", err)
		}
	}
	return airdrops, nil
}

// Get fetches a single airdrop by id.
func (s *AirdropService) Get(ctx context.Context, id string) (*model.Airdrop, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "airdrop id is required")
	}

	env, err := s.gateway.Get(ctx, "/api/airdrops/"+url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("service/airdrop: fetching airdrop %s: %w", id, err)
	}

	airdrop := &model.Airdrop{}
	if err := env.Decode(airdrop); err != nil {
		return nil, fmt.Errorf("service/airdrop: %w", err)
	}
	return airdrop, nil
}

// Create submits a new airdrop. The payload is sanitized first: name
// trimmed, tags normalized to lower case, optional fields left as "" so
// the backend always receives every key.
func (s *AirdropService) Create(ctx context.Context, airdrop *model.Airdrop) (*model.Airdrop, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	payload, err := sanitizeAirdrop(airdrop)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Post(ctx, "/api/airdrops", payload)
	if err != nil {
		return nil, fmt.Errorf("service/airdrop: creating airdrop: %w", err)
	}

	created := &model.Airdrop{}
	if err := env.Decode(created); err != nil {
		return nil, fmt.Errorf("service/airdrop: %w", err)
	}

	s.logger.Info("airdrop created",
		slog.String("id", created.ID),
		slog.String("name", created.Name),
	)
	return created, nil
}

// Update replaces an airdrop wholesale; the edit flow sends the entire
// record, not a patch. Concurrent edits of the same record therefore
// resolve last-write-wins.
func (s *AirdropService) Update(ctx context.Context, id string, airdrop *model.Airdrop) (*model.Airdrop, error) {
	if err := requireAuth(s.gateway); err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "airdrop id is required")
	}
	payload, err := sanitizeAirdrop(airdrop)
	if err != nil {
		return nil, err
	}

	env, err := s.gateway.Put(ctx, "/api/airdrops/"+url.PathEscape(id), payload)
	if err != nil {
		return nil, fmt.Errorf("service/airdrop: updating airdrop %s: %w", id, err)
	}

	updated := &model.Airdrop{}
	if err := env.Decode(updated); err != nil {
		return nil, fmt.Errorf("service/airdrop: %w", err)
	}

	s.logger.Info("airdrop updated", slog.String("id", id))
	return updated, nil
}

// Delete removes an airdrop.
func (s *AirdropService) Delete(ctx context.Context, id string) error {
	if err := requireAuth(s.gateway); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "airdrop id is required")
	}

	if _, err := s.gateway.Delete(ctx, "/api/airdrops/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("service/airdrop: deleting airdrop %s: %w", id, err)
	}

	s.logger.Info("airdrop deleted", slog.String("id", id))
	return nil
}

// sanitizeAirdrop validates and normalizes an outgoing airdrop payload.
// Returns a copy; the caller's struct is never mutated, so a failed
// submission leaves the form state untouched.
func sanitizeAirdrop(a *model.Airdrop) (*model.Airdrop, error) {
	if a == nil {
		return nil, apperror.ValidationFailed("airdrop", "airdrop payload is required")
	}

	out := *a
	out.Name = strings.TrimSpace(out.Name)
	if out.Name == "" {
		return nil, apperror.ValidationFailed("name", "airdrop name is required")
	}
	if len(out.Name) > MaxAirdropNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("airdrop name must be %d characters or less", MaxAirdropNameLength))
	}

	// Tags are stored lower-cased, always; comparison anywhere in the
	// system assumes it.
	out.Tags = model.NormalizeTags(out.Tags)

	out.Description = strings.TrimSpace(out.Description)
	out.Notes = strings.TrimSpace(out.Notes)
	out.TokenSymbol = strings.TrimSpace(out.TokenSymbol)
	return &out, nil
}
