// Package api is the HTTP gateway to the airdrop-tracker backend.
//
// Client is the ONLY component that talks HTTP and the only component
// (besides the session store) allowed to touch the persisted credentials.
// Everything above it; session, resource services, UI; works with the
// normalized Envelope and the apperror taxonomy, never with *http.Response.
//
// RESPONSIBILITIES:
//   - attach Authorization: Bearer <token> when credentials are persisted
//   - serialize JSON bodies, decode both backend envelope dialects
//   - translate HTTP failure classes into the apperror taxonomy
//   - clear persisted credentials exactly once on an observed 401
//   - turn transport failures into a synthetic error instead of panicking
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/credstore"
)

// requestTimeout is the fixed per-request deadline. A request that hasn't
// produced a response by then is treated as a network failure.
const requestTimeout = 10 * time.Second

// Client wraps *http.Client with the backend's conventions.
type Client struct {
	baseURL string
	http    *http.Client
	creds   *credstore.Store
	logger  *slog.Logger
}

// New creates a gateway for the backend at baseURL (e.g.
// "https://tracker.example.com"). Trailing slashes are trimmed so paths can
// always be written as "/api/...".
func New(baseURL string, creds *credstore.Store, logger *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		creds:   creds,
		logger:  logger,
	}
}

// Get issues a GET request. Query parameters belong in the path.
func (c *Client) Get(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post issues a POST request with a JSON body (nil for no body).
func (c *Client) Post(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Patch issues a PATCH request with a JSON body (nil for no body).
func (c *Client) Patch(ctx context.Context, path string, body any) (*Envelope, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Envelope, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// Token exposes the persisted bearer token ("" when absent). Resource
// services use it to fail fast before issuing unauthenticated requests.
func (c *Client) Token() string {
	return c.creds.Token()
}

// do runs one request/response round-trip.
//
// ERROR MAPPING (the inverse of a server's writeError):
//
//	transport failure → apperror.NetworkFailure (synthetic, StatusCode 500)
//	401               → credentials cleared once, apperror.SessionExpired
//	429               → apperror.RateLimited
//	other non-2xx     → apperror.Remote with message + full error list
//	2xx               → (*Envelope, nil)
//
// On 401 the credential clear happens exactly once per request and the
// request is NOT retried; re-authentication is a user decision, and
// retrying here is how redirect loops are born.
func (c *Client) do(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("api: encoding %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("api: building %s %s request: %w", method, path, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.creds.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// Correlation id: lets a backend log line be matched to this client
	// log line. xid is sortable and collision-free without coordination.
	requestID := xid.New().String()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		// No HTTP response at all (DNS failure, refused connection, the
		// 10s timeout). Normalized into one synthetic error; callers
		// must never have to recover from a raw transport error.
		c.logger.Warn("request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("requestID", requestID),
			slog.Duration("duration", time.Since(start)),
			slog.String("error", err.Error()),
		)
		return nil, apperror.NetworkFailure(err)
	}
	defer res.Body.Close()

	c.logger.Info("request completed",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", res.StatusCode),
		slog.String("requestID", requestID),
		slog.Duration("duration", time.Since(start)),
	)

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.NetworkFailure(err)
	}

	var wire wireEnvelope
	if len(raw) > 0 {
		// A non-JSON body (proxy error page, empty 204) is not fatal: the
		// HTTP status alone decides the outcome below.
		_ = json.Unmarshal(raw, &wire)
	}
	env := wire.normalize(res.StatusCode)

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		// The token is no longer valid server-side. Clear the persisted
		// credentials so no later request repeats the failure; the
		// session store reacts to ErrSessionExpired by resetting its
		// state machine.
		if err := c.creds.Clear(); err != nil {
			c.logger.Error("failed to clear credentials after 401",
				slog.String("error", err.Error()),
			)
		}
		return nil, apperror.SessionExpired()

	case res.StatusCode == http.StatusTooManyRequests:
		return nil, apperror.RateLimited(env.Message)

	case res.StatusCode >= 400:
		message := env.Message
		details := env.ErrorStrings()
		// First backend message becomes the primary error; the rest ride
		// along in Details for form UIs.
		if message == "" && len(details) > 0 {
			message = details[0]
		}
		return nil, apperror.Remote(res.StatusCode, message, details)
	}

	if !env.OK {
		// 2xx transport but the envelope itself reports failure.
		return nil, apperror.Remote(res.StatusCode, env.Message, env.ErrorStrings())
	}

	return env, nil
}
