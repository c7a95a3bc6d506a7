package api_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/sakif/droplog/internal/api"
	"github.com/sakif/droplog/internal/apperror"
	"github.com/sakif/droplog/internal/credstore"
	"github.com/sakif/droplog/internal/model"
)

// newTestClient wires a Client against a chi-routed fake backend.
// The returned credstore starts empty; tests that need an authenticated
// client call creds.Save first.
func newTestClient(t *testing.T, routes func(r chi.Router)) (*api.Client, *credstore.Store) {
	t.Helper()

	r := chi.NewRouter()
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	creds, err := credstore.Open(":memory:")
	if err != nil {
		t.Fatalf("credstore.Open error = %v", err)
	}
	t.Cleanup(func() { creds.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return api.New(srv.URL, creds, logger), creds
}

func TestGet_ResourceDialect(t *testing.T) {
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Get("/api/airdrops", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"success":true,"data":[{"id":"a1","name":"LayerDrop"}]}`))
		})
	})

	env, err := client.Get(context.Background(), "/api/airdrops")
	assert.NoError(t, err)
	assert.True(t, env.OK)

	var airdrops []model.Airdrop
	assert.NoError(t, env.Decode(&airdrops))
	assert.Len(t, airdrops, 1)
	assert.Equal(t, "LayerDrop", airdrops[0].Name)
}

func TestPost_AuthDialectCarriesToken(t *testing.T) {
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Post("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"success","token":"jwt-123","data":{"user":{"id":"u1","email":"a@b.c"}}}`))
		})
	})

	env, err := client.Post(context.Background(), "/api/auth/login", map[string]string{
		"email": "a@b.c", "password": "Secret1!",
	})
	assert.NoError(t, err)
	assert.True(t, env.OK)
	assert.Equal(t, "jwt-123", env.Token)
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	client, creds := newTestClient(t, func(r chi.Router) {
		r.Get("/api/tasks", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			gotRequestID = req.Header.Get("X-Request-ID")
			w.Write([]byte(`{"success":true,"data":[]}`))
		})
	})

	if err := creds.Save("tok-42", &model.User{ID: "u1"}); err != nil {
		t.Fatalf("creds.Save error = %v", err)
	}

	_, err := client.Get(context.Background(), "/api/tasks")
	assert.NoError(t, err)
	assert.Equal(t, "Bearer tok-42", gotAuth)
	assert.NotEmpty(t, gotRequestID, "every request should carry a correlation id")
}

func TestDo_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	sawHeader := true
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Get("/api/ping", func(w http.ResponseWriter, req *http.Request) {
			gotAuth = req.Header.Get("Authorization")
			_, sawHeader = req.Header["Authorization"]
			w.Write([]byte(`{"success":true,"data":{}}`))
		})
	})

	_, err := client.Get(context.Background(), "/api/ping")
	assert.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, sawHeader, "no Authorization header should be sent without a token")
}

func TestDo_401ClearsCredentials(t *testing.T) {
	client, creds := newTestClient(t, func(r chi.Router) {
		r.Get("/api/auth/me", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"status":"fail","message":"jwt expired"}`))
		})
	})

	if err := creds.Save("stale-token", &model.User{ID: "u1"}); err != nil {
		t.Fatalf("creds.Save error = %v", err)
	}

	_, err := client.Get(context.Background(), "/api/auth/me")
	assert.ErrorIs(t, err, apperror.ErrSessionExpired)

	// The persisted credentials must be gone so the failure isn't repeated.
	assert.Empty(t, creds.Token(), "401 must clear the persisted token")
}

func TestDo_429IsRateLimited(t *testing.T) {
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Post("/api/auth/login", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":"error","message":"too many login attempts"}`))
		})
	})

	_, err := client.Post(context.Background(), "/api/auth/login", map[string]string{})
	assert.ErrorIs(t, err, apperror.ErrRateLimited)
	assert.True(t, apperror.Retryable(err))

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, "too many login attempts", appErr.Message)
	}
}

func TestDo_ValidationErrorListSurvives(t *testing.T) {
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Post("/api/airdrops", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"message":"validation failed","errors":[
				{"field":"name","message":"name is required"},
				{"field":"deadline","message":"deadline must be a date"}
			]}`))
		})
	})

	_, err := client.Post(context.Background(), "/api/airdrops", map[string]string{})
	assert.ErrorIs(t, err, apperror.ErrRemote)

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, "validation failed", appErr.Message)
		assert.Len(t, appErr.Details, 2, "the full backend error list must be retained")
		assert.Equal(t, "name: name is required", appErr.Details[0])
	}
}

func TestDo_StringErrorList(t *testing.T) {
	// Some endpoints return plain strings in the errors array.
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Post("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"success":false,"errors":["tag name is required"]}`))
		})
	})

	_, err := client.Post(context.Background(), "/api/tags", map[string]string{})

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		// With no top-level message the first list entry is promoted.
		assert.Equal(t, "tag name is required", appErr.Message)
	}
}

func TestDo_NetworkFailureIsSynthetic(t *testing.T) {
	creds, err := credstore.Open(":memory:")
	if err != nil {
		t.Fatalf("credstore.Open error = %v", err)
	}
	t.Cleanup(func() { creds.Close() })

	// Point at a server that is already gone.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	client := api.New(srv.URL, creds, logger)

	_, err = client.Get(context.Background(), "/api/airdrops")
	assert.ErrorIs(t, err, apperror.ErrNetwork)

	var appErr *apperror.AppError
	if assert.ErrorAs(t, err, &appErr) {
		assert.Equal(t, "Network error", appErr.Message)
		assert.Equal(t, 500, appErr.StatusCode)
	}
}

func TestDo_2xxEnvelopeFailure(t *testing.T) {
	// A 200 whose envelope says success:false is still a remote failure.
	client, _ := newTestClient(t, func(r chi.Router) {
		r.Get("/api/tasks/stats", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`{"success":false,"message":"stats unavailable"}`))
		})
	})

	_, err := client.Get(context.Background(), "/api/tasks/stats")
	assert.ErrorIs(t, err, apperror.ErrRemote)
	assert.False(t, errors.Is(err, apperror.ErrNetwork))
}
