package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/sakif/droplog/internal/api"
)

// fakeGateway is an in-memory Gateway. Instead of HTTP it records every
// call and answers from a handler function, so service tests exercise the
// payload mapping and error policy without a server.
type fakeGateway struct {
	mu    sync.Mutex
	token string
	calls []gatewayCall

	// handler answers each call. Nil handler returns an empty success
	// envelope with a null data payload.
	handler func(method, path string, body any) (*api.Envelope, error)
}

type gatewayCall struct {
	Method string
	Path   string
	Body   any
}

func newFakeGateway(token string) *fakeGateway {
	return &fakeGateway{token: token}
}

func (f *fakeGateway) record(method, path string, body any) (*api.Envelope, error) {
	f.mu.Lock()
	f.calls = append(f.calls, gatewayCall{Method: method, Path: path, Body: body})
	handler := f.handler
	f.mu.Unlock()

	if handler == nil {
		return okEnvelope(`null`), nil
	}
	return handler(method, path, body)
}

func (f *fakeGateway) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeGateway) lastCall(t *testing.T) gatewayCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("no gateway calls were recorded")
	}
	return f.calls[len(f.calls)-1]
}

func (f *fakeGateway) Get(_ context.Context, path string) (*api.Envelope, error) {
	return f.record("GET", path, nil)
}

func (f *fakeGateway) Post(_ context.Context, path string, body any) (*api.Envelope, error) {
	return f.record("POST", path, body)
}

func (f *fakeGateway) Put(_ context.Context, path string, body any) (*api.Envelope, error) {
	return f.record("PUT", path, body)
}

func (f *fakeGateway) Patch(_ context.Context, path string, body any) (*api.Envelope, error) {
	return f.record("PATCH", path, body)
}

func (f *fakeGateway) Delete(_ context.Context, path string) (*api.Envelope, error) {
	return f.record("DELETE", path, nil)
}

func (f *fakeGateway) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// okEnvelope builds a success envelope around a raw JSON payload.
func okEnvelope(data string) *api.Envelope {
	return &api.Envelope{
		OK:         true,
		Data:       json.RawMessage(data),
		StatusCode: 200,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
