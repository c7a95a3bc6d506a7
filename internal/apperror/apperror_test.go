package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "invalid email format"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Remote wraps ErrRemote",
			err:       Remote(500, "internal server error", nil),
			target:    ErrRemote,
			wantMatch: true,
		},
		{
			name:      "NetworkFailure wraps ErrNetwork",
			err:       NetworkFailure(errors.New("connection refused")),
			target:    ErrNetwork,
			wantMatch: true,
		},
		{
			name:      "SessionExpired wraps ErrSessionExpired",
			err:       SessionExpired(),
			target:    ErrSessionExpired,
			wantMatch: true,
		},
		{
			name:      "RateLimited wraps ErrRateLimited",
			err:       RateLimited(""),
			target:    ErrRateLimited,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("airdrop", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed does NOT match ErrRemote",
			err:       ValidationFailed("name", "name is required"),
			target:    ErrRemote,
			wantMatch: false,
		},
		{
			name:      "Remote does NOT match ErrSessionExpired",
			err:       Remote(400, "bad request", nil),
			target:    ErrSessionExpired,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("password", "password must be at least 8 characters"),
			wantMessage: "password must be at least 8 characters",
		},
		{
			name:        "Remote falls back to status when message empty",
			err:         Remote(503, "", nil),
			wantMessage: "request failed with status 503",
		},
		{
			name:        "NetworkFailure uses the fixed message",
			err:         NetworkFailure(errors.New("dial tcp: timeout")),
			wantMessage: "Network error",
		},
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("task", "t1"),
			wantMessage: "task not found with id t1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestRemote_KeepsFullDetailList(t *testing.T) {
	// The first backend message becomes the primary error, but form UIs
	// need access to every entry; Remote must not discard the rest.
	details := []string{"name is required", "deadline must be a date", "priority is invalid"}
	err := Remote(400, details[0], details)

	if err.Message != "name is required" {
		t.Errorf("Message = %q, want first detail", err.Message)
	}
	if len(err.Details) != 3 {
		t.Fatalf("Details has %d entries, want 3", len(err.Details))
	}
	if err.Details[2] != "priority is invalid" {
		t.Errorf("Details[2] = %q, want %q", err.Details[2], "priority is invalid")
	}
}

func TestNetworkFailure_SyntheticStatusCode(t *testing.T) {
	// A transport failure has no HTTP status. We synthesise 500 so callers
	// that branch on StatusCode never see a zero.
	err := NetworkFailure(errors.New("no route to host"))
	if err.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", err.StatusCode)
	}
}

func TestRetryable(t *testing.T) {
	if !Retryable(RateLimited("")) {
		t.Error("RateLimited should be retryable")
	}
	if !Retryable(NetworkFailure(errors.New("timeout"))) {
		t.Error("NetworkFailure should be retryable")
	}
	if Retryable(Remote(500, "boom", nil)) {
		t.Error("plain Remote should not be retryable")
	}
	if Retryable(ValidationFailed("email", "bad")) {
		t.Error("ValidationFailed should not be retryable")
	}
}

func TestUnwrap(t *testing.T) {
	err := SessionExpired()
	if err.Unwrap() != ErrSessionExpired {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), ErrSessionExpired)
	}
}
