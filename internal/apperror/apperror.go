// Package apperror defines the error taxonomy shared by every layer of the
// client.
//
// The sentinel values below are the full vocabulary callers need for flow
// control; UI code switches on errors.Is(err, apperror.ErrX) and displays
// the AppError message, never inspecting transport-level shapes:
//
//	ErrValidation       client-side, pre-submission; never reached the network
//	ErrRemote           the backend answered with a non-2xx status
//	ErrNetwork          no HTTP response at all (DNS, refused, timeout)
//	ErrSessionExpired   a 401; the persisted credentials are no longer valid
//	ErrNotAuthenticated a call was attempted with no session at all
//	ErrRateLimited      a 429; same failure class as ErrRemote but retryable
//	ErrNotFound         a 404 for a specific resource id
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation       = errors.New("validation error")
	ErrRemote           = errors.New("remote error")
	ErrNetwork          = errors.New("network error")
	ErrSessionExpired   = errors.New("session expired")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRateLimited      = errors.New("rate limited")
	ErrNotFound         = errors.New("not found")
)

// AppError is the one concrete error type the client produces.
//
// Message is always human-readable and safe to display. Details carries the
// backend's full field-error list when one was returned; forms surface
// Message as the primary error but can render every entry of Details
// (first-message-primary, rest retained).
type AppError struct {
	Err        error    // sentinel category (one of the vars above)
	Message    string   // human-readable, display-ready
	Field      string   // optional: the form field that failed validation
	StatusCode int      // HTTP status, 0 for pre-network failures
	Details    []string // optional: full backend error list
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports a client-side validation failure for a field.
// By construction it carries no StatusCode: it exists precisely so that a
// malformed form never turns into an HTTP request.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Remote wraps a non-2xx backend response. details may be nil.
func Remote(status int, message string, details []string) *AppError {
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &AppError{
		Err:        ErrRemote,
		Message:    message,
		StatusCode: status,
		Details:    details,
	}
}

// NetworkFailure wraps a transport-level failure (no HTTP response).
// StatusCode is fixed at 500 so callers that branch on status never see 0.
func NetworkFailure(err error) *AppError {
	return &AppError{
		Err:        ErrNetwork,
		Message:    "Network error",
		StatusCode: 500,
		Details:    []string{err.Error()},
	}
}

// SessionExpired reports an observed 401. The API gateway raises this after
// clearing the persisted credentials.
func SessionExpired() *AppError {
	return &AppError{
		Err:        ErrSessionExpired,
		Message:    "your session has expired, please sign in again",
		StatusCode: 401,
	}
}

// NotAuthenticated reports a call attempted without any session. Resource
// services fail fast with this instead of sending a doomed request.
func NotAuthenticated() *AppError {
	return &AppError{
		Err:     ErrNotAuthenticated,
		Message: "not signed in",
	}
}

// RateLimited reports a 429. It is the retryable variant of Remote: callers
// may back off and retry, unlike other remote failures.
func RateLimited(message string) *AppError {
	if message == "" {
		message = "too many requests, please try again shortly"
	}
	return &AppError{
		Err:        ErrRateLimited,
		Message:    message,
		StatusCode: 429,
	}
}

// NotFound reports a missing resource by id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Message:    fmt.Sprintf("%s not found with id %s", resource, id),
		StatusCode: 404,
	}
}

// Retryable reports whether the error is worth retrying without user
// intervention: rate limits and transport failures qualify, everything
// else does not.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrNetwork)
}
