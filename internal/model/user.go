// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents the authenticated account as returned by the backend's
// /api/auth endpoints.
//
// Optional string fields use the empty string as their zero value rather
// than pointers; simpler to work with and safe to display. The service
// layer guarantees they are never absent in outgoing payloads, so rendering
// code never has to branch on "missing vs empty".
type User struct {
	ID          string           `json:"id"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Email       string           `json:"email"`
	Username    string           `json:"username,omitempty"`
	Avatar      string           `json:"avatar,omitempty"`
	Preferences *UserPreferences `json:"preferences,omitempty"`
	CreatedAt   time.Time        `json:"createdAt,omitzero"`
	UpdatedAt   time.Time        `json:"updatedAt,omitzero"`
}

// UserPreferences holds per-account display settings. All fields are
// server-defaulted; the client only round-trips them.
type UserPreferences struct {
	Theme         string `json:"theme,omitempty"`
	Currency      string `json:"currency,omitempty"`
	Notifications bool   `json:"notifications"`
}

// DisplayName returns the best human-readable name for the user:
// username if set, otherwise "FirstName LastName", otherwise the email.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name != "" {
		return name
	}
	return u.Email
}
