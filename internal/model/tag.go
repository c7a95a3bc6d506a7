package model

// UserTag is a user-scoped label attached to airdrops.
//
// Name is unique per user, case-insensitive; the backend enforces the
// constraint, and the tag service lower-cases every name before submission
// so the comparison is effectively case-sensitive by the time it gets there.
// UsageCount is server-maintained; the client treats it as read-only.
type UserTag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	UsageCount int    `json:"usageCount"`
}
