package model

import (
	"sort"
	"strings"
	"time"
)

// AirdropStatus is the lifecycle stage of a tracked airdrop.
//
// The backend stores these as plain strings, so the enum types here are
// string-based rather than iota-based; the JSON round-trips without a
// custom marshaller, and unknown future values still decode.
type AirdropStatus string

const (
	StatusFarming   AirdropStatus = "Farming"
	StatusClaimable AirdropStatus = "Claimable"
	StatusCompleted AirdropStatus = "Completed"
	StatusUpcoming  AirdropStatus = "Upcoming"
)

// AirdropPriority ranks how important an airdrop is to the user.
type AirdropPriority string

const (
	PriorityHigh   AirdropPriority = "High"
	PriorityMedium AirdropPriority = "Medium"
	PriorityLow    AirdropPriority = "Low"
)

// SocialMedia groups the official channels of an airdrop project.
// All fields are optional URLs; empty string means "not provided".
type SocialMedia struct {
	Twitter  string `json:"twitter,omitempty"`
	Telegram string `json:"telegram,omitempty"`
	Discord  string `json:"discord,omitempty"`
	Medium   string `json:"medium,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Airdrop is a tracked token-distribution opportunity owned by one user.
//
// Ecosystem and Type are free-form enums: the set of valid values is
// whatever the backend accepts, and the filter UI derives its options from
// the values actually present in the loaded collection, not from a static
// list (see the listview package).
//
// INVARIANT: Tags are always lower-cased, trimmed, and unique. NormalizeTags
// enforces this; the service layer applies it before every create/update so
// the backend never sees a mixed-case tag.
type Airdrop struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Ecosystem      string          `json:"ecosystem"`
	Type           string          `json:"type"`
	Status         AirdropStatus   `json:"status"`
	Deadline       string          `json:"deadline"`
	EstimatedValue string          `json:"estimatedValue"`
	Priority       AirdropPriority `json:"priority"`
	OfficialLink   string          `json:"officialLink"`
	ReferralLink   string          `json:"referralLink,omitempty"`
	LogoURL        string          `json:"logoUrl"`
	BannerURL      string          `json:"bannerUrl,omitempty"`
	Tags           []string        `json:"tags"`
	Notes          string          `json:"notes"`
	IsDailyTask    bool            `json:"isDailyTask"`
	DailyTaskNote  string          `json:"dailyTaskNote"`
	TokenSymbol    string          `json:"tokenSymbol"`
	StartDate      string          `json:"startDate"`
	SocialMedia    SocialMedia     `json:"socialMedia"`
	TasksCompleted int             `json:"tasksCompleted,omitempty"`
	TotalTasks     int             `json:"totalTasks,omitempty"`
	CreatedAt      time.Time       `json:"createdAt,omitzero"`
	UpdatedAt      time.Time       `json:"updatedAt,omitzero"`
}

// NormalizeTags lower-cases, trims, de-duplicates, and sorts a tag slice.
// The empty-after-trim entries are dropped. Always returns a non-nil slice
// so the JSON encoding is [] rather than null.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the airdrop carries the given tag.
// The argument is normalized before comparison, so HasTag("DeFi") matches
// a stored "defi".
func (a *Airdrop) HasTag(tag string) bool {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Progress returns the task completion percentage (0–100), clamped so a
// count drift (tasksCompleted > totalTasks after a bulk import) can never
// render above 100%. Derived per call, never persisted.
func (a *Airdrop) Progress() float64 {
	if a.TotalTasks <= 0 {
		return 0
	}
	ratio := float64(a.TasksCompleted) / float64(a.TotalTasks)
	if ratio > 1 {
		ratio = 1
	}
	return ratio * 100
}
