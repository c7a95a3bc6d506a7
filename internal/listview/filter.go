// Package listview derives the visible slice of a fetched collection from
// a set of active filters, and owns the optimistic mutation flow for the
// airdrop and task views.
//
// FILTER COMPOSITION IS CONJUNCTIVE: an item is visible only when it
// matches the search substring AND every active single-valued filter AND
// intersects the selected tag set. An unset filter (zero value or "All")
// constrains nothing. Filtering never mutates the loaded collection, so
// `filtered ⊆ loaded` holds by construction.
package listview

import (
	"sort"
	"strings"

	"github.com/sakif/droplog/internal/model"
)

// FilterAll is the sentinel option meaning "no constraint" for a
// single-valued filter. The empty string behaves identically.
const FilterAll = "All"

func active(value string) bool {
	return value != "" && value != FilterAll
}

// matchesSearch does a case-insensitive substring check over the given
// fields.
func matchesSearch(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// AirdropFilter is the active filter set of the airdrop list view.
type AirdropFilter struct {
	Search    string   // substring over name + description
	Status    string   // "", "All", or an AirdropStatus value
	Ecosystem string   // "", "All", or an ecosystem value
	Type      string   // "", "All", or a type value
	Tags      []string // selected tag facet; empty = no tag constraint
}

// Match reports whether one airdrop passes every active criterion.
func (f AirdropFilter) Match(a *model.Airdrop) bool {
	if !matchesSearch(f.Search, a.Name, a.Description) {
		return false
	}
	if active(f.Status) && string(a.Status) != f.Status {
		return false
	}
	if active(f.Ecosystem) && a.Ecosystem != f.Ecosystem {
		return false
	}
	if active(f.Type) && a.Type != f.Type {
		return false
	}
	if len(f.Tags) > 0 {
		// At least one selected tag must be present on the airdrop.
		any := false
		for _, tag := range f.Tags {
			if a.HasTag(tag) {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	}
	return true
}

// Apply returns the visible subset, preserving the input order. The result
// is always a fresh slice; the input is never modified.
func (f AirdropFilter) Apply(in []model.Airdrop) []model.Airdrop {
	out := make([]model.Airdrop, 0, len(in))
	for i := range in {
		if f.Match(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// TaskFilter is the active filter set of the task list view.
type TaskFilter struct {
	Search        string // substring over title + project
	Category      string
	Priority      string // "", "All", or an AirdropPriority value
	DailyOnly     bool
	HideCompleted bool
}

// Match reports whether one task passes every active criterion.
func (f TaskFilter) Match(t *model.Task) bool {
	if !matchesSearch(f.Search, t.Title, t.Project) {
		return false
	}
	if active(f.Category) && t.Category != f.Category {
		return false
	}
	if active(f.Priority) && string(t.Priority) != f.Priority {
		return false
	}
	if f.DailyOnly && !t.IsDaily {
		return false
	}
	if f.HideCompleted && t.Completed {
		return false
	}
	return true
}

// Apply returns the visible subset, preserving the input order.
func (f TaskFilter) Apply(in []model.Task) []model.Task {
	out := make([]model.Task, 0, len(in))
	for i := range in {
		if f.Match(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

// distinct collects the sorted unique non-empty values produced by get.
func distinct[T any](in []T, get func(*T) string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for i := range in {
		v := get(&in[i])
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Ecosystems returns the filter options for the ecosystem facet, derived
// from the loaded collection; an ecosystem with no loaded airdrop is not
// offered.
func Ecosystems(in []model.Airdrop) []string {
	return distinct(in, func(a *model.Airdrop) string { return a.Ecosystem })
}

// Types returns the filter options for the type facet.
func Types(in []model.Airdrop) []string {
	return distinct(in, func(a *model.Airdrop) string { return a.Type })
}

// Statuses returns the status values present in the loaded collection.
func Statuses(in []model.Airdrop) []string {
	return distinct(in, func(a *model.Airdrop) string { return string(a.Status) })
}

// Categories returns the category values present in the loaded tasks.
func Categories(in []model.Task) []string {
	return distinct(in, func(t *model.Task) string { return t.Category })
}
