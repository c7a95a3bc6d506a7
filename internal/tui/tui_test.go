package tui

import (
	"testing"

	"github.com/sakif/droplog/internal/listview"
	"github.com/sakif/droplog/internal/model"
)

func TestCycleOption(t *testing.T) {
	options := []string{"Claimable", "Farming", "Upcoming"}

	tests := []struct {
		name    string
		current string
		want    string
	}{
		{name: "unset starts at the first option", current: "", want: "Claimable"},
		{name: "All starts at the first option", current: listview.FilterAll, want: "Claimable"},
		{name: "middle advances", current: "Claimable", want: "Farming"},
		{name: "last wraps back to All", current: "Upcoming", want: listview.FilterAll},
		{name: "stale value resets to the first option", current: "Completed", want: "Claimable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cycleOption(tt.current, options); got != tt.want {
				t.Errorf("cycleOption(%q) = %q, want %q", tt.current, got, tt.want)
			}
		})
	}
}

func TestCycleOption_NoOptions(t *testing.T) {
	// An empty collection offers no values; cycling must settle on All
	// rather than inventing an option.
	if got := cycleOption("Farming", nil); got != listview.FilterAll {
		t.Errorf("cycleOption with no options = %q, want %q", got, listview.FilterAll)
	}
}

func TestCycleOption_FullCircle(t *testing.T) {
	options := []string{"a", "b", "c"}
	current := listview.FilterAll
	for i := 0; i < len(options); i++ {
		current = cycleOption(current, options)
		if current != options[i] {
			t.Fatalf("step %d = %q, want %q", i, current, options[i])
		}
	}
	if current = cycleOption(current, options); current != listview.FilterAll {
		t.Errorf("cycle did not return to %q, got %q", listview.FilterAll, current)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{in: "short", max: 10, want: "short"},
		{in: "exactly-ten", max: 11, want: "exactly-ten"},
		{in: "much too long for the column", max: 10, want: "much to..."},
		{in: "abc", max: 3, want: "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestStatusColor_CoversEveryStatus(t *testing.T) {
	statuses := []model.AirdropStatus{
		model.StatusFarming,
		model.StatusClaimable,
		model.StatusCompleted,
		model.StatusUpcoming,
	}
	fallback := statusColor("bogus")
	for _, s := range statuses {
		if statusColor(s) == fallback {
			t.Errorf("status %s renders with the fallback color", s)
		}
	}
}
