package listview

import (
	"testing"

	"github.com/sakif/droplog/internal/model"
)

func sampleAirdrops() []model.Airdrop {
	return []model.Airdrop{
		{ID: "a1", Name: "LayerDrop", Description: "bridge and farm", Ecosystem: "Ethereum", Type: "Testnet", Status: model.StatusFarming, Tags: []string{"defi", "layer2"}},
		{ID: "a2", Name: "ZetaFi", Description: "staking rewards", Ecosystem: "Ethereum", Type: "Mainnet", Status: model.StatusClaimable, Tags: []string{"defi"}},
		{ID: "a3", Name: "SolQuest", Description: "daily quests", Ecosystem: "Solana", Type: "Testnet", Status: model.StatusFarming, Tags: []string{"gaming"}},
		{ID: "a4", Name: "NightOwl", Description: "NFT mint list", Ecosystem: "Berachain", Type: "NFT", Status: model.StatusUpcoming, Tags: []string{}},
	}
}

func idsOf(in []model.Airdrop) []string {
	out := make([]string, len(in))
	for i, a := range in {
		out[i] = a.ID
	}
	return out
}

func TestAirdropFilter_ZeroValueMatchesEverything(t *testing.T) {
	loaded := sampleAirdrops()
	got := AirdropFilter{}.Apply(loaded)
	if len(got) != len(loaded) {
		t.Errorf("zero filter kept %d of %d items", len(got), len(loaded))
	}
}

func TestAirdropFilter_SearchIsCaseInsensitive(t *testing.T) {
	got := AirdropFilter{Search: "LAYERDROP"}.Apply(sampleAirdrops())
	if len(got) != 1 || got[0].ID != "a1" {
		t.Errorf("Apply() = %v, want [a1]", idsOf(got))
	}

	// Search also covers the description field.
	got = AirdropFilter{Search: "staking"}.Apply(sampleAirdrops())
	if len(got) != 1 || got[0].ID != "a2" {
		t.Errorf("Apply() = %v, want [a2]", idsOf(got))
	}
}

func TestAirdropFilter_AllSentinelConstrainsNothing(t *testing.T) {
	f := AirdropFilter{Status: FilterAll, Ecosystem: FilterAll, Type: FilterAll}
	got := f.Apply(sampleAirdrops())
	if len(got) != 4 {
		t.Errorf(`"All" filters kept %d of 4 items`, len(got))
	}
}

func TestAirdropFilter_ConjunctiveComposition(t *testing.T) {
	// Every active criterion must hold simultaneously.
	f := AirdropFilter{
		Search:    "e",
		Status:    string(model.StatusFarming),
		Ecosystem: "Ethereum",
		Type:      "Testnet",
		Tags:      []string{"layer2"},
	}
	got := f.Apply(sampleAirdrops())
	if len(got) != 1 || got[0].ID != "a1" {
		t.Fatalf("Apply() = %v, want [a1]", idsOf(got))
	}

	// Tightening any one criterion to a non-match empties the result.
	broken := f
	broken.Ecosystem = "Solana"
	if got := broken.Apply(sampleAirdrops()); len(got) != 0 {
		t.Errorf("AND composition violated: %v", idsOf(got))
	}
}

func TestAirdropFilter_FilteredIsSubsetAndAllMatch(t *testing.T) {
	loaded := sampleAirdrops()
	filters := []AirdropFilter{
		{Search: "drop"},
		{Status: string(model.StatusFarming)},
		{Ecosystem: "Ethereum", Tags: []string{"defi"}},
		{Type: "Testnet", Search: "quest"},
	}

	byID := map[string]bool{}
	for _, a := range loaded {
		byID[a.ID] = true
	}

	for _, f := range filters {
		for _, item := range f.Apply(loaded) {
			if !byID[item.ID] {
				t.Errorf("filtered item %s is not in the loaded collection", item.ID)
			}
			if !f.Match(&item) {
				t.Errorf("filtered item %s does not satisfy the filter %+v", item.ID, f)
			}
		}
	}
}

func TestAirdropFilter_EmptyTagSelectionIsNoConstraint(t *testing.T) {
	got := AirdropFilter{Tags: []string{}}.Apply(sampleAirdrops())
	if len(got) != 4 {
		t.Errorf("empty tag selection kept %d of 4", len(got))
	}
}

func TestAirdropFilter_TagIntersection(t *testing.T) {
	// An item passes when it carries AT LEAST ONE selected tag.
	got := AirdropFilter{Tags: []string{"gaming", "layer2"}}.Apply(sampleAirdrops())
	if len(got) != 2 {
		t.Fatalf("Apply() = %v, want [a1 a3]", idsOf(got))
	}
}

func TestAirdropFilter_ApplyOnEmptyCollection(t *testing.T) {
	got := AirdropFilter{Search: "anything"}.Apply([]model.Airdrop{})
	if got == nil {
		t.Fatal("Apply() returned nil, want empty slice; empty state, not an error")
	}
	if len(got) != 0 {
		t.Errorf("Apply() on empty collection returned %d items", len(got))
	}
}

func TestDistinctValues_DerivedFromLoadedCollection(t *testing.T) {
	loaded := sampleAirdrops()

	ecosystems := Ecosystems(loaded)
	want := []string{"Berachain", "Ethereum", "Solana"}
	if len(ecosystems) != len(want) {
		t.Fatalf("Ecosystems() = %v, want %v", ecosystems, want)
	}
	for i := range want {
		if ecosystems[i] != want[i] {
			t.Errorf("Ecosystems()[%d] = %q, want %q (sorted, deduped)", i, ecosystems[i], want[i])
		}
	}

	// Remove every Solana airdrop: "Solana" must vanish from the options.
	noSolana := loaded[:2]
	for _, e := range Ecosystems(noSolana) {
		if e == "Solana" {
			t.Error("Ecosystems() offered a value with no matching loaded airdrop")
		}
	}
}

func TestTaskFilter(t *testing.T) {
	tasks := []model.Task{
		{ID: "t1", Title: "Claim LayerDrop", Project: "LayerDrop", Category: "claim", IsDaily: true, Completed: false, Priority: model.PriorityHigh},
		{ID: "t2", Title: "Bridge funds", Project: "ZetaFi", Category: "onchain", IsDaily: false, Completed: true, Priority: model.PriorityLow},
		{ID: "t3", Title: "Daily check-in", Project: "SolQuest", Category: "social", IsDaily: true, Completed: true, Priority: model.PriorityMedium},
	}

	tests := []struct {
		name   string
		filter TaskFilter
		want   []string
	}{
		{name: "no constraint", filter: TaskFilter{}, want: []string{"t1", "t2", "t3"}},
		{name: "daily only", filter: TaskFilter{DailyOnly: true}, want: []string{"t1", "t3"}},
		{name: "hide completed", filter: TaskFilter{HideCompleted: true}, want: []string{"t1"}},
		{name: "search on project", filter: TaskFilter{Search: "zetafi"}, want: []string{"t2"}},
		{name: "category", filter: TaskFilter{Category: "social"}, want: []string{"t3"}},
		{name: "priority", filter: TaskFilter{Priority: string(model.PriorityHigh)}, want: []string{"t1"}},
		{name: "conjunction empties", filter: TaskFilter{DailyOnly: true, Category: "onchain"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(tasks)
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() kept %d items, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i].ID != tt.want[i] {
					t.Errorf("Apply()[%d] = %s, want %s", i, got[i].ID, tt.want[i])
				}
			}
		})
	}
}
