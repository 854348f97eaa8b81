package guidance

import (
	"testing"

	"github.com/SanderSepp/omicron-app/internal/models"
)

func TestActiveKeys_EventAlwaysPresent(t *testing.T) {
	keys := ActiveKeys(models.EventFlood, models.UserProfile{})
	if len(keys) != 1 || keys[0] != "flood" {
		t.Fatalf("expected [flood], got %v", keys)
	}
}

func TestSelect_ProfileAttributePresence(t *testing.T) {
	profile := models.UserProfile{
		HasChildren: true,
		Medications: []string{},
		Allergies:   []string{"Peanuts"},
		Conditions:  []string{},
		Dependents:  0,
	}

	entries := Select(ActiveKeys(models.EventCalm, profile))

	got := make(map[string]bool, len(entries))
	for _, e := range entries {
		got[e.Category] = true
	}

	for _, want := range []string{"calm", "hasChildren", "allergies"} {
		if !got[want] {
			t.Errorf("expected entry for %q", want)
		}
	}
	for _, absent := range []string{"medications", "dependents", "conditions", "flood", "potentialFlooding"} {
		if got[absent] {
			t.Errorf("did not expect entry for %q", absent)
		}
	}
	if len(entries) != 3 {
		t.Errorf("expected exactly 3 entries, got %d", len(entries))
	}
}

func TestSelect_PreservesCorpusOrder(t *testing.T) {
	// Request keys in reverse of corpus order; output must follow the corpus.
	entries := Select([]string{"allergies", "hasChildren", "flood"})
	want := []string{"flood", "hasChildren", "allergies"}

	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i].Category != want[i] {
			t.Errorf("entry %d = %s, want %s", i, entries[i].Category, want[i])
		}
	}
}

func TestSelect_UnknownKeyIsNotAnError(t *testing.T) {
	entries := Select([]string{"earthQuake", "calm"})
	if len(entries) != 1 || entries[0].Category != "calm" {
		t.Fatalf("unknown key should contribute nothing: %+v", entries)
	}
}

func TestActiveKeys_CountedDependents(t *testing.T) {
	keys := ActiveKeys(models.EventCalm, models.UserProfile{Dependents: 2})
	found := false
	for _, k := range keys {
		if k == "dependents" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected dependents key, got %v", keys)
	}
}
