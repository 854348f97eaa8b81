package guidance

import "github.com/SanderSepp/omicron-app/internal/models"

// ActiveKeys derives the guidance lookup keys for an event and a profile.
// The event always contributes its own key; a profile attribute contributes
// when it is present (true boolean, non-empty list, non-zero count).
func ActiveKeys(event models.EventState, profile models.UserProfile) []string {
	keys := []string{string(event)}
	if profile.HasChildren {
		keys = append(keys, "hasChildren")
	}
	if len(profile.Medications) > 0 {
		keys = append(keys, "medications")
	}
	if len(profile.Conditions) > 0 {
		keys = append(keys, "conditions")
	}
	if profile.Dependents > 0 {
		keys = append(keys, "dependents")
	}
	if len(profile.Allergies) > 0 {
		keys = append(keys, "allergies")
	}
	return keys
}

// Select returns every corpus entry whose category is in keys, preserving
// corpus order. Keys with no corpus entry contribute nothing.
func Select(keys []string) []Entry {
	active := make(map[string]bool, len(keys))
	for _, k := range keys {
		active[k] = true
	}

	var out []Entry
	for _, e := range corpus {
		if active[e.Category] {
			out = append(out, e)
		}
	}
	return out
}
