package models

type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

type UserProfile struct {
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Dependents       int              `json:"dependents"`
	HasChildren      bool             `json:"hasChildren"`
	Medications      []string         `json:"medications"`
	Allergies        []string         `json:"allergies"`
	Conditions       []string         `json:"conditions"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

// presets is the fixed catalog users pick their active profile from.
// The first entry is the default for fresh installs.
var presets = []UserProfile{
	{
		Name:        "Jane Doe",
		Age:         34,
		Dependents:  2,
		HasChildren: true,
		Medications: []string{"Ibuprofen", "Metformin"},
		Allergies:   []string{"Peanuts", "Penicillin"},
		Conditions:  []string{"Hypertension", "Asthma"},
		EmergencyContact: EmergencyContact{
			Name: "John Doe", Relation: "Husband", Phone: "+123456789",
		},
	},
	{
		Name:        "John Doe",
		Age:         37,
		HasChildren: true,
		Medications: []string{},
		Allergies:   []string{},
		Conditions:  []string{},
		EmergencyContact: EmergencyContact{
			Name: "Jane Doe", Relation: "Wife", Phone: "+123456780",
		},
	},
	{
		Name:        "Mari Tamm",
		Age:         68,
		Medications: []string{"Warfarin"},
		Allergies:   []string{},
		Conditions:  []string{"Atrial fibrillation"},
		EmergencyContact: EmergencyContact{
			Name: "Kati Tamm", Relation: "Daughter", Phone: "+372555001",
		},
	},
	{
		Name:        "Andres Kask",
		Age:         42,
		Dependents:  1,
		Medications: []string{},
		Allergies:   []string{"Bee stings"},
		Conditions:  []string{},
		EmergencyContact: EmergencyContact{
			Name: "Liis Kask", Relation: "Sister", Phone: "+372555002",
		},
	},
	{
		Name:        "Elena Garcia",
		Age:         29,
		Medications: []string{},
		Allergies:   []string{},
		Conditions:  []string{},
		EmergencyContact: EmergencyContact{
			Name: "Marta Garcia", Relation: "Mother", Phone: "+34600111222",
		},
	},
	{
		Name:        "Tomas Ruiz",
		Age:         51,
		Dependents:  3,
		HasChildren: true,
		Medications: []string{"Insulin"},
		Allergies:   []string{},
		Conditions:  []string{"Type 2 diabetes"},
		EmergencyContact: EmergencyContact{
			Name: "Ana Ruiz", Relation: "Wife", Phone: "+34600333444",
		},
	},
	{
		Name:        "Sofia Petrova",
		Age:         24,
		Medications: []string{},
		Allergies:   []string{"Lactose", "Gluten"},
		Conditions:  []string{},
		EmergencyContact: EmergencyContact{
			Name: "Ivan Petrov", Relation: "Father", Phone: "+372555003",
		},
	},
	{
		Name:        "Karl Saar",
		Age:         77,
		Medications: []string{"Lisinopril", "Atorvastatin"},
		Allergies:   []string{},
		Conditions:  []string{"Hypertension", "COPD"},
		EmergencyContact: EmergencyContact{
			Name: "Piret Saar", Relation: "Neighbour", Phone: "+372555004",
		},
	},
}

func Presets() []UserProfile {
	out := make([]UserProfile, len(presets))
	copy(out, presets)
	return out
}

func DefaultProfile() UserProfile {
	return presets[0]
}

func PresetByName(name string) (UserProfile, bool) {
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return UserProfile{}, false
}
