package guidance

// Entry is one guidance card: a category key and its advisory lines.
type Entry struct {
	Category   string   `json:"category"`
	Advisories []string `json:"advisories"`
}

// corpus is the static advisory text, keyed by event state or profile
// attribute. Order here is display order and never changes at runtime.
var corpus = []Entry{
	{
		Category: "calm",
		Advisories: []string{
			"Keep your emergency kit stocked: water, non-perishable food, flashlight and batteries.",
			"Know your nearest shelter, pharmacy and drinking water points before you need them.",
		},
	},
	{
		Category: "potentialFlooding",
		Advisories: []string{
			"Stay indoors and avoid contact with water - do not bathe or shower.",
			"Unplug electrical appliances and avoid using corded phones.",
			"Stay away from windows and glass doors - close curtains or blinds to reduce the risk of injury from shattered glass.",
			"Avoid open fields, hilltops, or any elevated area if you're caught outside.",
			"Do not shelter under trees - lightning strikes them often.",
			"Driving in your area is extremely dangerous: there are several reports of fallen trees on the road.",
			"If you hear thunder, lightning is close enough to strike - wait at least 30 minutes after the last clap of thunder before going outside.",
			"If you need urgent care please update your status on the app.",
		},
	},
	{
		Category: "flood",
		Advisories: []string{
			"Move to higher ground immediately and avoid low-lying areas.",
			"Do not walk, swim, or drive through floodwaters; just six inches of moving water can knock you down.",
			"Stay informed by listening to local weather updates and emergency instructions.",
			"Disconnect electrical appliances if instructed to evacuate.",
			"Avoid bridges over fast-moving water as they can be unstable.",
			"Seal off basement windows and doors if there's time.",
			"If trapped in a building, go to the highest level. Do not climb into a closed attic; you may become trapped by rising water.",
			"Do not return to the flooded area until authorities declare it safe.",
		},
	},
	{
		Category: "hasChildren",
		Advisories: []string{
			"Pack age-appropriate snacks, drinks, and any special formula or baby food.",
			"Include diapers, wipes, a change of clothes, and child-safe sunscreen/bug spray.",
			"Bring quiet toys, books, or a tablet with headphones for downtime.",
			"Confirm car-seat/stroller logistics before travelling to a shelter.",
			"Share your child's routine (nap/meal times) with any caregiver or host.",
		},
	},
	{
		Category: "medications",
		Advisories: []string{
			"List every daily prescription and OTC medication you take, with dosage times.",
			"Store a 1-2 day buffer supply plus printed prescriptions or doctor's note.",
			"Use alarms or an app to remind you at each dosing time.",
			"Check storage needs (refrigeration, light sensitivity) and pack accordingly.",
			"Verify you have backup gear (e.g., inhaler, glucose meter) if needed.",
		},
	},
	{
		Category: "allergies",
		Advisories: []string{
			"Review and confirm your list of allergens (e.g., nuts, shellfish, pollen).",
			"Pack safe snacks/meals that you know are free from your allergens.",
			"Always carry at least two doses of your emergency medication (epi-pen, antihistamine).",
			"Set a phone reminder to check labels whenever you're offered new food.",
			"Ensure shelter staff or hosts are aware of your allergy profile in advance.",
		},
	},
	{
		Category: "conditions",
		Advisories: []string{
			"Carry a written summary of your conditions and treatments for first responders.",
			"Keep condition-specific equipment charged and within reach.",
			"Tell shelter staff about any condition that limits mobility or diet.",
		},
	},
	{
		Category: "dependents",
		Advisories: []string{
			"Plan evacuation with the people who depend on you; agree a meeting point.",
			"Keep copies of dependents' documents and medication lists in your kit.",
			"Identify who can take over care duties if you are separated.",
		},
	},
}

// Corpus returns the full guidance corpus in display order.
func Corpus() []Entry {
	out := make([]Entry, len(corpus))
	copy(out, corpus)
	return out
}
