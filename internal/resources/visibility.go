package resources

import (
	"sync"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// EventDefaults returns the category visibility an event state imposes when
// no manual selection is active. During active flooding only shelters are
// shown; during a flood warning shelters are hidden so users stock up at
// still-open resources first.
func EventDefaults(event models.EventState) models.CategoryVisibility {
	switch event {
	case models.EventFlood:
		return models.CategoryVisibility{Shelter: true}
	case models.EventPotentialFlooding:
		return models.CategoryVisibility{Water: true, Food: true, Pharmacy: true}
	default:
		return AllVisible()
	}
}

func AllVisible() models.CategoryVisibility {
	return models.CategoryVisibility{Water: true, Shelter: true, Food: true, Pharmacy: true}
}

// ToggleVisibility returns the visibility for a single-select category
// action: activating one category deactivates the other three.
func ToggleVisibility(c models.Category) models.CategoryVisibility {
	switch c {
	case models.CategoryDrinkingWater:
		return models.CategoryVisibility{Water: true}
	case models.CategoryShelter:
		return models.CategoryVisibility{Shelter: true}
	case models.CategoryFoodSupply:
		return models.CategoryVisibility{Food: true}
	case models.CategoryPharmacy:
		return models.CategoryVisibility{Pharmacy: true}
	default:
		return models.CategoryVisibility{}
	}
}

// FilterState tracks one view's category menu. A manual selection wins over
// the event defaults until the next event transition, which overwrites all
// four flags atomically.
type FilterState struct {
	mu       sync.Mutex
	event    models.EventState
	override *models.CategoryVisibility
}

func NewFilterState(event models.EventState) *FilterState {
	return &FilterState{event: event}
}

// SetEvent applies an event transition. Any manual override is discarded.
func (f *FilterState) SetEvent(event models.EventState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if event == f.event {
		return
	}
	f.event = event
	f.override = nil
}

// ToggleCategory records a single-select manual action.
func (f *FilterState) ToggleCategory(c models.Category) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := ToggleVisibility(c)
	f.override = &v
}

// ShowAll records the explicit "All" action, which sets all four flags.
func (f *FilterState) ShowAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := AllVisible()
	f.override = &v
}

func (f *FilterState) Visibility() models.CategoryVisibility {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.override != nil {
		return *f.override
	}
	return EventDefaults(f.event)
}
