package models

import (
	"fmt"
	"time"
)

type Category string

const (
	CategoryDrinkingWater Category = "drinking_water"
	CategoryShelter       Category = "shelter"
	CategoryFoodSupply    Category = "food_supply"
	CategoryPharmacy      Category = "pharmacy"
	CategoryUnknown       Category = "unknown"
)

type EventState string

const (
	EventCalm              EventState = "calm"
	EventPotentialFlooding EventState = "potentialFlooding"
	EventFlood             EventState = "flood"
)

func ParseEventState(s string) (EventState, error) {
	switch EventState(s) {
	case EventCalm, EventPotentialFlooding, EventFlood:
		return EventState(s), nil
	default:
		return "", fmt.Errorf("unknown event state: %q", s)
	}
}

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func NewCoordinate(lat, lng float64) (Coordinate, error) {
	c := Coordinate{Latitude: lat, Longitude: lng}
	if !c.Valid() {
		return Coordinate{}, fmt.Errorf("coordinate out of range: %f, %f", lat, lng)
	}
	return c, nil
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// RawPlace is a geodata query result before normalization.
type RawPlace struct {
	Name      string
	Latitude  float64
	Longitude float64
	Tags      map[string]string
}

type ResourcePoint struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Latitude     float64           `json:"latitude"`
	Longitude    float64           `json:"longitude"`
	Address      string            `json:"address,omitempty"`
	Instructions string            `json:"instructions,omitempty"`
	Category     Category          `json:"category"`
	RawTags      map[string]string `json:"tags,omitempty"`
}

func (p ResourcePoint) Coordinate() Coordinate {
	return Coordinate{Latitude: p.Latitude, Longitude: p.Longitude}
}

type CategoryVisibility struct {
	Water    bool `json:"water"`
	Shelter  bool `json:"shelter"`
	Food     bool `json:"food"`
	Pharmacy bool `json:"pharmacy"`
}

func (v CategoryVisibility) Any() bool {
	return v.Water || v.Shelter || v.Food || v.Pharmacy
}

// Categories returns the visible categories in a fixed order.
func (v CategoryVisibility) Categories() []Category {
	var cats []Category
	if v.Water {
		cats = append(cats, CategoryDrinkingWater)
	}
	if v.Shelter {
		cats = append(cats, CategoryShelter)
	}
	if v.Food {
		cats = append(cats, CategoryFoodSupply)
	}
	if v.Pharmacy {
		cats = append(cats, CategoryPharmacy)
	}
	return cats
}

type RouteInfo struct {
	DistanceText     string   `json:"distance"`
	DurationText     string   `json:"duration"`
	TurnInstructions []string `json:"instructions"`
}

type WeatherReport struct {
	TemperatureC float64   `json:"temperature_c"`
	Description  string    `json:"description"`
	HumidityPct  int       `json:"humidity_pct"`
	ObservedAt   time.Time `json:"observed_at"`
}
