package resources

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// GeoDataClient queries a geodata service for points of interest around a
// center, restricted to the given categories.
type GeoDataClient interface {
	Query(ctx context.Context, center models.Coordinate, radiusMeters int, categories []models.Category) ([]models.RawPlace, error)
}

// Orchestrator decides where resource points come from for a given event
// state: the live geodata service in normal conditions, the pre-vetted
// curated set during an active flood.
type Orchestrator struct {
	client  GeoDataClient
	curated []models.ResourcePoint
}

func NewOrchestrator(client GeoDataClient, curated []models.ResourcePoint) *Orchestrator {
	return &Orchestrator{client: client, curated: curated}
}

// FetchResources returns the normalized resource points for the center,
// visibility and event. During a flood the live query is bypassed entirely
// and the curated dataset is returned. With no visible category no network
// call is made and the result is empty.
func (o *Orchestrator) FetchResources(ctx context.Context, center models.Coordinate, visibility models.CategoryVisibility, radiusMeters int, event models.EventState) ([]models.ResourcePoint, error) {
	if event == models.EventFlood {
		out := make([]models.ResourcePoint, len(o.curated))
		copy(out, o.curated)
		return out, nil
	}

	categories := visibility.Categories()
	if len(categories) == 0 {
		return []models.ResourcePoint{}, nil
	}

	raw, err := o.client.Query(ctx, center, radiusMeters, categories)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNetwork, err)
	}

	points := Normalize(raw)
	slog.Debug("fetched resources", "count", len(points), "categories", len(categories))
	return points, nil
}

// Normalize converts raw geodata results into resource points. The category
// is resolved once here, never re-inferred at render time.
func Normalize(raw []models.RawPlace) []models.ResourcePoint {
	points := make([]models.ResourcePoint, 0, len(raw))
	for _, r := range raw {
		name := r.Name
		if name == "" {
			name = "Unknown"
		}
		points = append(points, models.ResourcePoint{
			ID:        fmt.Sprintf("%s|%.7f|%.7f", name, r.Latitude, r.Longitude),
			Name:      name,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Category:  CategoryFromTags(r.Tags),
			RawTags:   r.Tags,
		})
	}
	return points
}

// CategoryFromTags resolves a closed category from raw geodata tags.
// Precedence: drinking water, pharmacy, shelter, supermarket, unknown.
func CategoryFromTags(tags map[string]string) models.Category {
	switch {
	case tags["amenity"] == "drinking_water":
		return models.CategoryDrinkingWater
	case tags["amenity"] == "pharmacy":
		return models.CategoryPharmacy
	case tags["shelter"] == "yes":
		return models.CategoryShelter
	case tags["shop"] == "supermarket":
		return models.CategoryFoodSupply
	default:
		return models.CategoryUnknown
	}
}

// CategoryFromName infers a category for curated dataset rows, which carry
// only a descriptive name. Unmatched names default to shelter.
func CategoryFromName(name string) models.Category {
	switch {
	case strings.Contains(name, "Drinking water"):
		return models.CategoryDrinkingWater
	case strings.Contains(name, "Food supply"):
		return models.CategoryFoodSupply
	default:
		return models.CategoryShelter
	}
}

// CuratedPoint builds a resource point from a curated dataset row.
func CuratedPoint(idx int, name string, coord models.Coordinate) models.ResourcePoint {
	return models.ResourcePoint{
		ID:        fmt.Sprintf("resource-%d", idx),
		Name:      name,
		Latitude:  coord.Latitude,
		Longitude: coord.Longitude,
		Category:  CategoryFromName(name),
	}
}
