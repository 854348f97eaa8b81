package api

import (
	"github.com/SanderSepp/omicron-app/internal/hazards"
	"github.com/SanderSepp/omicron-app/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

func pointsToGeoJSON(points []models.ResourcePoint) FeatureCollection {
	features := make([]Feature, 0, len(points))

	for _, p := range points {
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{p.Longitude, p.Latitude},
			},
			Properties: map[string]any{
				"id":           p.ID,
				"name":         p.Name,
				"description":  p.Description,
				"address":      p.Address,
				"instructions": p.Instructions,
				"category":     string(p.Category),
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func overlaysToGeoJSON(overlays []hazards.Polygon) FeatureCollection {
	features := make([]Feature, 0, len(overlays))

	for _, poly := range overlays {
		ring := make([][]float64, 0, len(poly.Coords))
		for _, c := range poly.Coords {
			ring = append(ring, []float64{c.Longitude, c.Latitude})
		}
		f := Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Polygon",
				Coordinates: [][][]float64{ring},
			},
			Properties: map[string]any{
				"name": poly.Name,
			},
		}
		features = append(features, f)
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}
