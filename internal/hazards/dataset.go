package hazards

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// NamedPoint is a curated resource location from the static point dataset.
type NamedPoint struct {
	Name       string
	Coordinate models.Coordinate
}

// Polygon is a named hazard area.
type Polygon struct {
	Name   string              `json:"name"`
	Coords []models.Coordinate `json:"coords"`
}

// Set holds all static hazard and resource datasets, loaded once per process.
type Set struct {
	Flooded        []Polygon
	PotentialFlood []Polygon
	General        []Polygon
	FloodResources []NamedPoint
}

// Load reads the four static datasets. A missing or unreadable file is a
// startup error; malformed rows inside a file are skipped.
func Load(floodedCSV, potentialCSV, resourcesCSV, generalGeoJSON string) (*Set, error) {
	flooded, err := LoadPolygonCSV(floodedCSV)
	if err != nil {
		return nil, fmt.Errorf("flooded areas: %w", err)
	}
	potential, err := LoadPolygonCSV(potentialCSV)
	if err != nil {
		return nil, fmt.Errorf("potential flood areas: %w", err)
	}
	resources, err := LoadPointCSV(resourcesCSV)
	if err != nil {
		return nil, fmt.Errorf("flood resources: %w", err)
	}
	general, err := LoadGeoJSON(generalGeoJSON)
	if err != nil {
		return nil, fmt.Errorf("general flood layer: %w", err)
	}

	return &Set{
		Flooded:        flooded,
		PotentialFlood: potential,
		General:        general,
		FloodResources: resources,
	}, nil
}

// OverlaysFor returns the hazard polygons to draw for an event state.
func (s *Set) OverlaysFor(event models.EventState) []Polygon {
	switch event {
	case models.EventFlood:
		out := make([]Polygon, 0, len(s.Flooded)+len(s.General))
		out = append(out, s.Flooded...)
		out = append(out, s.General...)
		return out
	case models.EventPotentialFlooding:
		out := make([]Polygon, len(s.PotentialFlood))
		copy(out, s.PotentialFlood)
		return out
	default:
		return []Polygon{}
	}
}

// LoadPolygonCSV parses a "WKT,name" CSV of POLYGON rows. Rows that fail to
// parse are skipped so one bad export line cannot take the dataset down.
func LoadPolygonCSV(path string) ([]Polygon, error) {
	rows, err := readWKTRows(path)
	if err != nil {
		return nil, err
	}

	polygons := make([]Polygon, 0, len(rows))
	for _, row := range rows {
		g, err := wkt.Unmarshal(row.wkt)
		if err != nil {
			slog.Warn("skipping malformed polygon row", "file", path, "name", row.name, "error", err)
			continue
		}
		poly, ok := g.(*geom.Polygon)
		if !ok {
			slog.Warn("skipping non-polygon row", "file", path, "name", row.name)
			continue
		}
		polygons = append(polygons, Polygon{Name: row.name, Coords: ringCoords(poly)})
	}
	return polygons, nil
}

// LoadPointCSV parses a "WKT,name" CSV of POINT rows.
func LoadPointCSV(path string) ([]NamedPoint, error) {
	rows, err := readWKTRows(path)
	if err != nil {
		return nil, err
	}

	points := make([]NamedPoint, 0, len(rows))
	for _, row := range rows {
		g, err := wkt.Unmarshal(row.wkt)
		if err != nil {
			slog.Warn("skipping malformed point row", "file", path, "name", row.name, "error", err)
			continue
		}
		pt, ok := g.(*geom.Point)
		if !ok {
			slog.Warn("skipping non-point row", "file", path, "name", row.name)
			continue
		}
		// WKT carries lng lat ordering.
		coord, err := models.NewCoordinate(pt.Y(), pt.X())
		if err != nil {
			slog.Warn("skipping out-of-range point row", "file", path, "name", row.name, "error", err)
			continue
		}
		points = append(points, NamedPoint{Name: row.name, Coordinate: coord})
	}
	return points, nil
}

// LoadGeoJSON parses Polygon and MultiPolygon features from a GeoJSON
// feature collection, outer rings only.
func LoadGeoJSON(path string) ([]Polygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrMalformedData, err)
	}

	var polygons []Polygon
	for i, f := range fc.Features {
		name := featureName(f, i)
		switch g := f.Geometry.(type) {
		case *geom.Polygon:
			polygons = append(polygons, Polygon{Name: name, Coords: ringCoords(g)})
		case *geom.MultiPolygon:
			for j := 0; j < g.NumPolygons(); j++ {
				polygons = append(polygons, Polygon{
					Name:   fmt.Sprintf("%s/%d", name, j),
					Coords: ringCoords(g.Polygon(j)),
				})
			}
		default:
			slog.Warn("skipping unsupported geojson geometry", "file", path, "feature", name)
		}
	}
	return polygons, nil
}

type wktRow struct {
	wkt  string
	name string
}

func readWKTRows(path string) ([]wktRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows []wktRow
	first := true
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable csv row", "file", path, "error", err)
			continue
		}
		if first {
			first = false
			// Header row.
			if len(record) > 0 && record[0] == "WKT" {
				continue
			}
		}
		if len(record) < 2 {
			slog.Warn("skipping short csv row", "file", path)
			continue
		}
		rows = append(rows, wktRow{wkt: record[0], name: record[1]})
	}
	return rows, nil
}

func ringCoords(poly *geom.Polygon) []models.Coordinate {
	if poly.NumLinearRings() == 0 {
		return nil
	}
	ring := poly.LinearRing(0).Coords()
	coords := make([]models.Coordinate, 0, len(ring))
	for _, c := range ring {
		coords = append(coords, models.Coordinate{Latitude: c.Y(), Longitude: c.X()})
	}
	return coords
}

func featureName(f *geojson.Feature, idx int) string {
	if f.Properties != nil {
		if v, ok := f.Properties["name"].(string); ok && v != "" {
			return v
		}
	}
	return fmt.Sprintf("area-%d", idx)
}
