package geo

import (
	"fmt"
	"math"

	"github.com/SanderSepp/omicron-app/internal/models"
)

const earthRadiusKm = 6371

// DistanceKm returns the great-circle distance between two coordinates in
// kilometers, rounded to two decimal places. Identical points yield 0.
func DistanceKm(a, b models.Coordinate) float64 {
	if a.Latitude == b.Latitude && a.Longitude == b.Longitude {
		return 0
	}

	dLat := deg2rad(b.Latitude - a.Latitude)
	dLon := deg2rad(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(a.Latitude))*math.Cos(deg2rad(b.Latitude))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(earthRadiusKm*c*100) / 100
}

// FormatCoordinates renders a coordinate pair as "lat, lng" with four
// decimal places.
func FormatCoordinates(lat, lng float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lng)
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
