package resources

import (
	"sort"

	"github.com/SanderSepp/omicron-app/internal/geo"
	"github.com/SanderSepp/omicron-app/internal/models"
)

// SortByDistance returns the points ordered by great-circle distance from
// origin, nearest first. Ties keep their original relative order so repeated
// renders with unchanged distances do not shuffle. A nil origin returns the
// input untouched.
func SortByDistance(points []models.ResourcePoint, origin *models.Coordinate) []models.ResourcePoint {
	if origin == nil {
		return points
	}

	sorted := make([]models.ResourcePoint, len(points))
	copy(sorted, points)

	sort.SliceStable(sorted, func(i, j int) bool {
		di := geo.DistanceKm(*origin, sorted[i].Coordinate())
		dj := geo.DistanceKm(*origin, sorted[j].Coordinate())
		return di < dj
	})

	return sorted
}
