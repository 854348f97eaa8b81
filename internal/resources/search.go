package resources

import (
	"strings"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// FilterBySearch keeps points whose name, description or address contains
// the term, case-insensitively. An empty term returns the input unchanged.
func FilterBySearch(points []models.ResourcePoint, term string) []models.ResourcePoint {
	if term == "" {
		return points
	}

	needle := strings.ToLower(term)
	matched := make([]models.ResourcePoint, 0, len(points))
	for _, p := range points {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) ||
			strings.Contains(strings.ToLower(p.Address), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}
