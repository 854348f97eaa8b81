package resources

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/SanderSepp/omicron-app/internal/models"
)

var (
	ErrNameRequired      = errors.New("point name is required")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
)

// CustomStore holds operator-placed resource points for the lifetime of the
// process. They are merged into discovery results alongside queried points.
type CustomStore struct {
	mu     sync.RWMutex
	points []models.ResourcePoint
}

func NewCustomStore() *CustomStore {
	return &CustomStore{}
}

// Add validates and registers a placed point, returning it with its
// assigned ID.
func (s *CustomStore) Add(point models.ResourcePoint) (models.ResourcePoint, error) {
	if strings.TrimSpace(point.Name) == "" {
		return models.ResourcePoint{}, ErrNameRequired
	}
	if !point.Coordinate().Valid() {
		return models.ResourcePoint{}, ErrInvalidCoordinate
	}
	if point.Category == "" {
		point.Category = models.CategoryUnknown
	}

	point.ID = "custom-" + uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.points = append(s.points, point)
	return point, nil
}

// List returns a copy of all placed points.
func (s *CustomStore) List() []models.ResourcePoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ResourcePoint, len(s.points))
	copy(out, s.points)
	return out
}
