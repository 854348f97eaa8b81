package session

import (
	"errors"
	"sync"

	"github.com/SanderSepp/omicron-app/internal/models"
)

var ErrPlacementNotPermitted = errors.New("placement requires admin access")

// Selection tracks which resource point is open and where a new point is
// about to be placed. The two are mutually exclusive: setting one clears
// the other.
type Selection struct {
	mu       sync.Mutex
	admin    bool
	selected *models.ResourcePoint
	pending  *models.Coordinate
}

func NewSelection(admin bool) *Selection {
	return &Selection{admin: admin}
}

// SelectPoint opens a point and drops any pending placement.
func (s *Selection) SelectPoint(point models.ResourcePoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := point
	s.selected = &p
	s.pending = nil
}

// BeginPlacement marks where a new point will be created and closes any
// open point. Only admin sessions may place points.
func (s *Selection) BeginPlacement(coord models.Coordinate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.admin {
		return ErrPlacementNotPermitted
	}
	s.pending = &coord
	s.selected = nil
	return nil
}

func (s *Selection) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *Selection) ClearPlacement() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
}

// Selected returns the open point, or nil.
func (s *Selection) Selected() *models.ResourcePoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// PendingPlacement returns the placement coordinate, or nil.
func (s *Selection) PendingPlacement() *models.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
