package session

import (
	"errors"
	"testing"

	"github.com/SanderSepp/omicron-app/internal/models"
)

func testPoint(id string) models.ResourcePoint {
	return models.ResourcePoint{ID: id, Name: id, Latitude: 59.44, Longitude: 24.75}
}

var placementCoord = models.Coordinate{Latitude: 59.43, Longitude: 24.74}

func TestSelectionAndPlacementAreMutuallyExclusive(t *testing.T) {
	s := NewSelection(true)

	s.SelectPoint(testPoint("a"))
	if s.Selected() == nil || s.PendingPlacement() != nil {
		t.Fatal("expected a selected point and no pending placement")
	}

	if err := s.BeginPlacement(placementCoord); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	if s.Selected() != nil {
		t.Error("beginning placement must close the open point")
	}
	if got := s.PendingPlacement(); got == nil || *got != placementCoord {
		t.Errorf("expected pending placement %+v, got %+v", placementCoord, got)
	}

	s.SelectPoint(testPoint("b"))
	if s.PendingPlacement() != nil {
		t.Error("selecting a point must drop the pending placement")
	}
	if got := s.Selected(); got == nil || got.ID != "b" {
		t.Errorf("expected point b selected, got %+v", got)
	}
}

func TestSelectionPlacementRequiresAdmin(t *testing.T) {
	s := NewSelection(false)

	err := s.BeginPlacement(placementCoord)
	if !errors.Is(err, ErrPlacementNotPermitted) {
		t.Fatalf("expected ErrPlacementNotPermitted, got %v", err)
	}
	if s.PendingPlacement() != nil {
		t.Error("placement must not start for non-admin sessions")
	}

	// A denied placement attempt must not disturb an open point.
	s.SelectPoint(testPoint("a"))
	_ = s.BeginPlacement(placementCoord)
	if s.Selected() == nil {
		t.Error("denied placement must keep the selected point")
	}
}

func TestSelectionClearsAreIdempotent(t *testing.T) {
	s := NewSelection(true)

	s.ClearSelection()
	s.ClearPlacement()

	s.SelectPoint(testPoint("a"))
	s.ClearSelection()
	s.ClearSelection()
	if s.Selected() != nil {
		t.Error("expected no selection after clear")
	}

	if err := s.BeginPlacement(placementCoord); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	s.ClearPlacement()
	s.ClearPlacement()
	if s.PendingPlacement() != nil {
		t.Error("expected no pending placement after clear")
	}
}

func TestSelectionInvariantUnderCallSequences(t *testing.T) {
	s := NewSelection(true)

	check := func(step string) {
		t.Helper()
		if s.Selected() != nil && s.PendingPlacement() != nil {
			t.Fatalf("%s: both selection and placement set", step)
		}
	}

	s.SelectPoint(testPoint("a"))
	check("select a")
	_ = s.BeginPlacement(placementCoord)
	check("begin placement")
	s.SelectPoint(testPoint("b"))
	check("select b")
	s.ClearSelection()
	check("clear selection")
	_ = s.BeginPlacement(placementCoord)
	check("begin placement again")
	s.ClearPlacement()
	check("clear placement")
}
