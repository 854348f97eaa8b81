package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SanderSepp/omicron-app/internal/models"
	"github.com/SanderSepp/omicron-app/internal/resources"
	"github.com/SanderSepp/omicron-app/internal/route"
)

// Session holds one client's view state: which categories are visible,
// which point is open, where the user is, and the route being tracked.
type Session struct {
	ID        string
	Admin     bool
	Selection *Selection
	Route     *route.Coordinator
	Filter    *resources.FilterState

	mu       sync.Mutex
	origin   *models.Coordinate
	lastSeen time.Time
}

// Touch marks the session as recently used.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
}

func (s *Session) seen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// SetOrigin records the user position and feeds it to the route coordinator.
func (s *Session) SetOrigin(origin models.Coordinate) {
	s.mu.Lock()
	s.origin = &origin
	s.mu.Unlock()
	s.Route.SetOrigin(origin)
}

// Origin returns the user position, or nil when none has been reported.
func (s *Session) Origin() *models.Coordinate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.origin
}

// SelectPoint opens a point and starts routing toward it.
func (s *Session) SelectPoint(point models.ResourcePoint) {
	s.Selection.SelectPoint(point)
	s.Route.Select(point)
}

// ClearSelection closes the open point and drops its route.
func (s *Session) ClearSelection() {
	s.Selection.ClearSelection()
	s.Route.ClearSelection()
}

// BeginPlacement starts placing a new point; the open point and its route
// go away because the two modes are exclusive.
func (s *Session) BeginPlacement(coord models.Coordinate) error {
	if err := s.Selection.BeginPlacement(coord); err != nil {
		return err
	}
	s.Route.ClearSelection()
	return nil
}

// Manager owns all live sessions and expires the ones that have gone
// quiet.
type Manager struct {
	router route.Router
	ttl    time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
	event    models.EventState

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewManager(router route.Router, ttl time.Duration, event models.EventState) *Manager {
	return &Manager{
		router:   router,
		ttl:      ttl,
		sessions: make(map[string]*Session),
		event:    event,
	}
}

// Create registers a new session seeded with the current event's category
// defaults.
func (m *Manager) Create(admin bool) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:        uuid.New().String(),
		Admin:     admin,
		Selection: NewSelection(admin),
		Route:     route.NewCoordinator(m.router),
		Filter:    resources.NewFilterState(m.event),
		lastSeen:  time.Now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the session and marks it as seen.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		s.Touch()
	}
	return s, ok
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// SetEvent fans the new event state out to every session's filter, which
// resets per-session category overrides.
func (m *Manager) SetEvent(event models.EventState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.event = event
	for _, s := range m.sessions {
		s.Filter.SetEvent(event)
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Start launches the background sweep that expires idle sessions.
func (m *Manager) Start(ctx context.Context, interval time.Duration) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Sweep removes sessions idle for longer than the ttl.
func (m *Manager) Sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.sessions {
		if s.seen().Before(cutoff) {
			delete(m.sessions, id)
			slog.Debug("expired idle session", "session_id", id)
		}
	}
}

// Stop halts the sweep loop and waits for in-flight route requests.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()

	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.sessions {
		s.Route.Wait()
	}
}
