package route

import (
	"context"
	"log/slog"
	"sync"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Router resolves a walking route between two coordinates.
type Router interface {
	Route(ctx context.Context, origin, dest models.Coordinate) (*models.RouteInfo, error)
}

// Status describes the coordinator's current position in its lifecycle.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusRequesting Status = "requesting"
	StatusResolved   Status = "resolved"
)

// Coordinator keeps at most one route current for an origin/destination
// pair. Changing either side invalidates any in-flight request, so a late
// response can never overwrite a newer pairing.
type Coordinator struct {
	router Router

	mu     sync.Mutex
	token  uint64
	status Status
	origin *models.Coordinate
	dest   *models.ResourcePoint
	route  *models.RouteInfo

	wg sync.WaitGroup
}

func NewCoordinator(router Router) *Coordinator {
	return &Coordinator{
		router: router,
		status: StatusIdle,
	}
}

// SetOrigin records the user position and reevaluates the route.
func (c *Coordinator) SetOrigin(origin models.Coordinate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origin = &origin
	c.reevaluate()
}

// Select records the destination point and reevaluates the route.
func (c *Coordinator) Select(point models.ResourcePoint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := point
	c.dest = &p
	c.reevaluate()
}

// ClearSelection drops the destination and any route derived from it.
func (c *Coordinator) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dest = nil
	c.reevaluate()
}

// ClearOrigin drops the user position and any route derived from it.
func (c *Coordinator) ClearOrigin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origin = nil
	c.reevaluate()
}

// reevaluate is called with the lock held. It bumps the token so that any
// in-flight request becomes stale, then either clears the route immediately
// or launches a new request for the current pairing.
func (c *Coordinator) reevaluate() {
	c.token++

	if c.origin == nil || c.dest == nil {
		c.route = nil
		c.status = StatusIdle
		return
	}

	token := c.token
	origin := *c.origin
	dest := c.dest.Coordinate()

	c.route = nil
	c.status = StatusRequesting

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		route, err := c.router.Route(context.Background(), origin, dest)

		c.mu.Lock()
		defer c.mu.Unlock()
		if token != c.token {
			return
		}
		if err != nil {
			slog.Warn("route request failed", "error", err)
			c.route = nil
			c.status = StatusIdle
			return
		}
		c.route = route
		c.status = StatusResolved
	}()
}

// Snapshot returns the current status and route. The route is nil unless
// the status is resolved.
func (c *Coordinator) Snapshot() (Status, *models.RouteInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.route
}

// Destination returns the currently selected point, if any.
func (c *Coordinator) Destination() *models.ResourcePoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dest
}

// Wait blocks until all in-flight route requests have finished.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}
