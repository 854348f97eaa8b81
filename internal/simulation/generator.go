package simulation

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SanderSepp/omicron-app/internal/models"
	"github.com/SanderSepp/omicron-app/internal/worker"
)

// HelpRequest is a citizen call for assistance shown to responders.
type HelpRequest struct {
	ID        string    `json:"id"`
	HelpType  string    `json:"helpType"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	CreatedAt time.Time `json:"createdAt"`
}

var helpTypes = []string{
	"need water",
	"need medicine",
	"need food",
	"need shelter",
}

// Tallinn city bounds for generated positions.
const (
	minLat = 59.39
	maxLat = 59.47
	minLng = 24.62
	maxLng = 24.85
)

// Generator fabricates help requests on an interval and keeps the newest
// ones, newest first.
type Generator struct {
	pool     *worker.Pool
	interval time.Duration
	maxLive  int
	ttl      time.Duration
	rng      *rand.Rand

	mu       sync.Mutex
	requests []HelpRequest

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewGenerator(pool *worker.Pool, interval, ttl time.Duration, maxLive int) *Generator {
	return &Generator{
		pool:     pool,
		interval: interval,
		maxLive:  maxLive,
		ttl:      ttl,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Generator) Start(ctx context.Context) {
	ctx, g.cancel = context.WithCancel(ctx)
	g.wg.Add(1)
	go g.run(ctx)
}

func (g *Generator) run(ctx context.Context) {
	defer g.wg.Done()
	slog.Info("starting help request generator", "interval", g.interval)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	g.emit()

	for {
		select {
		case <-ctx.Done():
			slog.Info("help request generator shutting down")
			return
		case <-ticker.C:
			g.emit()
		}
	}
}

// emit fabricates one request and hands it to the pool, so recording goes
// through the same path real submissions would.
func (g *Generator) emit() {
	g.mu.Lock()
	req := HelpRequest{
		ID:        uuid.New().String(),
		HelpType:  helpTypes[g.rng.Intn(len(helpTypes))],
		Latitude:  minLat + g.rng.Float64()*(maxLat-minLat),
		Longitude: minLng + g.rng.Float64()*(maxLng-minLng),
		CreatedAt: time.Now(),
	}
	g.mu.Unlock()

	g.pool.Submit(func(ctx context.Context) error {
		g.record(req)
		return nil
	})
}

// record prepends the request and drops the oldest beyond the cap.
func (g *Generator) record(req HelpRequest) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.requests = append([]HelpRequest{req}, g.requests...)
	if len(g.requests) > g.maxLive {
		g.requests = g.requests[:g.maxLive]
	}
	slog.Debug("recorded help request", "id", req.ID, "type", req.HelpType)
}

// List returns live requests, newest first. Requests older than the ttl
// are dropped on read.
func (g *Generator) List() []HelpRequest {
	cutoff := time.Now().Add(-g.ttl)

	g.mu.Lock()
	defer g.mu.Unlock()

	live := g.requests[:0:0]
	for _, req := range g.requests {
		if req.CreatedAt.After(cutoff) {
			live = append(live, req)
		}
	}
	g.requests = live

	out := make([]HelpRequest, len(live))
	copy(out, live)
	return out
}

func (g *Generator) Stop() {
	if g.cancel != nil {
		g.cancel()
	}
	g.wg.Wait()
}

// Bounds reports the area requests are generated in, for map framing.
func Bounds() (models.Coordinate, models.Coordinate) {
	return models.Coordinate{Latitude: minLat, Longitude: minLng},
		models.Coordinate{Latitude: maxLat, Longitude: maxLng}
}
