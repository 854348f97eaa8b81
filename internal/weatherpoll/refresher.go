package weatherpoll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Fetcher retrieves current conditions for a position.
type Fetcher interface {
	Current(ctx context.Context, position models.Coordinate) (*models.WeatherReport, error)
}

// Refresher polls weather on an interval and caches the last good report.
// A failed poll keeps the stale report rather than blanking the display.
type Refresher struct {
	fetcher  Fetcher
	position models.Coordinate
	interval time.Duration

	mu     sync.RWMutex
	latest *models.WeatherReport

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRefresher(fetcher Fetcher, position models.Coordinate, interval time.Duration) *Refresher {
	return &Refresher{
		fetcher:  fetcher,
		position: position,
		interval: interval,
	}
}

func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.wg.Add(1)
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	defer r.wg.Done()
	slog.Info("starting weather refresher", "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("weather refresher shutting down")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	report, err := r.fetcher.Current(ctx, r.position)
	if err != nil {
		slog.Error("weather refresh failed", "error", err)
		return
	}

	r.mu.Lock()
	r.latest = report
	r.mu.Unlock()
	slog.Debug("weather refreshed", "description", report.Description)
}

// Latest returns the most recent report, or nil before the first
// successful poll.
func (r *Refresher) Latest() *models.WeatherReport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()
}
