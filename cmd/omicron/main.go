package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/SanderSepp/omicron-app/internal/api"
	"github.com/SanderSepp/omicron-app/internal/clients/osrm"
	"github.com/SanderSepp/omicron-app/internal/clients/overpass"
	"github.com/SanderSepp/omicron-app/internal/clients/weather"
	"github.com/SanderSepp/omicron-app/internal/config"
	"github.com/SanderSepp/omicron-app/internal/hazards"
	"github.com/SanderSepp/omicron-app/internal/logging"
	"github.com/SanderSepp/omicron-app/internal/models"
	"github.com/SanderSepp/omicron-app/internal/resources"
	"github.com/SanderSepp/omicron-app/internal/session"
	"github.com/SanderSepp/omicron-app/internal/simulation"
	"github.com/SanderSepp/omicron-app/internal/state"
	"github.com/SanderSepp/omicron-app/internal/weatherpoll"
	"github.com/SanderSepp/omicron-app/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	store, err := openStore(cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize state store: %v", err)
	}
	defer store.Close()

	hazardSet, err := hazards.Load(
		cfg.Data.FloodedAreaPath,
		cfg.Data.PotentialFloodPath,
		cfg.Data.FloodResourcesPath,
		cfg.Data.GeneralAreaPath,
	)
	if err != nil {
		logging.Fatalf("Failed to load hazard datasets: %v", err)
	}

	curated := make([]models.ResourcePoint, 0, len(hazardSet.FloodResources))
	for i, np := range hazardSet.FloodResources {
		curated = append(curated, resources.CuratedPoint(i, np.Name, np.Coordinate))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event, err := store.Event(ctx)
	if err != nil {
		logging.Fatalf("Failed to read event state: %v", err)
	}

	sessions := session.NewManager(osrm.NewClient(cfg.OSRM.URL), cfg.Session.TTL, event)
	sessions.Start(ctx, cfg.Session.SweepInterval)

	// Keep per-session filters in line with event changes made anywhere,
	// including other processes when the redis backend is in use.
	go relayEventChanges(ctx, store, sessions)

	orchestrator := resources.NewOrchestrator(overpass.NewClient(cfg.Overpass.URL), curated)

	var refresher *weatherpoll.Refresher
	if cfg.Weather.Enabled && cfg.Weather.APIKey != "" {
		center := models.Coordinate{Latitude: cfg.Weather.CenterLat, Longitude: cfg.Weather.CenterLng}
		refresher = weatherpoll.NewRefresher(weather.NewClient(cfg.Weather.URL, cfg.Weather.APIKey), center, cfg.Weather.Interval)
		refresher.Start(ctx)
	}

	pool := worker.NewPool(cfg.Worker.Count, cfg.Worker.BufferSize)
	pool.Start(ctx)

	var generator *simulation.Generator
	if cfg.Simulation.Enabled {
		generator = simulation.NewGenerator(pool, cfg.Simulation.Interval, cfg.Simulation.TTL, cfg.Simulation.MaxLive)
		generator.Start(ctx)
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS))

	deps := api.Deps{
		Store:         store,
		Sessions:      sessions,
		Orchestrator:  orchestrator,
		Custom:        resources.NewCustomStore(),
		Hazards:       hazardSet,
		RadiusMeters:  cfg.Overpass.RadiusMeters,
		DefaultCenter: models.Coordinate{Latitude: cfg.Weather.CenterLat, Longitude: cfg.Weather.CenterLng},
		AdminToken:    cfg.Admin.Token,
	}
	if refresher != nil {
		deps.Weather = refresher
	}
	if generator != nil {
		deps.Help = generator
	}
	api.NewHandler(deps).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if generator != nil {
		generator.Stop()
	}
	pool.Stop()
	if refresher != nil {
		refresher.Stop()
	}
	sessions.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

func openStore(cfg *config.Config) (state.Store, error) {
	switch cfg.State.Backend {
	case "redis":
		return state.NewRedisStore(cfg.State.RedisAddr)
	default:
		return state.NewSQLiteStore(cfg.State.DBPath)
	}
}

func relayEventChanges(ctx context.Context, store state.Store, sessions *session.Manager) {
	id, ch := store.Subscribe()
	defer store.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			if change.Key == state.KeyEvent {
				sessions.SetEvent(change.Event)
			}
		}
	}
}
