package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Worker     WorkerConfig
	Overpass   OverpassConfig
	OSRM       OSRMConfig
	Weather    WeatherConfig
	Data       DataConfig
	State      StateConfig
	Session    SessionConfig
	Simulation SimulationConfig
	RateLimit  RateLimitConfig
	Admin      AdminConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type WorkerConfig struct {
	Count      int
	BufferSize int
}

type OverpassConfig struct {
	URL          string
	RadiusMeters int
}

type OSRMConfig struct {
	URL string
}

type WeatherConfig struct {
	Enabled   bool
	URL       string
	APIKey    string
	Interval  time.Duration
	CenterLat float64
	CenterLng float64
}

type DataConfig struct {
	FloodedAreaPath    string
	PotentialFloodPath string
	GeneralAreaPath    string
	FloodResourcesPath string
}

type StateConfig struct {
	Backend   string // "sqlite" or "redis"
	DBPath    string
	RedisAddr string
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type SimulationConfig struct {
	Enabled  bool
	Interval time.Duration
	TTL      time.Duration
	MaxLive  int
}

type RateLimitConfig struct {
	RPS int
}

type AdminConfig struct {
	Token string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Worker: WorkerConfig{
			Count:      getEnvInt("WORKER_COUNT", 2),
			BufferSize: getEnvInt("WORKER_BUFFER_SIZE", 20),
		},
		Overpass: OverpassConfig{
			URL:          getEnv("OVERPASS_URL", "https://overpass-api.de/api/interpreter"),
			RadiusMeters: getEnvInt("OVERPASS_RADIUS_METERS", 2000),
		},
		OSRM: OSRMConfig{
			URL: getEnv("OSRM_URL", "https://routing.openstreetmap.de/routed-foot"),
		},
		Weather: WeatherConfig{
			Enabled:   getEnvBool("WEATHER_ENABLED", true),
			URL:       getEnv("WEATHER_URL", "https://api.openweathermap.org/data/2.5/weather"),
			APIKey:    getEnv("WEATHER_API_KEY", ""),
			Interval:  getEnvDuration("WEATHER_POLL_INTERVAL", time.Minute),
			CenterLat: getEnvFloat("WEATHER_CENTER_LAT", 59.437),
			CenterLng: getEnvFloat("WEATHER_CENTER_LNG", 24.7536),
		},
		Data: DataConfig{
			FloodedAreaPath:    getEnv("DATA_FLOODED_AREA", "./data/flooded_area.csv"),
			PotentialFloodPath: getEnv("DATA_POTENTIAL_FLOOD_AREA", "./data/potential_flood_area.csv"),
			GeneralAreaPath:    getEnv("DATA_GENERAL_AREA", "./data/flooded_general.geojson"),
			FloodResourcesPath: getEnv("DATA_FLOOD_RESOURCES", "./data/water_shelter_food.csv"),
		},
		State: StateConfig{
			Backend:   getEnv("STATE_BACKEND", "sqlite"),
			DBPath:    getEnv("DB_PATH", "./data/omicron.db"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Session: SessionConfig{
			TTL:           getEnvDuration("SESSION_TTL", 30*time.Minute),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Simulation: SimulationConfig{
			Enabled:  getEnvBool("SIMULATION_ENABLED", true),
			Interval: getEnvDuration("SIMULATION_INTERVAL", 30*time.Second),
			TTL:      getEnvDuration("SIMULATION_TTL", 10*time.Minute),
			MaxLive:  getEnvInt("SIMULATION_MAX_LIVE", 8),
		},
		RateLimit: RateLimitConfig{
			RPS: getEnvInt("RATE_LIMIT_RPS", 50),
		},
		Admin: AdminConfig{
			Token: getEnv("ADMIN_TOKEN", ""),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.State.Backend != "sqlite" && c.State.Backend != "redis" {
		return fmt.Errorf("invalid state backend: %s", c.State.Backend)
	}

	if c.Overpass.RadiusMeters < 100 {
		return fmt.Errorf("overpass radius must be at least 100 meters")
	}

	if c.Weather.Enabled && c.Weather.Interval < time.Minute {
		return fmt.Errorf("weather poll interval must be at least 1 minute")
	}

	if c.Simulation.Enabled && c.Simulation.MaxLive < 1 {
		return fmt.Errorf("simulation max live must be at least 1")
	}

	if c.Session.TTL < time.Minute {
		return fmt.Errorf("session TTL must be at least 1 minute")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
