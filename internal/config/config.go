package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/mr1hm/go-fire-hazard-map/internal/models"
)

type Config struct {
	Server  ServerConfig
	Region  RegionConfig
	Sources SourcesConfig
	Sampler SamplerConfig
	DB      DatabaseConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

// RegionConfig fixes the one geographic region the service covers.
// Defaults cover continental Texas in WGS84 lon/lat.
type RegionConfig struct {
	BBox        models.BoundingBox
	GridSpacing float64 // degrees between adjacent sample points
}

type SourcesConfig struct {
	FireFeedURL    string
	FireWindowDays int
	WeatherURL     string
	CountyURL      string
	CountyPrefix   string // two-character FIPS prefix identifying the region
}

// SamplerConfig bounds the weather fan-out: worker count, per-request
// timeout, pacing between upstream requests, and the overall wall-clock
// deadline for one snapshot build.
type SamplerConfig struct {
	Workers         int
	RequestTimeout  time.Duration
	RequestInterval time.Duration
	BuildDeadline   time.Duration
}

type DatabaseConfig struct {
	Path string
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
		Region: RegionConfig{
			BBox: models.BoundingBox{
				MinLon: getEnvFloat("REGION_MIN_LON", -106.65),
				MinLat: getEnvFloat("REGION_MIN_LAT", 25.84),
				MaxLon: getEnvFloat("REGION_MAX_LON", -93.51),
				MaxLat: getEnvFloat("REGION_MAX_LAT", 36.5),
			},
			GridSpacing: getEnvFloat("REGION_GRID_SPACING", 1.0),
		},
		Sources: SourcesConfig{
			FireFeedURL:    getEnv("FIRE_FEED_URL", "https://firms.modaps.eosdis.nasa.gov/api/area/csv/DEMO_KEY/VIIRS_SNPP_NRT/-106.65,25.84,-93.51,36.5"),
			FireWindowDays: getEnvInt("FIRE_WINDOW_DAYS", 1),
			WeatherURL:     getEnv("WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
			CountyURL:      getEnv("COUNTY_URL", "https://raw.githubusercontent.com/plotly/datasets/master/geojson-counties-fips.json"),
			CountyPrefix:   getEnv("COUNTY_PREFIX", "48"),
		},
		Sampler: SamplerConfig{
			Workers:         getEnvInt("SAMPLER_WORKERS", 8),
			RequestTimeout:  getEnvDuration("SAMPLER_REQUEST_TIMEOUT", 10*time.Second),
			RequestInterval: getEnvDuration("SAMPLER_REQUEST_INTERVAL", 100*time.Millisecond),
			BuildDeadline:   getEnvDuration("SAMPLER_BUILD_DEADLINE", 60*time.Second),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/hazard-map.db"),
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

	if !c.Region.BBox.Valid() {
		return fmt.Errorf("invalid region bounding box: %+v", c.Region.BBox)
	}
	if c.Region.GridSpacing <= 0 {
		return fmt.Errorf("grid spacing must be positive, got %v", c.Region.GridSpacing)
	}

	if c.Sources.FireWindowDays < 1 || c.Sources.FireWindowDays > 10 {
		return fmt.Errorf("fire window must be 1-10 days, got %d", c.Sources.FireWindowDays)
	}
	if len(c.Sources.CountyPrefix) != 2 {
		return fmt.Errorf("county prefix must be two characters, got %q", c.Sources.CountyPrefix)
	}

	if c.Sampler.Workers < 1 {
		return fmt.Errorf("sampler worker count must be at least 1")
	}
	if c.Sampler.RequestTimeout <= 0 {
		return fmt.Errorf("sampler request timeout must be positive")
	}
	if c.Sampler.BuildDeadline < c.Sampler.RequestTimeout {
		return fmt.Errorf("build deadline %v is shorter than the per-request timeout %v",
			c.Sampler.BuildDeadline, c.Sampler.RequestTimeout)
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
