// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// --------------------------------------------------------------------------
// Domain registry: the query selectors the API accepts
// --------------------------------------------------------------------------

type DomainConfig struct {
	ID          string
	Name        string
	Description string
}

var DomainRegistry = map[string]DomainConfig{
	"concept": {ID: "concept", Name: "Concepts", Description: "Rules and game situations explained through other sports"},
	"player":  {ID: "player", Name: "Players", Description: "Curated NHL players compared to stars of other sports"},
	"stat":    {ID: "stat", Name: "Stats", Description: "Hockey statistics and what they measure"},
	"term":    {ID: "term", Name: "Dictionary", Description: "Hockey slang and terminology"},
	"zone":    {ID: "zone", Name: "Rink zones", Description: "Areas of the rink and what happens there"},
}

// DomainOrder is the listing order for DomainRegistry.
var DomainOrder = []string{"concept", "player", "stat", "term", "zone"}

// --------------------------------------------------------------------------
// Table names: single source of truth, matches db/schema.sql
// --------------------------------------------------------------------------

const (
	LookupEventsTable = "lookup_events"
)

// Roster snapshot backends.
const (
	SnapshotFile = "file"
	SnapshotBolt = "bolt"
)

// --------------------------------------------------------------------------
// Config struct: populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database (optional; enables the lookup log)
	DatabaseURL    string
	DBPoolMinConns int           `validate:"gte=0"`
	DBPoolMaxConns int           `validate:"gtefield=DBPoolMinConns,gt=0"`
	DBPoolMaxLife  time.Duration `validate:"gt=0"`

	// API server
	APIHost     string `validate:"required"`
	APIPort     int    `validate:"gt=0,lte=65535"`
	Environment string `validate:"oneof=development staging production"`
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int           `validate:"gt=0"`
	RateLimitWindow   time.Duration `validate:"gt=0"`

	// Cache
	CacheEnabled bool

	// Knowledge base
	KnowledgeDir   string // empty = embedded data
	KnowledgeWatch bool

	// NHL API
	NHLAPIBaseURL        string `validate:"required,url"`
	NHLAPIEnabled        bool
	NHLRequestsPerMinute int           `validate:"gt=0"`
	ExternalTimeout      time.Duration `validate:"gt=0"`
	RosterFillTimeout    time.Duration `validate:"gt=0"`

	// Roster snapshot
	RosterSnapshotPath    string
	RosterSnapshotBackend string `validate:"oneof=file bolt"`

	// Admin
	AdminJWTSecret string

	// Response assembly
	AssemblerSeed int64

	// Maintenance
	LookupRetentionDays int `validate:"gt=0"`
}

// Load reads configuration from environment variables with sensible defaults
// and validates the result.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5051",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		CacheEnabled: envBool("CACHE_ENABLED", true),

		KnowledgeDir:   envOr("KNOWLEDGE_DIR", ""),
		KnowledgeWatch: envBool("KNOWLEDGE_WATCH", false),

		NHLAPIBaseURL:        envOr("NHL_API_BASE_URL", "https://api-web.nhle.com"),
		NHLAPIEnabled:        envBool("NHL_API_ENABLED", true),
		NHLRequestsPerMinute: envInt("NHL_REQUESTS_PER_MINUTE", 120),
		ExternalTimeout:      envDuration("EXTERNAL_TIMEOUT", 8*time.Second),
		RosterFillTimeout:    envDuration("ROSTER_FILL_TIMEOUT", 2*time.Minute),

		RosterSnapshotPath:    envOr("ROSTER_SNAPSHOT_PATH", "data/roster.json"),
		RosterSnapshotBackend: envOr("ROSTER_SNAPSHOT_BACKEND", SnapshotFile),

		AdminJWTSecret: envOr("ADMIN_JWT_SECRET", ""),
		AssemblerSeed:  int64(envInt("ASSEMBLER_SEED", 0)),

		LookupRetentionDays: envInt("LOOKUP_RETENTION_DAYS", 30),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AdminEnabled reports whether admin routes should be mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminJWTSecret != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go durations ("8s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
