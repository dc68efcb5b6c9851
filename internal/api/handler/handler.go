// Package handler provides HTTP handlers for all API endpoints.
// Query handlers resolve against the in-memory knowledge base; only the
// player comparison fallback reaches the external provider.
package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/hockey-explainer/internal/api/respond"
	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/assemble"
	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/config"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/listener"
	"github.com/albapepper/hockey-explainer/internal/lookuplog"
	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/resolver"
	"github.com/albapepper/hockey-explainer/internal/roster"
)

// Knowledge is the live knowledge base. *knowledge.Base satisfies it.
type Knowledge interface {
	Current() *knowledge.Registry
	Reload() error
}

// Roster is the external data gateway. *roster.Gateway satisfies it.
type Roster interface {
	FindCandidates(ctx context.Context, query string) ([]provider.RosterPlayer, error)
	FetchProfile(ctx context.Context, id int) (*provider.PlayerProfile, error)
	Refresh(ctx context.Context) (int, error)
	Status() roster.Status
}

// Pinger checks database connectivity. *db.Pool satisfies it.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Publisher tells the other replicas about an admin action.
// *listener.Listener satisfies it.
type Publisher interface {
	Publish(ctx context.Context, kind listener.Kind) error
}

// Deps are the handler dependencies. DB and Sync may be nil when no database
// is configured; Lookups defaults to a no-op recorder.
type Deps struct {
	Config    *config.Config
	Knowledge Knowledge
	Resolver  *resolver.Resolver
	Roster    Roster
	Assembler *assemble.Assembler
	Pools     *archetype.Pools
	Cache     *cache.Cache
	Lookups   lookuplog.Recorder
	DB        Pinger
	Sync      Publisher
	Logger    *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	cfg       *config.Config
	kb        Knowledge
	resolver  *resolver.Resolver
	roster    Roster
	assembler *assemble.Assembler
	pools     *archetype.Pools
	cache     *cache.Cache
	lookups   lookuplog.Recorder
	db        Pinger
	sync      Publisher
	logger    *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	if d.Lookups == nil {
		d.Lookups = lookuplog.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Handler{
		cfg:       d.Config,
		kb:        d.Knowledge,
		resolver:  d.Resolver,
		roster:    d.Roster,
		assembler: d.Assembler,
		pools:     d.Pools,
		cache:     d.Cache,
		lookups:   d.Lookups,
		db:        d.DB,
		sync:      d.Sync,
		logger:    d.Logger,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the available query domains.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Hockey Explainer API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"domains": config.DomainOrder,
		"features": []string{
			"fuzzy_query_resolution",
			"cross_sport_analogies",
			"live_player_archetypes",
			"gzip_compression",
			"in_memory_cache",
			"etag_support",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"knowledge": h.kb.Current().Counts(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity for the lookup log. Reports "disabled" when no database is configured.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "disabled",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, hits, misses).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckRoster reports the roster gateway state.
// @Summary Roster health check
// @Description Returns whether the NHL roster is loaded, where it came from and the last provider error.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/roster [get]
func (h *Handler) HealthCheckRoster(w http.ResponseWriter, r *http.Request) {
	st := h.roster.Status()
	status := "healthy"
	if st.Enabled && !st.Loaded && st.LastError != "" {
		status = "degraded"
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"roster":    st,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Helpers
// --------------------------------------------------------------------------

// cacheKey scopes a key to the registry generation so a response built from
// an older knowledge base is never served after a reload.
func cacheKey(prefix string, reg *knowledge.Registry, parts ...string) string {
	key := fmt.Sprintf("%s%d", prefix, reg.LoadedAt.UnixNano())
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// writeCached serves key from the cache, or builds, stores and serves it.
func (h *Handler) writeCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() any) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	data, err := json.Marshal(build())
	if err != nil {
		h.logger.Error("Failed to encode response", "key", key, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, respond.CodeEncodeFailed, "Failed to encode response")
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

// domain returns the named domain of the current registry or writes a 400.
func (h *Handler) domain(w http.ResponseWriter, reg *knowledge.Registry, name string) (*knowledge.Domain, bool) {
	d, ok := reg.Domain(name)
	if !ok {
		respond.WriteErrorDetail(w, http.StatusBadRequest, respond.CodeInvalidDomain,
			fmt.Sprintf("Unknown domain %q", name),
			fmt.Sprintf("valid domains: %v", reg.Names()))
		return nil, false
	}
	return d, true
}

func (h *Handler) record(domain, raw string, res resolver.Result, outcome lookuplog.Outcome, key string) {
	if key == "" {
		key = res.Key
	}
	h.lookups.Record(lookuplog.Event{
		Domain:     domain,
		Query:      raw,
		Normalized: res.Query,
		Outcome:    outcome,
		Key:        key,
		Stage:      string(res.Stage),
		Score:      res.Score,
	})
}
