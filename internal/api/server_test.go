package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/hockey-explainer/internal/api/handler"
	"github.com/albapepper/hockey-explainer/internal/archetype"
	"github.com/albapepper/hockey-explainer/internal/assemble"
	"github.com/albapepper/hockey-explainer/internal/auth"
	"github.com/albapepper/hockey-explainer/internal/cache"
	"github.com/albapepper/hockey-explainer/internal/config"
	"github.com/albapepper/hockey-explainer/internal/knowledge"
	"github.com/albapepper/hockey-explainer/internal/listener"
	"github.com/albapepper/hockey-explainer/internal/lookuplog"
	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/resolver"
	"github.com/albapepper/hockey-explainer/internal/roster"
)

const adminSecret = "test-secret-key-for-jwt-signing-minimum-32-bytes"

type fakeRoster struct {
	mu         sync.Mutex
	cands      []provider.RosterPlayer
	candErr    error
	profile    *provider.PlayerProfile
	profErr    error
	refreshN   int
	refreshErr error
	finds      int
}

func (f *fakeRoster) FindCandidates(_ context.Context, _ string) ([]provider.RosterPlayer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finds++
	return f.cands, f.candErr
}

func (f *fakeRoster) FetchProfile(_ context.Context, _ int) (*provider.PlayerProfile, error) {
	return f.profile, f.profErr
}

func (f *fakeRoster) Refresh(context.Context) (int, error) { return f.refreshN, f.refreshErr }

func (f *fakeRoster) Status() roster.Status {
	return roster.Status{Enabled: true, Loaded: true, Source: roster.SourceSnapshot, Players: 2}
}

type memRecorder struct {
	mu     sync.Mutex
	events []lookuplog.Event
}

func (m *memRecorder) Record(e lookuplog.Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

func (m *memRecorder) last() lookuplog.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[len(m.events)-1]
}

type memPublisher struct {
	mu    sync.Mutex
	kinds []listener.Kind
}

func (m *memPublisher) Publish(_ context.Context, kind listener.Kind) error {
	m.mu.Lock()
	m.kinds = append(m.kinds, kind)
	m.mu.Unlock()
	return nil
}

type fixture struct {
	router  http.Handler
	roster  *fakeRoster
	lookups *memRecorder
	sync    *memPublisher
	cache   *cache.Cache
}

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:  []string{"http://localhost:3000"},
		RateLimitEnabled:  false,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		CacheEnabled:      true,
		ExternalTimeout:   time.Second,
		AdminJWTSecret:    adminSecret,
	}
}

func newFixture(t *testing.T, cfg *config.Config) *fixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kb, err := knowledge.NewBase("", logger)
	require.NoError(t, err)
	pools, err := archetype.LoadPools()
	require.NoError(t, err)
	c := cache.New(true)
	t.Cleanup(c.Close)

	f := &fixture{roster: &fakeRoster{}, lookups: &memRecorder{}, sync: &memPublisher{}, cache: c}
	f.router = NewRouter(handler.Deps{
		Knowledge: kb,
		Resolver:  resolver.New(resolver.DefaultConfig()),
		Roster:    f.roster,
		Assembler: assemble.New(pools, 1),
		Pools:     pools,
		Cache:     c,
		Lookups:   f.lookups,
		Sync:      f.sync,
	}, cfg, logger)
	return f
}

func (f *fixture) do(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestExplain_FoundCachedAndConditional(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.do(t, http.MethodGet, "/api/v1/explain/pp", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
	body := decode(t, rec)
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "power play", body["key"])
	assert.Equal(t, "synonym", body["match_type"])
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	rec = f.do(t, http.MethodGet, "/api/v1/explain/PP", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"), "normalized query shares the entry")

	rec = f.do(t, http.MethodGet, "/api/v1/explain/pp", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)

	ev := f.lookups.last()
	assert.Equal(t, lookuplog.Resolved, ev.Outcome)
	assert.Equal(t, "power play", ev.Key)
}

func TestExplain_FuzzyAndTopic(t *testing.T) {
	f := newFixture(t, testConfig())

	body := decode(t, f.do(t, http.MethodGet, "/api/v1/explain/power%20paly", nil))
	assert.Equal(t, "power play", body["key"])
	assert.Equal(t, "fuzzy", body["match_type"])

	body = decode(t, f.do(t, http.MethodGet, "/api/v1/explain/how-many-periods", nil))
	assert.Equal(t, "topic", body["match_type"])
	assert.Contains(t, body["data"], "answer")
}

func TestExplain_Miss(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(t, http.MethodGet, "/api/v1/explain/xyzzynotreal", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["found"])
	assert.Equal(t, "xyzzynotreal", body["query"])
	assert.Len(t, body["suggestions"], 5)
	assert.Contains(t, body["message"], "Couldn't find 'xyzzynotreal'. Try: ")
	assert.Equal(t, lookuplog.NotFound, f.lookups.last().Outcome)
}

func TestLookup(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.do(t, http.MethodGet, "/api/v1/lookup/bogus?q=icing", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "INVALID_DOMAIN", errBody["code"])

	rec = f.do(t, http.MethodGet, "/api/v1/lookup/concept?q=icing", nil)
	assert.Equal(t, "icing", decode(t, rec)["key"])

	rec = f.do(t, http.MethodGet, "/api/v1/lookup/zone", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["found"])
	assert.NotEmpty(t, body["suggestions"])
}

func TestCompare_Curated(t *testing.T) {
	f := newFixture(t, testConfig())
	body := decode(t, f.do(t, http.MethodGet, "/api/v1/compare/mcdavid", nil))
	assert.Equal(t, true, body["found"])
	assert.Equal(t, "curated", body["source"])
	assert.Equal(t, "Connor Mcdavid", body["player"])
	data := body["data"].(map[string]any)
	assert.Len(t, data["comparisons"], 4)
	assert.Equal(t, 0, f.roster.finds, "curated hit never reaches the gateway")
}

func TestCompare_External(t *testing.T) {
	f := newFixture(t, testConfig())
	f.roster.cands = []provider.RosterPlayer{
		{ID: 8482116, Name: "Tim Stützle", TeamAbbrev: "OTT"},
		{ID: 1, Name: "Someone Else", TeamAbbrev: "BOS"},
	}
	f.roster.profile = &provider.PlayerProfile{
		ID: 8482116, Name: "Tim Stützle", Position: provider.Center,
		Age: 22, GamesPlayed: 300, Goals: 100, Assists: 150, PointsPerGame: 0.5, DraftOverall: 3,
	}

	rec := f.do(t, http.MethodGet, "/api/v1/compare/stutzle", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "external", body["source"])
	assert.Equal(t, "Tim Stützle", body["player"])
	assert.Equal(t, []any{"Someone Else"}, body["alternates"])
	data := body["data"].(map[string]any)
	assert.Equal(t, "rising_prospect", data["archetype"])
	assert.Equal(t, "OTT", data["team"])
	assert.Len(t, data["comparisons"], 4)

	ev := f.lookups.last()
	assert.Equal(t, lookuplog.Fallback, ev.Outcome)
	assert.Equal(t, "Tim Stützle", ev.Key)
}

func TestCompare_ExternalFailuresDegradeToMiss(t *testing.T) {
	cases := map[string]func(r *fakeRoster){
		"gateway unavailable": func(r *fakeRoster) { r.candErr = provider.ErrUnavailable },
		"roster not loaded":   func(r *fakeRoster) { r.candErr = roster.ErrNotLoaded },
		"no candidates":       func(r *fakeRoster) {},
		"profile timeout": func(r *fakeRoster) {
			r.cands = []provider.RosterPlayer{{ID: 9, Name: "Zed Zulu"}}
			r.profErr = context.DeadlineExceeded
		},
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, testConfig())
			setup(f.roster)
			rec := f.do(t, http.MethodGet, "/api/v1/compare/zed%20zulu", nil)
			require.Equal(t, http.StatusOK, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["found"])
			assert.NotEmpty(t, body["suggestions"])
			assert.Equal(t, lookuplog.NotFound, f.lookups.last().Outcome)
		})
	}
}

func TestCompare_EmptyQuerySkipsGateway(t *testing.T) {
	f := newFixture(t, testConfig())
	rec := f.do(t, http.MethodGet, "/api/v1/compare/%20", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode(t, rec)["found"])
	assert.Equal(t, 0, f.roster.finds)
}

func TestCatalog(t *testing.T) {
	f := newFixture(t, testConfig())

	body := decode(t, f.do(t, http.MethodGet, "/api/v1/domains", nil))
	domains := body["domains"].([]any)
	require.Len(t, domains, len(config.DomainOrder))
	first := domains[0].(map[string]any)
	assert.Equal(t, "concept", first["id"])
	assert.Greater(t, first["count"].(float64), 10.0)

	body = decode(t, f.do(t, http.MethodGet, "/api/v1/concept", nil))
	assert.Equal(t, "concept", body["domain"])
	assert.Contains(t, body["keys"], "power play")

	rec := f.do(t, http.MethodGet, "/api/v1/nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = decode(t, f.do(t, http.MethodGet, "/api/v1/archetypes", nil))
	assert.Len(t, body["archetypes"], len(archetype.All))
	assert.Len(t, body["rules"], len(archetype.Rules))

	body = decode(t, f.do(t, http.MethodGet, "/api/v1/random", nil))
	assert.Contains(t, []any{"concept", "player"}, body["type"])

	body = decode(t, f.do(t, http.MethodGet, "/api/v1/autofill", nil))
	assert.Greater(t, body["names"].(float64), 50.0)
}

func TestHealth(t *testing.T) {
	f := newFixture(t, testConfig())

	body := decode(t, f.do(t, http.MethodGet, "/health", nil))
	assert.Equal(t, "healthy", body["status"])

	body = decode(t, f.do(t, http.MethodGet, "/health/db", nil))
	assert.Equal(t, "disabled", body["database"])

	body = decode(t, f.do(t, http.MethodGet, "/health/roster", nil))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "snapshot", body["roster"].(map[string]any)["source"])

	body = decode(t, f.do(t, http.MethodGet, "/health/cache", nil))
	assert.Contains(t, body["cache"], "hits")
}

func bearer(t *testing.T) map[string]string {
	t.Helper()
	tok, err := auth.Issue(adminSecret, "curator", time.Minute)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func TestAdmin(t *testing.T) {
	f := newFixture(t, testConfig())

	rec := f.do(t, http.MethodPost, "/api/v1/admin/roster/refresh", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/admin/roster/refresh", map[string]string{"Authorization": "Bearer nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	f.roster.refreshN = 812
	rec = f.do(t, http.MethodPost, "/api/v1/admin/roster/refresh", bearer(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 812.0, decode(t, rec)["players_loaded"])

	f.roster.refreshErr = errors.New("NHL returned 503")
	rec = f.do(t, http.MethodPost, "/api/v1/admin/roster/refresh", bearer(t))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "REFRESH_FAILED", errBody["code"])
	assert.Contains(t, errBody["detail"], "503")

	rec = f.do(t, http.MethodPost, "/api/v1/admin/knowledge/reload", bearer(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode(t, rec)["domains"], "concept")

	assert.Equal(t, []listener.Kind{listener.KindRosterRefresh, listener.KindKnowledgeReload}, f.sync.kinds,
		"only successful actions reach the other replicas")
}

func TestAdmin_NotMountedWithoutSecret(t *testing.T) {
	cfg := testConfig()
	cfg.AdminJWTSecret = ""
	f := newFixture(t, cfg)
	rec := f.do(t, http.MethodPost, "/api/v1/admin/roster/refresh", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	cfg.RateLimitWindow = time.Hour
	f := newFixture(t, cfg)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/health", nil).Code)
	rec := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1800", rec.Header().Get("Retry-After"), "one token per half hour")
}
