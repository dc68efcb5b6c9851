// Package roster is the external data gateway: it keeps a cached league
// roster for candidate search and fetches player profiles on demand.
//
// The roster is filled lazily on first use, from the persisted snapshot when
// one exists and from the provider otherwise. Concurrent fills and profile
// fetches for the same player are collapsed with singleflight. Every
// provider call runs under a bounded timeout and is never retried.
package roster

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/snapshot"
)

var (
	// ErrNotLoaded means no roster could be obtained from the snapshot or
	// the provider.
	ErrNotLoaded = errors.New("roster not loaded")
	// ErrPlayerNotFound means the provider has no profile for the id.
	ErrPlayerNotFound = errors.New("player not found")
)

// Roster sources recorded in Status.
const (
	SourceSnapshot = "snapshot"
	SourceNetwork  = "network"
)

// Source is the provider the gateway reads from. *nhl.Client satisfies it.
type Source interface {
	GetLeagueRoster(ctx context.Context, teams []string, fn func(team string, players []provider.RosterPlayer) error) error
	GetPlayer(ctx context.Context, id int) (*provider.PlayerProfile, error)
}

// Options configures a Gateway.
type Options struct {
	Teams       []string
	Timeout     time.Duration // per profile fetch
	FillTimeout time.Duration // whole-league roster fetch
	Logger      *slog.Logger
	// OnRefresh runs after a new roster generation is installed.
	OnRefresh func(players int)
}

// Gateway serves candidate search from the cached roster and profile
// fetches from the provider. A nil Source disables network access; the
// gateway then serves whatever the snapshot store holds.
type Gateway struct {
	src   Source
	store snapshot.Store
	cache Cache
	group singleflight.Group
	opts  Options
	now   func() time.Time

	mu      sync.Mutex
	lastErr error
	lastAt  time.Time
}

func New(src Source, store snapshot.Store, opts Options) *Gateway {
	if store == nil {
		store = snapshot.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	if opts.FillTimeout <= 0 {
		opts.FillTimeout = 2 * time.Minute
	}
	return &Gateway{src: src, store: store, opts: opts, now: time.Now}
}

// Enabled reports whether the gateway can reach a provider.
func (g *Gateway) Enabled() bool { return g.src != nil }

// Cache exposes the roster cache for read-only inspection.
func (g *Gateway) Cache() *Cache { return &g.cache }

// EnsureLoaded fills the roster if it is empty. The fill runs detached from
// ctx so an impatient caller does not abort it for everyone else; ctx only
// bounds how long this caller waits.
func (g *Gateway) EnsureLoaded(ctx context.Context) error {
	if g.cache.Loaded() {
		return nil
	}
	ch := g.group.DoChan("fill", func() (any, error) {
		if g.cache.Loaded() {
			return nil, nil
		}
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.opts.FillTimeout)
		defer cancel()
		return nil, g.fill(fctx)
	})
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %v", ErrNotLoaded, ctx.Err())
	case r := <-ch:
		return r.Err
	}
}

func (g *Gateway) fill(ctx context.Context) error {
	snap, err := g.store.Load(ctx)
	if err != nil {
		g.opts.Logger.Warn("roster snapshot unreadable", "error", err)
	}
	if snap != nil && len(snap.Players) > 0 {
		g.cache.install(snap, SourceSnapshot)
		g.opts.Logger.Info("roster loaded from snapshot",
			"players", len(snap.Players), "fetched_at", snap.FetchedAt)
		return nil
	}
	if g.src == nil {
		return fmt.Errorf("%w: no snapshot and provider disabled", ErrNotLoaded)
	}
	if _, err := g.replace(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrNotLoaded, err)
	}
	return nil
}

// Refresh fetches a complete new roster and swaps it in. On failure the
// previous roster keeps serving.
func (g *Gateway) Refresh(ctx context.Context) (int, error) {
	if g.src == nil {
		return 0, fmt.Errorf("%w: provider disabled", provider.ErrUnavailable)
	}
	ctx, cancel := context.WithTimeout(ctx, g.opts.FillTimeout)
	defer cancel()
	v, err, _ := g.group.Do("refresh", func() (any, error) {
		return g.replace(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (g *Gateway) replace(ctx context.Context) (int, error) {
	start := time.Now()
	var players []provider.RosterPlayer
	err := g.src.GetLeagueRoster(ctx, g.opts.Teams, func(_ string, ps []provider.RosterPlayer) error {
		players = append(players, ps...)
		return nil
	})
	g.record(err)
	if err != nil {
		return 0, fmt.Errorf("fetch league roster: %w", err)
	}
	if len(players) == 0 {
		err := fmt.Errorf("%w: provider returned an empty roster", provider.ErrUnavailable)
		g.record(err)
		return 0, err
	}

	snap := &snapshot.Snapshot{FetchedAt: g.now().UTC(), Players: players}
	g.cache.install(snap, SourceNetwork)
	if err := g.store.Save(ctx, snap); err != nil {
		g.opts.Logger.Warn("roster snapshot not saved", "error", err)
	}
	g.opts.Logger.Info("roster refreshed",
		"players", len(players), "duration_ms", time.Since(start).Milliseconds())
	if g.opts.OnRefresh != nil {
		g.opts.OnRefresh(len(players))
	}
	return len(players), nil
}

func (g *Gateway) record(err error) {
	g.mu.Lock()
	g.lastErr = err
	g.lastAt = g.now()
	g.mu.Unlock()
}

// FindCandidates returns roster players matching query, best first. It
// reads only the cached roster; the first call may trigger the lazy fill.
func (g *Gateway) FindCandidates(ctx context.Context, query string) ([]provider.RosterPlayer, error) {
	if err := g.EnsureLoaded(ctx); err != nil {
		return nil, err
	}
	st := g.cache.load()
	hits := rank(query, st.index, MaxCandidates)
	out := make([]provider.RosterPlayer, len(hits))
	for i, h := range hits {
		out[i] = h.Player
	}
	return out, nil
}

// Search is FindCandidates with scores and no lazy fill.
func (g *Gateway) Search(query string, limit int) []Candidate {
	st := g.cache.load()
	if st == nil {
		return nil
	}
	return rank(query, st.index, limit)
}

// FetchProfile returns the statistical profile for a roster player id.
// Profiles are cached for the lifetime of the current roster generation.
func (g *Gateway) FetchProfile(ctx context.Context, id int) (*provider.PlayerProfile, error) {
	st := g.cache.load()
	if st != nil {
		if p, ok := st.profile(id); ok {
			return p, nil
		}
	}
	if g.src == nil {
		return nil, fmt.Errorf("%w: provider disabled", provider.ErrUnavailable)
	}

	ch := g.group.DoChan("profile:"+strconv.Itoa(id), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.opts.Timeout)
		defer cancel()
		p, err := g.src.GetPlayer(fctx, id)
		if err != nil {
			return nil, err
		}
		if st != nil {
			st.profiles.Store(id, p)
		}
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", provider.ErrUnavailable, ctx.Err())
	case r := <-ch:
		if r.Err != nil {
			if errors.Is(r.Err, provider.ErrNotFound) {
				return nil, fmt.Errorf("%w: %d", ErrPlayerNotFound, id)
			}
			return nil, r.Err
		}
		return r.Val.(*provider.PlayerProfile), nil
	}
}

// Status describes the gateway for health checks.
type Status struct {
	Enabled       bool      `json:"enabled"`
	Loaded        bool      `json:"loaded"`
	Source        string    `json:"source,omitempty"`
	Players       int       `json:"players"`
	FetchedAt     time.Time `json:"fetched_at,omitempty"`
	LastAttemptAt time.Time `json:"last_attempt_at,omitempty"`
	LastError     string    `json:"last_error,omitempty"`
}

func (g *Gateway) Status() Status {
	s := Status{Enabled: g.src != nil}
	if st := g.cache.load(); st != nil {
		s.Loaded = true
		s.Source = st.source
		s.Players = len(st.snap.Players)
		s.FetchedAt = st.snap.FetchedAt
	}
	g.mu.Lock()
	s.LastAttemptAt = g.lastAt
	if g.lastErr != nil {
		s.LastError = g.lastErr.Error()
	}
	g.mu.Unlock()
	return s
}
