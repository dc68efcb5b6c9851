package roster

import (
	"sync"
	"sync/atomic"

	"github.com/albapepper/hockey-explainer/internal/provider"
	"github.com/albapepper/hockey-explainer/internal/snapshot"
)

// state is one immutable roster generation. The profile map belongs to the
// generation and is dropped with it.
type state struct {
	snap     *snapshot.Snapshot
	index    []indexed
	source   string
	profiles sync.Map // int -> *provider.PlayerProfile
}

// Cache holds the current roster generation. Readers never lock; a refresh
// swaps in a complete new generation.
type Cache struct {
	cur atomic.Pointer[state]
}

func (c *Cache) load() *state { return c.cur.Load() }

func (c *Cache) install(snap *snapshot.Snapshot, source string) {
	c.cur.Store(&state{snap: snap, index: buildIndex(snap.Players), source: source})
}

// Loaded reports whether any roster is available.
func (c *Cache) Loaded() bool { return c.cur.Load() != nil }

// Snapshot returns the current roster, or nil before the first fill.
func (c *Cache) Snapshot() *snapshot.Snapshot {
	if s := c.cur.Load(); s != nil {
		return s.snap
	}
	return nil
}

func (s *state) profile(id int) (*provider.PlayerProfile, bool) {
	v, ok := s.profiles.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*provider.PlayerProfile), true
}
