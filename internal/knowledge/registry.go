package knowledge

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Registry is one fully loaded knowledge base, keyed by domain selector.
type Registry struct {
	domains  map[string]*Domain
	order    []string
	LoadedAt time.Time
}

// Domain returns the domain for a selector.
func (r *Registry) Domain(name string) (*Domain, bool) {
	d, ok := r.domains[name]
	return d, ok
}

// Names returns the domain selectors in layout order.
func (r *Registry) Names() []string { return r.order }

// Counts returns the number of entries per domain.
func (r *Registry) Counts() map[string]int {
	out := make(map[string]int, len(r.domains))
	for name, d := range r.domains {
		out[name] = d.Len()
	}
	return out
}

// Base serves the current Registry and swaps in a new one on reload.
// Readers holding an older Registry keep a consistent view until they
// finish.
type Base struct {
	current atomic.Pointer[Registry]
	dir     string // empty = embedded files
	layout  []DomainFiles
	logger  *slog.Logger

	mu    sync.Mutex
	hooks []func()
}

// NewBase loads the knowledge base from dir, or from the embedded files when
// dir is empty.
func NewBase(dir string, logger *slog.Logger) (*Base, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Base{dir: dir, layout: Layout, logger: logger}
	if err := b.Reload(); err != nil {
		return nil, err
	}
	return b, nil
}

// Current returns the active registry.
func (b *Base) Current() *Registry { return b.current.Load() }

// Dir returns the directory the base loads from, empty when embedded.
func (b *Base) Dir() string { return b.dir }

// Reload rebuilds the registry from its source. On error the previous
// registry stays active.
func (b *Base) Reload() error {
	start := time.Now()
	reg, err := Load(b.source(), b.layout)
	if err != nil {
		return fmt.Errorf("load knowledge: %w", err)
	}
	b.current.Store(reg)
	b.logger.Info("Knowledge base loaded",
		"source", b.sourceName(),
		"domains", reg.Counts(),
		"duration", time.Since(start).Round(time.Microsecond))

	b.mu.Lock()
	hooks := append([]func(){}, b.hooks...)
	b.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}
	return nil
}

// OnReload registers fn to run after every successful reload.
func (b *Base) OnReload(fn func()) {
	b.mu.Lock()
	b.hooks = append(b.hooks, fn)
	b.mu.Unlock()
}

func (b *Base) source() fs.FS {
	if b.dir == "" {
		return Embedded()
	}
	return os.DirFS(b.dir)
}

func (b *Base) sourceName() string {
	if b.dir == "" {
		return "embedded"
	}
	return b.dir
}
