// Package snapshot persists the league roster between restarts so player
// lookups work before the first network fill completes.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/albapepper/hockey-explainer/internal/provider"
)

// Snapshot is a point-in-time copy of the league roster.
type Snapshot struct {
	FetchedAt time.Time               `json:"fetched_at"`
	Players   []provider.RosterPlayer `json:"players"`
}

// Age reports how old the snapshot is relative to now.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// Store loads and saves a single roster snapshot.
// Load returns nil, nil when nothing has been saved yet.
type Store interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s *Snapshot) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile = "file"
	BackendBolt = "bolt"
)

// Open returns the store for backend at path. An empty path disables
// persistence and returns a Nop store.
func Open(backend, path string) (Store, error) {
	if path == "" {
		return Nop{}, nil
	}
	switch backend {
	case BackendFile, "":
		return NewFileStore(path), nil
	case BackendBolt:
		return NewBoltStore(path)
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

// Nop discards saves and never has a snapshot.
type Nop struct{}

func (Nop) Load(context.Context) (*Snapshot, error) { return nil, nil }
func (Nop) Save(context.Context, *Snapshot) error   { return nil }
func (Nop) Close() error                            { return nil }
