package knowledge

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the base whenever a YAML file in its directory changes.
// Bursts of events (editors write several times per save) collapse into a
// single reload. Blocks until ctx is cancelled. Intended to be called with
// `go`.
func (b *Base) Watch(ctx context.Context) error {
	if b.dir == "" {
		return errors.New("knowledge base is embedded; nothing to watch")
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(b.dir); err != nil {
		return err
	}
	b.logger.Info("Watching knowledge directory", "dir", b.dir)

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !isKnowledgeFile(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			b.logger.Warn("Knowledge watcher error", "error", err)
		case <-fire:
			fire = nil
			if err := b.Reload(); err != nil {
				b.logger.Error("Knowledge reload failed; keeping previous data", "error", err)
			}
		}
	}
}

func isKnowledgeFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
