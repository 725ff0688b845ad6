package scheduledoc

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// debounce absorbs the burst of Write/Chmod/Rename events a single editor
// save tends to produce, so a reload runs once per save rather than once
// per event.
const debounce = 200 * time.Millisecond

// Watcher reloads a schedule document from disk whenever it changes and
// hands the freshly parsed Document to onReload. Not present in the
// original daemon, which only reads its configuration once at startup; a
// live reload lets a schedule edit take effect without restarting the
// control loop, and the fsnotify dependency already ships transitively
// through viper's own config-watching feature.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// WatchFile watches path's containing directory (not the file itself: many
// editors replace a file via rename-into-place, which would silently drop
// a direct file watch) and reloads on any event naming path's basename.
func WatchFile(path string, geoPath string, tz *time.Location, log *zap.SugaredLogger, onReload func(*Document)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}

	go func() {
		var timer *time.Timer
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(debounce, func() {
					doc, err := Load(path, geoPath, tz, log)
					if err != nil {
						if log != nil {
							log.Warnf("scheduledoc: reload of %s failed, keeping previous schedule: %v", path, err)
						}
						return
					}
					onReload(doc)
				})
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				if log != nil {
					log.Warnf("scheduledoc: watch error on %s: %v", dir, err)
				}
			case <-w.done:
				return
			}
		}
	}()

	return w, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
