package festival

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/zapponejosh/panchangam/internal/logger"
)

// DefaultReloadDelay is how long a catalogue file must be quiet before it
// is reloaded.
const DefaultReloadDelay = 100 * time.Millisecond

// CatalogueWatcher reloads a catalogue file when it changes on disk.
type CatalogueWatcher struct {
	path    string
	onLoad  func(*Catalogue)
	delay   time.Duration
	log     zerolog.Logger
	watcher *fsnotify.Watcher
}

// WatchOption configures a CatalogueWatcher.
type WatchOption func(*CatalogueWatcher)

// WithReloadDelay sets the debounce delay.
func WithReloadDelay(d time.Duration) WatchOption {
	return func(w *CatalogueWatcher) { w.delay = d }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l zerolog.Logger) WatchOption {
	return func(w *CatalogueWatcher) { w.log = logger.Named(l, "catalogue_watch") }
}

// NewCatalogueWatcher watches path. onLoad receives every catalogue that
// loads cleanly. The containing directory is watched so editors that
// replace the file by rename are still seen.
func NewCatalogueWatcher(path string, onLoad func(*Catalogue), opts ...WatchOption) (*CatalogueWatcher, error) {
	if path == "" {
		return nil, errors.New("empty catalogue path")
	}
	if onLoad == nil {
		return nil, errors.New("nil onLoad")
	}

	w := &CatalogueWatcher{
		path:   filepath.Clean(path),
		onLoad: onLoad,
		delay:  DefaultReloadDelay,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.watcher = watcher
	return w, nil
}

// Run processes file events until ctx is done. A catalogue that fails to
// load is logged and the previous one stays in use.
func (w *CatalogueWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	w.log.Info().Str("path", w.path).Msg("watching festival catalogue")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug().
				Str("file", event.Name).
				Str("op", event.Op.String()).
				Msg("catalogue file changed")

			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.delay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *CatalogueWatcher) reload() {
	c, err := LoadCatalogue(w.path)
	if err != nil {
		w.log.Error().Err(err).Str("path", w.path).Msg("catalogue reload failed; keeping previous rules")
		return
	}
	w.onLoad(c)
	w.log.Info().Str("path", w.path).Int("rules", c.Len()).Msg("festival catalogue reloaded")
}
