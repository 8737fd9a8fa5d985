package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leonardovida/duckdb-reflect/internal/errs"
	"github.com/leonardovida/duckdb-reflect/internal/logger"
)

// Watcher reloads the config file on change and hands the result to a
// callback. Reload errors are logged, never fatal: the last good config
// stays in effect.
type Watcher struct {
	fsw  *fsnotify.Watcher
	done chan struct{}
}

// Watch starts watching the config file at path. onChange runs on the
// watcher goroutine for every successful reload.
//
// The parent directory is watched rather than the file itself: editors that
// write-and-rename would otherwise detach the watch after the first save.
func Watch(path string, log *logger.Logger, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindUnknown, "creating config watcher", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "watching config directory "+dir, err)
	}

	w := &Watcher{fsw: fsw, done: make(chan struct{})}
	target := filepath.Clean(path)
	log = log.With().Str("component", "config-watcher").Str("path", target).Logger()

	go func() {
		defer close(w.done)

		// Writes are debounced: editors and os.WriteFile truncate before
		// writing, and reloading on the first event of a burst can observe
		// the file mid-write. The timer coalesces a burst into one reload
		// after the file has settled.
		debounce := time.NewTimer(0)
		if !debounce.Stop() {
			<-debounce.C
		}
		defer debounce.Stop()

		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				if !debounce.Stop() {
					select {
					case <-debounce.C:
					default:
					}
				}
				debounce.Reset(debounceDelay)

			case <-debounce.C:
				// A zero-length file is a truncate-before-write in flight;
				// the write event that follows re-arms the timer.
				if fi, err := os.Stat(target); err != nil || fi.Size() == 0 {
					continue
				}

				cfg, err := Load(target)
				if err != nil {
					log.ErrorWith("config reload failed, keeping previous config", err, nil)
					continue
				}
				log.Info("config reloaded")
				onChange(cfg)

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				log.ErrorWith("config watcher error", err, nil)
			}
		}
	}()

	return w, nil
}

// debounceDelay is how long the config file must stay quiet before a
// reload; long enough to let a truncate+write pair finish, short enough to
// feel immediate.
const debounceDelay = 100 * time.Millisecond

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	err := w.fsw.Close()
	<-w.done
	return err
}
