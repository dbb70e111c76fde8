// Package watch reports settled filesystem changes for the CLI's watch
// mode. Events are debounced so editors that write-and-rename do not fire
// a burst of notifications.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 250 * time.Millisecond

// Run watches path (a file or a directory) and calls fn with the changed
// name once per settled change until ctx is canceled. For a file, the
// parent directory is watched so replace-by-rename keeps working.
func Run(ctx context.Context, path string, debounce time.Duration, fn func(name string)) error {
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	watchDir := path
	var onlyFile string
	if !info.IsDir() {
		watchDir = filepath.Dir(path)
		onlyFile = filepath.Base(path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(watchDir); err != nil {
		return err
	}

	var (
		timerMu sync.Mutex
		timer   *time.Timer
		pending string
	)
	fire := func(name string) {
		timerMu.Lock()
		defer timerMu.Unlock()
		pending = name
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			timerMu.Lock()
			name := pending
			timerMu.Unlock()
			fn(name)
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if onlyFile != "" && filepath.Base(ev.Name) != onlyFile {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0 {
				fire(ev.Name)
			}
		case <-w.Errors:
			// keep watching
		}
	}
}
