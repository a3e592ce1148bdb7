package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bethropolis/slate/internal/logger"
	"github.com/bethropolis/slate/internal/utils"
	"github.com/fsnotify/fsnotify"
)

// ReloadFunc receives the reloaded configuration. It runs on the watcher's
// goroutine, so implementations should hand off to their own loop.
type ReloadFunc func(cfg *Config, err error)

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	fsw       *fsnotify.Watcher
	path      string
	flags     *Flags
	onReload  ReloadFunc
	debouncer utils.Debouncer
	done      chan struct{}
	wg        sync.WaitGroup
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file on save are still seen.
func Watch(path string, flags *Flags, onReload ReloadFunc) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fsw:      fsw,
		path:     abs,
		flags:    flags,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	logger.DebugTagf("config", "Watching %s for changes", abs)
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logger.DebugTagf("config", "Config file event: %s", ev.Op)
			w.debouncer.Debounce(ReloadDebounce, w.reload)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warnf("Config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	select {
	case <-w.done:
		return
	default:
	}
	cfg, err := Load(w.path, w.flags, true)
	w.onReload(cfg, err)
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	w.debouncer.Stop()
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}
