package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/maxbolgarin/errm"
	"github.com/maxbolgarin/logze/v2"
)

const reloadDebounce = 300 * time.Millisecond

// Watch reloads the config file on every change and calls onChange with the new configuration.
// Invalid configurations are logged and skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	if path == "" {
		return errm.New("config path is empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return errm.Wrap(err, "failed to get absolute path")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errm.Wrap(err, "failed to create watcher")
	}
	defer w.Close()

	// editors often replace the file, so the directory is watched
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return errm.Wrap(err, "failed to watch config directory")
	}

	log := logze.With("component", "config-watcher", "path", abs)
	log.Info("watching config for changes")

	var (
		timer   *time.Timer
		reloads = make(chan struct{}, 1)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(reloadDebounce, func() {
				select {
				case reloads <- struct{}{}:
				default:
				}
			})

		case <-reloads:
			cfg, err := Load(abs)
			if err != nil {
				log.Err(err, "failed to reload config, keeping previous one")
				continue
			}
			log.Info("config reloaded")
			onChange(cfg)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Err(err, "watcher error")
		}
	}
}
