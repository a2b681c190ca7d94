package config

import (
	"context"
	"fmt"
	"path/filepath"

	"golang-ethernetd/internal/pkg/logging"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the configuration file whenever it is written or replaced and
// passes every valid result to onChange. Invalid files are logged and skipped.
// It blocks until ctx is cancelled.
func Watch(ctx context.Context, configPath string, onChange func(*Config)) error {
	logger := logging.WithComponent("config").WithField("config_file", configPath)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and config management replace files by rename.
	dir := filepath.Dir(configPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target := filepath.Clean(configPath)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(configPath)
			if err != nil {
				logger.WithError(err).Warn("Ignoring unreadable configuration")
				continue
			}
			if err := cfg.Validate(); err != nil {
				logger.WithError(err).Warn("Ignoring invalid configuration")
				continue
			}
			logger.Info("Configuration reloaded")
			onChange(cfg)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WithError(err).Warn("Config watcher error")
		}
	}
}
