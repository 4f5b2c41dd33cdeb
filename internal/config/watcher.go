package config

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"testservice/internal/logger"
)

// FileWatcher calls onChange whenever the watched file is written or
// recreated. The parent directory is watched so editors that replace the
// file on save are still seen.
type FileWatcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onChange func()

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewFileWatcher creates a watcher for path. Call Start to begin watching.
func NewFileWatcher(path string, onChange func()) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &FileWatcher{
		path:     path,
		watcher:  w,
		onChange: onChange,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for file changes.
func (fw *FileWatcher) Start() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.running {
		return nil
	}

	if err := fw.watcher.Add(filepath.Dir(fw.path)); err != nil {
		return err
	}
	fw.running = true

	log := logger.WithComponent("config-watch")
	log.Info().Str("path", fw.path).Msg("Watching configuration file")

	go fw.loop()
	return nil
}

// Stop stops watching and waits for the watch goroutine to exit.
// The watcher cannot be restarted.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	wasRunning := fw.running
	fw.running = false
	fw.mu.Unlock()

	if !wasRunning {
		return fw.watcher.Close()
	}
	close(fw.stop)
	err := fw.watcher.Close()
	<-fw.done
	return err
}

func (fw *FileWatcher) loop() {
	defer close(fw.done)
	log := logger.WithComponent("config-watch")
	name := filepath.Base(fw.path)

	for {
		select {
		case <-fw.stop:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info().
				Str("path", fw.path).
				Str("event", event.Op.String()).
				Msg("Configuration file changed")
			if fw.onChange != nil {
				fw.onChange()
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Error().Err(err).Str("path", fw.path).Msg("Configuration watcher error")
		}
	}
}

// NewLoggingWatcher reloads the Logging section of the file at path on every
// change and passes it to callback. Unreadable or invalid files are logged
// and skipped, keeping the current logger.
func NewLoggingWatcher(path string, callback func(*logger.Config)) (*FileWatcher, error) {
	return NewFileWatcher(path, func() {
		log := logger.WithComponent("config-watch")
		lc, err := LoadLogging(path)
		if err != nil {
			log.Error().Err(err).Msg("Failed to reload logging configuration")
			return
		}
		if callback != nil {
			callback(lc)
		}
	})
}
