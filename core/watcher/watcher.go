package watcher

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/appdef/core/logger"
	"github.com/tristendillon/appdef/core/models"
)

type FileWatcher interface {
	Start() error
	Add(dir string) error
	Close() error
}

// FileWatcherImpl runs the fsnotify loop for a set of directories. Without a
// debounce every event is delivered to OnChange on its own.
type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher

	stopOnce sync.Once
	started  bool
	closed   bool
	done     chan struct{}
	watched  map[string]bool
	// pending counts scheduled or running debounced callbacks.
	pending sync.WaitGroup
}

func NewFileWatcher(dirs []string, excludePaths []string) (*FileWatcherImpl, error) {
	fw, err := models.NewFileWatcher(dirs, excludePaths)
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
		done:        make(chan struct{}),
		watched:     make(map[string]bool),
	}, nil
}

// Start adds the configured directories and runs the event loop in the
// background until Close.
func (fw *FileWatcherImpl) Start() error {
	for _, dir := range fw.FileWatcher.Dirs {
		if err := fw.Add(dir); err != nil {
			return err
		}
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	fw.FileWatcher.Mutex.Lock()
	fw.started = true
	fw.FileWatcher.Mutex.Unlock()

	go fw.loop()
	return nil
}

// Add watches one more directory, non-recursively. Adding a directory twice is
// a no-op.
func (fw *FileWatcherImpl) Add(dir string) error {
	dir = filepath.Clean(dir)

	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.watched[dir] {
		return nil
	}
	logger.Debug("Adding watcher for: %s", dir)
	if err := fw.FileWatcher.Watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add watcher for %s: %w", dir, err)
	}
	fw.watched[dir] = true
	return nil
}

func (fw *FileWatcherImpl) loop() {
	defer close(fw.done)

	for {
		select {
		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return
			}

			if fw.shouldExcludePath(event.Name) {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)
			fw.dispatch(event)

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) dispatch(event fsnotify.Event) {
	if fw.FileWatcher.Debounce <= 0 {
		if err := fw.FileWatcher.OnChange(event); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
		return
	}
	fw.debounce(event)
}

func (fw *FileWatcherImpl) debounce(event fsnotify.Event) {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.closed {
		return
	}
	fw.stopTimer()

	fw.pending.Add(1)
	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, func() {
		defer fw.pending.Done()

		fw.FileWatcher.Mutex.Lock()
		closed := fw.closed
		fw.FileWatcher.Mutex.Unlock()
		if closed {
			return
		}

		logger.Debug("File changes detected, recomputing...")
		if err := fw.FileWatcher.OnChange(event); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

// stopTimer cancels a scheduled callback that has not started. Callers hold
// the mutex.
func (fw *FileWatcherImpl) stopTimer() {
	if fw.FileWatcher.DebounceTimer != nil && fw.FileWatcher.DebounceTimer.Stop() {
		fw.pending.Done()
	}
}

// Close stops the event loop and waits for it and any running OnChange call
// to exit. No OnChange call starts after Close returns. It is safe to call
// more than once, but not from inside OnChange.
func (fw *FileWatcherImpl) Close() error {
	var err error
	fw.stopOnce.Do(func() {
		fw.FileWatcher.Mutex.Lock()
		fw.closed = true
		fw.stopTimer()
		started := fw.started
		fw.FileWatcher.Mutex.Unlock()

		if cerr := fw.FileWatcher.OnClose(); cerr != nil {
			logger.Error("Watcher.OnClose failed: %v", cerr)
		}

		err = fw.FileWatcher.Watcher.Close()
		if started {
			<-fw.done
		}
		fw.pending.Wait()
	})
	return err
}

func (fw *FileWatcherImpl) shouldExcludePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".#") || strings.HasSuffix(base, "~") {
		return true
	}

	for _, dir := range fw.FileWatcher.Dirs {
		relPath, err := filepath.Rel(dir, path)
		if err != nil || strings.HasPrefix(relPath, "..") {
			continue
		}
		relPath = filepath.Clean(relPath)
		for _, excludePath := range fw.FileWatcher.ExcludePaths {
			excludePath = filepath.Clean(excludePath)
			if relPath == excludePath || strings.HasPrefix(relPath, excludePath+string(filepath.Separator)) {
				return true
			}
		}
	}

	return false
}
