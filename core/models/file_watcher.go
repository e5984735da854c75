package models

import (
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tristendillon/appdef/core/logger"
)

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	Dirs          []string
	ExcludePaths  []string
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Mutex         sync.Mutex
	OnStart       func() error
	OnChange      func(event fsnotify.Event) error
	OnClose       func() error
}

// NewFileWatcher watches each of dirs without descending into subdirectories.
func NewFileWatcher(dirs []string, excludePaths []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw := &FileWatcher{
		Watcher:      watcher,
		Dirs:         dirs,
		OnStart:      func() error { return nil },
		OnChange:     func(fsnotify.Event) error { return fmt.Errorf("OnChange not set") },
		OnClose:      func() error { return nil },
		ExcludePaths: append([]string{".git"}, excludePaths...),
	}

	logger.Debug("Excluding paths: %v", fw.ExcludePaths)
	return fw, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func(event fsnotify.Event) error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}
