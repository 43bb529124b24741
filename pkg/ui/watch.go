package ui

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"tasklist/pkg/store"
	"tasklist/pkg/utils"
)

// fileChangedMsg is sent when the task file changes on disk
type fileChangedMsg struct{}

type watchErrMsg struct{ err error }

// Watch starts reloading the view when the task file is changed by another
// process, e.g. a CLI command in a second terminal. Only file backends can
// be watched; for other backends it does nothing. Call before the program
// starts, and Close when it exits.
func (m *Model) Watch() error {
	fb, ok := m.store.Backend().(*store.FileBackend)
	if !ok {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: atomic saves replace the file, which drops a
	// watch placed on the file itself.
	dir := filepath.Dir(fb.Path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	utils.Log("Watching %s for changes", fb.Path)
	m.watcher = watcher
	m.watchFile = filepath.Base(fb.Path)
	return nil
}

// Close stops the file watcher
func (m Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}

// waitForChange blocks until the next relevant event
func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	watcher, name := m.watcher, m.watchFile

	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Base(ev.Name) != name {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
					return fileChangedMsg{}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}
