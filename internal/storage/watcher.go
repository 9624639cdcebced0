package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/gabrielfornes/scribble/internal/log"
)

// ChangedMsg reports that a file in the root was written, created or
// removed by someone.
type ChangedMsg struct {
	Name    string
	Removed bool
}

// Watcher monitors the store root using fsnotify.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	events    chan ChangedMsg
	stop      chan struct{}
	once      sync.Once
}

// Watch starts watching the store root.
func (s *Store) Watch() (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := fsWatcher.Add(s.Root); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", s.Root, err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		events:    make(chan ChangedMsg, 16),
		stop:      make(chan struct{}),
	}
	go w.loop()
	log.LogWithFields(log.F("directory", s.Root)).Info("Watching directory")
	return w, nil
}

func (w *Watcher) loop() {
	defer close(w.events)
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if len(name) == 0 || name[0] == '.' {
				continue
			}

			var msg ChangedMsg
			switch {
			case event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write):
				// The file might have been quickly deleted again, or be a directory
				info, err := os.Stat(event.Name)
				if err != nil || info.IsDir() {
					continue
				}
				msg = ChangedMsg{Name: name}
			case event.Op.Has(fsnotify.Remove) || event.Op.Has(fsnotify.Rename):
				msg = ChangedMsg{Name: name, Removed: true}
			default:
				continue
			}

			// Send non-blockingly so a slow UI never stalls the watcher
			select {
			case w.events <- msg:
			default:
				log.LogWithFields(log.F("file", name)).Warn("Event channel is full, dropped event")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.LogWithFields(log.F("error", err)).Error("fsnotify watcher error")

		case <-w.stop:
			return
		}
	}
}

// Next returns a command that waits for the next change. The host re-issues
// it after handling each ChangedMsg. It yields nil once the watcher closes.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-w.events
		if !ok {
			return nil
		}
		return msg
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fsWatcher.Close()
	})
	return err
}
