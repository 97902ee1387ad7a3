package tui

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// fileWatcher reloads the reviewed file into the buffer when it changes on
// disk.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func newFileWatcher(path string) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}
	return &fileWatcher{path: path, watcher: w}, nil
}

// wait returns a command that blocks until the next write to the file and
// yields its fresh contents.
func (f *fileWatcher) wait() tea.Cmd {
	return func() tea.Msg {
		for {
			ev, ok := <-f.watcher.Events
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			data, err := os.ReadFile(f.path)
			if err != nil {
				continue
			}
			return fileReloadMsg{content: string(data)}
		}
	}
}

func (f *fileWatcher) close() {
	f.watcher.Close()
}
