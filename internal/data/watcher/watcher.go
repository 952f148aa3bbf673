package watcher

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/penwyp/go-trace-timeline/internal/core/model"
	"github.com/penwyp/go-trace-timeline/internal/util"
)

// DumpWatcher reports changes to dump files under a set of directories.
// Directories created after start are watched as they appear.
type DumpWatcher struct {
	watcher *fsnotify.Watcher
	match   func(path string) bool
	events  chan model.FileEvent
	done    chan struct{}
	once    sync.Once
}

// NewDumpWatcher watches paths recursively; match selects the files to report
func NewDumpWatcher(paths []string, match func(path string) bool) (*DumpWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dw := &DumpWatcher{
		watcher: w,
		match:   match,
		events:  make(chan model.FileEvent, 100),
		done:    make(chan struct{}),
	}

	for _, path := range paths {
		if err := dw.addPath(path); err != nil {
			w.Close()
			return nil, err
		}
	}

	go dw.processEvents()

	return dw, nil
}

func (dw *DumpWatcher) addPath(path string) error {
	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return dw.watcher.Add(p)
		}
		return nil
	})
}

func (dw *DumpWatcher) processEvents() {
	defer close(dw.events)
	for {
		select {
		case <-dw.done:
			return

		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := dw.addPath(event.Name); err != nil {
						util.LogWarnf("Failed to watch new directory %s: %v", event.Name, err)
					}
					continue
				}
			}

			if dw.match != nil && !dw.match(event.Name) {
				continue
			}

			select {
			case dw.events <- model.FileEvent{Path: event.Name, Operation: event.Op.String()}:
			case <-dw.done:
				return
			}

		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			util.LogError("Dump watch error: " + err.Error())
		}
	}
}

// Events is closed after Close
func (dw *DumpWatcher) Events() <-chan model.FileEvent {
	return dw.events
}

func (dw *DumpWatcher) Close() error {
	var err error
	dw.once.Do(func() {
		close(dw.done)
		err = dw.watcher.Close()
	})
	return err
}
