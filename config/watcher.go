package config

import (
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/commstack/portal/mlog"
)

// watcher monitors a file for changes, calling the given callback
// when the file is modified.
type watcher struct {
	fsWatcher *fsnotify.Watcher
	close     chan struct{}
	closed    chan struct{}
}

func newWatcher(path string, callback func()) (w *watcher, err error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create fsnotify watcher for %s", path)
	}

	path = filepath.Clean(path)

	// Watch the entire containing directory, since the file may be replaced
	// atomically by a rename (editors and orchestrators commonly do this).
	configDir, _ := filepath.Split(path)
	if err := fsWatcher.Add(configDir); err != nil {
		if closeErr := fsWatcher.Close(); closeErr != nil {
			mlog.Error("failed to stop fsnotify watcher", mlog.Err(closeErr))
		}
		return nil, errors.Wrapf(err, "failed to watch directory %s", configDir)
	}

	w = &watcher{
		fsWatcher: fsWatcher,
		close:     make(chan struct{}),
		closed:    make(chan struct{}),
	}

	go func() {
		defer close(w.closed)

		for {
			select {
			case event := <-fsWatcher.Events:
				if filepath.Clean(event.Name) == path {
					if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
						mlog.Info("Config file watcher detected a change", mlog.String("path", path))
						callback()
					}
				}
			case err := <-fsWatcher.Errors:
				mlog.Error("Failed while watching config file", mlog.String("path", path), mlog.Err(err))
			case <-w.close:
				return
			}
		}
	}()

	return w, nil
}

func (w *watcher) Close() error {
	close(w.close)
	<-w.closed

	return w.fsWatcher.Close()
}
