package file

import (
	"github.com/fsnotify/fsnotify"

	"github.com/basepulse/pulse-agent/pkg/config/source"
)

type watcher struct {
	f  *file
	fw *fsnotify.Watcher
}

func newWatcher(f *file) (source.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fw.Add(f.path); err != nil {
		fw.Close()
		return nil, err
	}

	return &watcher{f: f, fw: fw}, nil
}

func (w *watcher) Next() (*source.ChangeSet, error) {
	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil, source.ErrWatcherStopped
			}
			// 只关心写入与创建（编辑器多为rename+create）
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			cs, err := w.f.Read()
			if err != nil {
				return nil, err
			}
			return cs, nil

		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil, source.ErrWatcherStopped
			}
			return nil, err
		}
	}
}

func (w *watcher) Stop() error {
	return w.fw.Close()
}
