package index

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reindexes files as they change below the discovery root.
// Events are collected until the tree has been quiet for the debounce
// interval, then handled as one batch.
type Watcher struct {
	indexer   *Indexer
	discovery *Discovery
	watcher   *fsnotify.Watcher
	debounce  time.Duration
	// OnBatch, when set, is called after each batch.
	OnBatch func(Stats, error)

	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

func NewWatcher(ix *Indexer, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		indexer:   ix,
		discovery: ix.discovery,
		watcher:   fw,
		debounce:  debounce,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	if err := w.addRecursive(ix.discovery.Root(), nil); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop ends the event loop and waits for it to finish.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

// addRecursive watches dir and its subdirectories. Files already present
// are passed to found, since their creation may predate the watch.
func (w *Watcher) addRecursive(dir string, found func(rel string)) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := w.discovery.Rel(path)
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			if found != nil && w.discovery.Matches(rel) {
				found(rel)
			}
			return nil
		}
		if rel != "." && w.discovery.excluded(rel+"/") {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					err := w.addRecursive(event.Name, func(rel string) { pending[rel] = true })
					if err != nil {
						log.Warningf("cannot watch %s: %v", event.Name, err)
					}
					timer.Reset(w.debounce)
					continue
				}
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, err := w.discovery.Rel(event.Name)
			if err != nil || !w.discovery.Matches(rel) {
				continue
			}
			pending[rel] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			w.flush(ctx, pending)
			pending = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("file watcher: %v", err)
		}
	}
}

// flush reindexes files that still exist and removes the others.
func (w *Watcher) flush(ctx context.Context, pending map[string]bool) {
	if len(pending) == 0 {
		return
	}
	var changed, removed []string
	for rel := range pending {
		if _, err := os.Stat(w.discovery.Abs(rel)); errors.Is(err, fs.ErrNotExist) {
			removed = append(removed, rel)
		} else {
			changed = append(changed, rel)
		}
	}
	sort.Strings(changed)
	sort.Strings(removed)

	log.Infof("reindexing %d changed and %d removed files", len(changed), len(removed))
	err := w.indexer.Remove(removed)
	var stats Stats
	if err == nil {
		stats, err = w.indexer.Run(ctx, changed)
	}
	if err != nil {
		log.Errorf("reindex: %v", err)
	}
	if w.OnBatch != nil {
		w.OnBatch(stats, err)
	}
}
