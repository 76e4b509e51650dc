package library

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/olivier-w/lrcplay/internal/media"
)

const settleDelay = 300 * time.Millisecond

// Watcher reports changes to the audio and lyric files in a folder.
type Watcher struct {
	fs      *fsnotify.Watcher
	logger  *log.Logger
	changes chan struct{}
	done    chan struct{}

	mu      sync.Mutex
	pending *time.Timer
	closed  bool
	wg      sync.WaitGroup
}

// Watch starts watching dir. Bursts of events are coalesced into a single
// signal on Changes once the folder has been quiet for a moment.
func Watch(dir string, logger *log.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	w := &Watcher{
		fs:      fw,
		logger:  logger,
		changes: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	logger.Printf("watching %s for library changes", dir)
	return w, nil
}

// Changes is signalled after the folder contents change. Signals are not
// queued; a pending signal absorbs later ones.
func (w *Watcher) Changes() <-chan struct{} { return w.changes }

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.logger.Printf("library event: %s on %s", ev.Op, ev.Name)
			w.schedule()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Printf("library watcher error: %v", err)
		}
	}
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Write) {
		return false
	}
	ext := filepath.Ext(ev.Name)
	return media.IsAudioExt(ext) || media.IsLyricsExt(ext)
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(settleDelay, w.notify)
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
