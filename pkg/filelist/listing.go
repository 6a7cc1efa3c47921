package filelist

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/adc-share/sharecore/internal/logger"
)

// Listener receives navigation and load lifecycle events from a
// Listing, mirroring spec.md §4.6's LoadingStarted/LoadingFinished/
// LoadingFailed notifications.
//
// Grounded on the same callback-interface idiom as search.Listener,
// itself grounded on the teacher's pkg/metadata/lock.LeaseBreakCallback.
type Listener interface {
	LoadingStarted(path string, loadType LoadType)
	LoadingFinished(path string, loadType LoadType)
	LoadingFailed(path string, err error)
}

// Loader fetches the raw filelist XML for one directory change, e.g.
// by issuing a UGetFilelist/ADC GET request to a remote peer and
// returning the response body.
type Loader func(path string) (io.Reader, error)

// loadTask is one unit of dispatcher work: bring the directory at
// path up to date per loadType by invoking load.
type loadTask struct {
	path     string
	loadType LoadType
	load     Loader
}

// Listing is a navigable local mirror of a remote peer's share tree,
// populated incrementally as the user (or a background refresh)
// requests subtrees.
//
// The dispatch queue is a buffered channel drained by one goroutine,
// matching the teacher's pkg/flusher/background.go single-worker-over-
// a-channel shape (BackgroundUploader), reused here for serial
// directory-change loads instead of block-store uploads: spec.md §5
// requires loads for one Listing to apply strictly in request order,
// which a single worker gives for free.
type Listing struct {
	Root        *Directory
	PartialList bool
	HintedUser  string

	queue     chan loadTask
	stopCh    chan struct{}
	stoppedCh chan struct{}
	wg        sync.WaitGroup

	mu      sync.Mutex
	started bool

	listenersMu sync.Mutex
	listeners   []Listener

	// pending collapses duplicate in-flight loads for the same
	// directory: a second request for a path already queued or being
	// processed is dropped rather than re-enqueued, per spec.md §4.6's
	// "duplicated loads collapse" rule.
	pendingMu sync.Mutex
	pending   map[string]bool
}

// NewListing creates an empty mirror rooted at "/".
func NewListing(hintedUser string, partial bool, queueSize int) *Listing {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Listing{
		Root:        newDirectory("", nil),
		PartialList: partial,
		HintedUser:  hintedUser,
		queue:       make(chan loadTask, queueSize),
		stopCh:      make(chan struct{}),
		stoppedCh:   make(chan struct{}),
		pending:     make(map[string]bool),
	}
}

// AddListener registers l to receive future load lifecycle events.
func (l *Listing) AddListener(listener Listener) {
	l.listenersMu.Lock()
	l.listeners = append(l.listeners, listener)
	l.listenersMu.Unlock()
}

func (l *Listing) forEachListener(fn func(Listener)) {
	l.listenersMu.Lock()
	snapshot := make([]Listener, len(l.listeners))
	copy(snapshot, l.listeners)
	l.listenersMu.Unlock()

	for _, listener := range snapshot {
		fn(listener)
	}
}

// Start spawns the single dispatch worker. Calling Start more than
// once is a no-op.
func (l *Listing) Start() {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	l.wg.Add(1)
	go l.worker()

	go func() {
		l.wg.Wait()
		close(l.stoppedCh)
	}()
}

// Stop signals the worker to drain the queue and exit, waiting up to
// timeout before giving up.
func (l *Listing) Stop(timeout time.Duration) {
	l.mu.Lock()
	if !l.started {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	close(l.stopCh)

	select {
	case <-l.stoppedCh:
	case <-time.After(timeout):
		logger.Warn("filelist listing stop timed out", "user", l.HintedUser)
	}
}

// RequestDirectoryChange enqueues a load for path, per spec.md §4.6's
// navigation rule: if the target subtree is already complete and the
// caller isn't forcing a reload, the cursor can move immediately
// without touching the dispatch queue, so this only enqueues when
// loadType is LoadChangeReload or the directory isn't complete yet.
func (l *Listing) RequestDirectoryChange(path string, loadType LoadType, load Loader) {
	dir := l.Root.FindDirectory(path)
	if dir != nil && dir.Complete && loadType != LoadChangeReload {
		return
	}

	l.pendingMu.Lock()
	if l.pending[path] {
		l.pendingMu.Unlock()
		return
	}
	l.pending[path] = true
	l.pendingMu.Unlock()

	if dir != nil {
		dir.LoadType = loadType
	}

	l.forEachListener(func(listener Listener) {
		listener.LoadingStarted(path, loadType)
	})

	select {
	case l.queue <- loadTask{path: path, loadType: loadType, load: load}:
	default:
		logger.Warn("filelist dispatch queue full, dropping load", "path", path)
		l.pendingMu.Lock()
		delete(l.pending, path)
		l.pendingMu.Unlock()
		if dir != nil {
			dir.LoadType = LoadNone
		}
		l.forEachListener(func(listener Listener) {
			listener.LoadingFailed(path, fmt.Errorf("filelist: dispatch queue full for %q", path))
		})
	}
}

func (l *Listing) worker() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopCh:
			l.drain()
			return
		case task, ok := <-l.queue:
			if !ok {
				return
			}
			l.process(task)
		}
	}
}

func (l *Listing) drain() {
	for {
		select {
		case task, ok := <-l.queue:
			if !ok {
				return
			}
			l.process(task)
		default:
			return
		}
	}
}

func (l *Listing) process(task loadTask) {
	defer func() {
		l.pendingMu.Lock()
		delete(l.pending, task.path)
		l.pendingMu.Unlock()
	}()

	r, err := task.load(task.path)
	if err != nil {
		l.failLoad(task.path, err)
		return
	}

	if _, err := LoadXML(l, task.path, r); err != nil {
		l.failLoad(task.path, err)
		return
	}

	if dir := l.Root.FindDirectory(task.path); dir != nil {
		dir.LoadType = LoadNone
	}

	l.forEachListener(func(listener Listener) {
		listener.LoadingFinished(task.path, task.loadType)
	})
}

func (l *Listing) failLoad(path string, err error) {
	if dir := l.Root.FindDirectory(path); dir != nil {
		dir.LoadType = LoadNone
	}
	l.forEachListener(func(listener Listener) {
		listener.LoadingFailed(path, err)
	})
}
