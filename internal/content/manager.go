package content

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	fsutil "github.com/kk-code-lab/rpane/internal/fs"
	"github.com/kk-code-lab/rpane/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned by Submit once the manager no longer accepts requests.
var ErrClosed = errors.New("content manager closed")

// Origin names the panel slot a request was made for. It is carried through
// to the notification untouched.
type Origin int

const (
	OriginCurrent Origin = iota
	OriginParent
	OriginRight
)

func (o Origin) String() string {
	switch o {
	case OriginParent:
		return "parent"
	case OriginRight:
		return "right"
	default:
		return "current"
	}
}

// Request asks for the content of one path.
type Request struct {
	Kind       Kind
	Path       string
	WantHidden bool
	Force      bool // bypass the cache freshness check
	Origin     Origin
}

// Notification answers one Request. Exactly one of Dir and Preview is set,
// matching Kind. The snapshot may be shared with the cache and with other
// notifications.
type Notification struct {
	Kind      Kind
	Path      string
	Origin    Origin
	Dir       *DirSnapshot
	Preview   *PreviewSnapshot
	Coalesced bool // answered by another requester's read
}

// Options tunes a Manager.
type Options struct {
	QueueSize int
	Workers   int
	Logger    *zap.Logger
}

// flight tracks the requesters of one in-progress read. Forced requests that
// arrive after the read started may have missed the change they were sent
// for, so they wait for a second read instead.
type flight struct {
	waiters []Request
	again   []Request
}

type completion struct {
	key     Key
	dir     *DirSnapshot
	preview *PreviewSnapshot
}

// Manager serves content requests in the background. Concurrent requests for
// the same path and kind share one filesystem read, and every requester is
// notified in the order its request arrived.
type Manager struct {
	cache  *Cache
	loader Loader
	log    *zap.Logger

	requests  chan Request
	done      chan completion
	outbox    *outbox
	workers   *semaphore.Weighted
	closeOnce sync.Once
	closed    chan struct{}
	sendMu    sync.RWMutex  // held for reading by Submit while it sends
	sealed    chan struct{} // closed once no Submit can send any more

	// owned by the Run goroutine
	inflight map[Key]*flight
	wg       sync.WaitGroup
}

// NewManager creates a manager that reads through loader and fills cache.
func NewManager(cache *Cache, loader Loader, opts Options) *Manager {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 8
	}
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		cache:    cache,
		loader:   loader,
		log:      opts.Logger,
		requests: make(chan Request, opts.QueueSize),
		done:     make(chan completion),
		outbox:   newOutbox(),
		workers:  semaphore.NewWeighted(int64(opts.Workers)),
		closed:   make(chan struct{}),
		sealed:   make(chan struct{}),
		inflight: make(map[Key]*flight),
	}
}

// Submit queues req, waiting while the request queue is full.
func (m *Manager) Submit(ctx context.Context, req Request) error {
	m.sendMu.RLock()
	defer m.sendMu.RUnlock()
	select {
	case <-m.closed:
		return ErrClosed
	default:
	}
	select {
	case m.requests <- req:
		return nil
	case <-m.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops accepting requests. Run answers what is already queued or in
// flight, then closes the notification channel.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.closed)
		// wait out senders that passed the closed check
		m.sendMu.Lock()
		close(m.sealed)
		m.sendMu.Unlock()
	})
}

// Notifications delivers one notification per request. It is closed when Run
// returns.
func (m *Manager) Notifications() <-chan Notification {
	return m.outbox.out
}

// Run serves requests until ctx is cancelled or Close is called.
func (m *Manager) Run(ctx context.Context) error {
	go m.outbox.run(ctx)
	defer close(m.outbox.in)

	sealed := m.sealed
	for {
		if sealed == nil && len(m.requests) == 0 && len(m.inflight) == 0 {
			m.wg.Wait()
			return nil
		}

		select {
		case <-ctx.Done():
			m.wg.Wait()
			return nil
		case <-sealed:
			sealed = nil
		case req := <-m.requests:
			m.dispatch(ctx, req)
		case c := <-m.done:
			m.complete(ctx, c)
		}
	}
}

func (m *Manager) dispatch(ctx context.Context, req Request) {
	req.Path = filepath.Clean(req.Path)
	key := Key{Kind: req.Kind, Path: req.Path}

	if f, ok := m.inflight[key]; ok {
		// once a second read is queued, later requests join it so that
		// notifications for the key stay in request order
		if req.Force || len(f.again) > 0 {
			f.again = append(f.again, req)
		} else {
			f.waiters = append(f.waiters, req)
		}
		metrics.RecordCoalesced()
		m.log.Debug("coalesced request",
			zap.String("kind", req.Kind.String()),
			zap.String("path", req.Path),
			zap.Bool("force", req.Force))
		return
	}

	m.start(ctx, key, &flight{waiters: []Request{req}})
}

func (m *Manager) start(ctx context.Context, key Key, f *flight) {
	m.inflight[key] = f
	m.wg.Add(1)
	go m.work(ctx, key, f.waiters[0])
}

func (m *Manager) work(ctx context.Context, key Key, req Request) {
	defer m.wg.Done()

	if err := m.workers.Acquire(ctx, 1); err != nil {
		return
	}
	start := time.Now()
	c := m.load(key, req)
	m.workers.Release(1)
	metrics.ObserveLoad(key.Kind.String(), time.Since(start))

	select {
	case m.done <- c:
	case <-ctx.Done():
	}
}

// load stats the path and reuses the cached snapshot when its modification
// time still matches; otherwise it reads and caches a fresh one.
func (m *Manager) load(key Key, req Request) completion {
	c := completion{key: key}
	cacheKey := Key{Kind: key.Kind, Path: fsutil.Canonical(key.Path)}
	if req.Force {
		m.cache.Invalidate(cacheKey)
	}

	info, err := m.loader.Stat(cacheKey.Path)
	if err != nil {
		m.cache.Invalidate(cacheKey)
		m.log.Debug("stat failed", zap.String("path", key.Path), zap.Error(err))
		metrics.RecordLoadError(key.Kind.String())
		if key.Kind == KindPreview {
			c.preview = ErrorPreview(key.Path, err)
		} else {
			c.dir = ErrorDirSnapshot(key.Path, err, req.WantHidden)
		}
		return c
	}

	if cached, ok := m.cache.Get(cacheKey); ok && cached.Modified().Equal(info.ModTime()) {
		switch snap := cached.(type) {
		case *DirSnapshot:
			c.dir = snap
		case *PreviewSnapshot:
			c.preview = snap
		}
		return c
	}

	metrics.RecordFilesystemRead(key.Kind.String())
	var snap Snapshot
	var loadErr error
	if key.Kind == KindPreview {
		c.preview = m.loader.ReadPreview(cacheKey.Path, info)
		snap, loadErr = c.preview, c.preview.Err
	} else {
		c.dir = m.loader.ReadDirectory(cacheKey.Path, info, req.WantHidden)
		snap, loadErr = c.dir, c.dir.Err
	}

	if loadErr != nil {
		metrics.RecordLoadError(key.Kind.String())
		m.log.Debug("read failed", zap.String("path", key.Path), zap.Error(loadErr))
		return c
	}
	m.cache.Insert(cacheKey, snap)
	return c
}

func (m *Manager) complete(ctx context.Context, c completion) {
	f := m.inflight[c.key]
	delete(m.inflight, c.key)
	if f == nil {
		return
	}

	for i, req := range f.waiters {
		m.outbox.publish(ctx, Notification{
			Kind:      req.Kind,
			Path:      req.Path,
			Origin:    req.Origin,
			Dir:       c.dir,
			Preview:   c.preview,
			Coalesced: i > 0,
		})
		metrics.RecordNotification()
	}

	if len(f.again) > 0 {
		m.start(ctx, c.key, &flight{waiters: f.again})
	}
}
