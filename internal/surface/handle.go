package surface

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
)

// handleState is the three-state lifecycle tag of a Handle.
type handleState int

const (
	stateUninitialized handleState = iota
	stateActive
	stateDestroyed
)

// Handle owns the lifecycle reference to one content surface and its network
// session. The session is acquired lazily on first access and cached; the
// Destroyed transition is terminal and invalidates it for good. All other
// components hold a non-owning *Handle and must tolerate Session returning
// nil at any call.
type Handle struct {
	mu        sync.Mutex
	surface   Surface
	state     handleState
	session   Session
	attempted bool
	loaded    bool
	firstLoad []func(Session)
	log       *logging.Logger
}

// NewHandle wraps a surface and begins monitoring its lifecycle signals.
func NewHandle(s Surface, log *logging.Logger) *Handle {
	h := &Handle{
		surface: s,
		log:     log.Named("surface"),
	}
	s.OnDestroyed(h.markDestroyed)
	s.OnDidStartLoading(h.didStartLoading)
	return h
}

// Session returns the cached session reference if the handle is active, nil
// once destroyed or while no reference is obtainable. The first access
// attempts acquisition and caches the outcome, success or failure, until a
// destroy notification invalidates it.
func (h *Handle) Session() Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == stateDestroyed {
		return nil
	}
	if !h.attempted {
		h.acquireLocked()
	}
	return h.session
}

// Destroyed reports whether the terminal transition has been observed.
func (h *Handle) Destroyed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state == stateDestroyed
}

// OnFirstLoad registers a callback for the one-time session-ready
// notification. It fires exactly once per handle, the first time the surface
// signals it has begun loading and a session is obtainable; callbacks
// registered after that point are invoked immediately with the cached
// session. If the surface is destroyed first, callbacks never fire.
func (h *Handle) OnFirstLoad(fn func(Session)) {
	h.mu.Lock()
	if h.loaded && h.state == stateActive {
		s := h.session
		h.mu.Unlock()
		fn(s)
		return
	}
	h.firstLoad = append(h.firstLoad, fn)
	h.mu.Unlock()
}

func (h *Handle) didStartLoading() {
	h.mu.Lock()
	if h.state == stateDestroyed || h.loaded {
		h.mu.Unlock()
		return
	}
	// A failed earlier lazy access must not stop first-load wiring: retry
	// acquisition on every load signal until one succeeds.
	if h.session == nil {
		h.acquireLocked()
	}
	if h.session == nil {
		h.mu.Unlock()
		return
	}
	h.loaded = true
	callbacks := h.firstLoad
	h.firstLoad = nil
	s := h.session
	h.mu.Unlock()

	for _, fn := range callbacks {
		fn(s)
	}
}

func (h *Handle) markDestroyed() {
	h.mu.Lock()
	h.state = stateDestroyed
	h.session = nil
	h.firstLoad = nil
	h.mu.Unlock()
	h.log.Debug("surface destroyed")
}

// acquireLocked attempts session acquisition. Caller holds h.mu.
func (h *Handle) acquireLocked() {
	h.attempted = true
	s, err := h.surface.Session()
	if err != nil {
		h.log.Debug("session not yet obtainable", zap.Error(err))
		return
	}
	h.session = s
	h.state = stateActive
}
