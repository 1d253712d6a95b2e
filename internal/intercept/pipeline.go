package intercept

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/monitoring"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// RequestDelegate inspects one request event. It may suspend (take its time
// under ctx); returning nil means "no opinion".
type RequestDelegate func(ctx context.Context, req types.RequestDetails) (*types.RequestAction, error)

// HeaderDelegate inspects one response-headers event. It must resolve
// synchronously; returning nil means "no opinion".
type HeaderDelegate func(hdr types.HeaderDetails) (*types.HeaderAction, error)

// Pipeline is the ordered, append-only chain of interception delegates wired
// against a handle's session once it becomes available. Evaluation folds
// delegates in registration order and stops at the first defined action; the
// pipeline itself keeps no per-request state, so concurrent in-flight
// requests are evaluated independently.
type Pipeline struct {
	mu       sync.Mutex
	requests []RequestDelegate
	headers  []HeaderDelegate
	wired    bool

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewPipeline creates a pipeline bound to the handle. Hookpoints are
// installed at most once per handle, when its session first becomes
// available; delegates registered before that are honored then.
func NewPipeline(h *surface.Handle, log *logging.Logger, metrics *monitoring.Metrics) *Pipeline {
	p := &Pipeline{
		log:     log.Named("intercept"),
		metrics: metrics,
	}
	h.OnFirstLoad(p.wire)
	return p
}

// RegisterRequestDelegate appends a request delegate. Delegates are never
// removed or reordered.
func (p *Pipeline) RegisterRequestDelegate(d RequestDelegate) {
	p.mu.Lock()
	p.requests = append(p.requests, d)
	p.mu.Unlock()
}

// RegisterHeaderDelegate appends a response-headers delegate.
func (p *Pipeline) RegisterHeaderDelegate(d HeaderDelegate) {
	p.mu.Lock()
	p.headers = append(p.headers, d)
	p.mu.Unlock()
}

func (p *Pipeline) wire(s surface.Session) {
	p.mu.Lock()
	if p.wired {
		p.mu.Unlock()
		return
	}
	p.wired = true
	p.mu.Unlock()

	s.OnBeforeRequest(p.EvaluateRequest)
	s.OnHeadersReceived(p.EvaluateHeaders)
}

// EvaluateRequest folds the request delegates over one request event. The
// first defined action short-circuits the fold; nil means passthrough. A
// delegate that fails or panics counts as "no opinion" for this event only.
func (p *Pipeline) EvaluateRequest(ctx context.Context, req types.RequestDetails) *types.RequestAction {
	for _, d := range p.snapshotRequests() {
		action := p.safeRequest(ctx, d, req)
		if action != nil {
			p.metrics.RecordInterception("request", outcomeLabel(action.Cancel))
			return action
		}
	}
	p.metrics.RecordInterception("request", "passthrough")
	return nil
}

// EvaluateHeaders folds the header delegates over one response-headers
// event. With no opinions the original headers are preserved unmodified.
func (p *Pipeline) EvaluateHeaders(hdr types.HeaderDetails) *types.HeaderAction {
	for _, d := range p.snapshotHeaders() {
		action := p.safeHeaders(d, hdr)
		if action != nil {
			p.metrics.RecordInterception("headers", outcomeLabel(action.Cancel))
			return action
		}
	}
	p.metrics.RecordInterception("headers", "passthrough")
	return &types.HeaderAction{Cancel: false, ResponseHeaders: hdr.ResponseHeaders}
}

func (p *Pipeline) snapshotRequests() []RequestDelegate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests
}

func (p *Pipeline) snapshotHeaders() []HeaderDelegate {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.headers
}

func (p *Pipeline) safeRequest(ctx context.Context, d RequestDelegate, req types.RequestDetails) (action *types.RequestAction) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("request delegate panicked, treating as no opinion",
				zap.String("url", req.URL), zap.Any("panic", r))
			action = nil
		}
	}()

	action, err := d(ctx, req)
	if err != nil {
		p.log.Warn("request delegate failed, treating as no opinion",
			zap.String("url", req.URL), zap.Error(err))
		return nil
	}
	return action
}

func (p *Pipeline) safeHeaders(d HeaderDelegate, hdr types.HeaderDetails) (action *types.HeaderAction) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Warn("header delegate panicked, treating as no opinion",
				zap.String("url", hdr.URL), zap.Any("panic", r))
			action = nil
		}
	}()

	action, err := d(hdr)
	if err != nil {
		p.log.Warn("header delegate failed, treating as no opinion",
			zap.String("url", hdr.URL), zap.Error(err))
		return nil
	}
	return action
}

func outcomeLabel(cancel bool) string {
	if cancel {
		return "deny"
	}
	return "act"
}
