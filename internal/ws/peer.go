package ws

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vellumos/webview/internal/channel"
	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// Lifecycle channel names consumed by the peer itself instead of being
// dispatched into the channel registry.
const (
	lifecycleStartLoading = "did-start-loading"
	lifecycleCrashed      = "crashed"
)

// Outbound control channels the peer emits for surface operations.
const (
	controlFind     = "find"
	controlStopFind = "stop-find"
	controlFocus    = "focus"
	controlReload   = "reload"
)

// Peer adapts one websocket connection into both halves the bridge needs: a
// raw message transport and a content surface. The network session is a host
// capability injected at construction; the connection only carries events.
type Peer struct {
	ID      string
	conn    *websocket.Conn
	session surface.Session
	limiter *rate.Limiter

	writeMu sync.Mutex

	mu           sync.Mutex
	closed       bool
	handlers     []func(types.Message)
	startLoading []func()
	destroyed    []func()
	crashed      []func(string)
	originX      float64
	originY      float64

	log *logging.Logger
}

var _ channel.Transport = (*Peer)(nil)
var _ surface.Surface = (*Peer)(nil)

// NewPeer wraps an upgraded connection. messagesPerSecond bounds inbound
// message processing; zero disables the limit.
func NewPeer(conn *websocket.Conn, session surface.Session, messagesPerSecond int, log *logging.Logger) *Peer {
	var limiter *rate.Limiter
	if messagesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(messagesPerSecond), messagesPerSecond*2)
	}
	return &Peer{
		ID:      uuid.New().String(),
		conn:    conn,
		session: session,
		limiter: limiter,
		log:     log.Named("ws"),
	}
}

// Send encodes one message and writes it to the connection.
func (p *Peer) Send(msg types.Message) error {
	frame, err := channel.Encode(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	closed := p.closed
	p.mu.Unlock()
	if closed {
		return errors.New("ws: connection closed")
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	return p.conn.WriteMessage(websocket.TextMessage, frame)
}

// OnMessage registers a consumer for inbound non-lifecycle messages.
func (p *Peer) OnMessage(fn func(types.Message)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers = append(p.handlers, fn)
}

// Session returns the injected network session.
func (p *Peer) Session() (surface.Session, error) {
	if p.session == nil {
		return nil, errors.New("ws: no session attached")
	}
	return p.session, nil
}

// Focus asks the remote surface to take focus.
func (p *Peer) Focus() {
	p.control(controlFocus, nil)
}

// Reload asks the remote surface to reload its inner frame.
func (p *Peer) Reload() {
	p.control(controlReload, nil)
}

// Find forwards a search request to the remote surface.
func (p *Peer) Find(text string, opts types.FindOptions) {
	p.control(controlFind, map[string]any{"value": text, "options": opts})
}

// StopFind forwards a stop request.
func (p *Peer) StopFind(keepSelection bool) {
	p.control(controlStopFind, map[string]any{"keepSelection": keepSelection})
}

// Origin returns the surface's position in host coordinates.
func (p *Peer) Origin() (float64, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.originX, p.originY
}

// SetOrigin records the surface's position, reported by the embedder.
func (p *Peer) SetOrigin(x, y float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.originX, p.originY = x, y
}

func (p *Peer) OnDidStartLoading(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.startLoading = append(p.startLoading, fn)
}

func (p *Peer) OnDestroyed(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.destroyed = append(p.destroyed, fn)
}

func (p *Peer) OnCrashed(fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.crashed = append(p.crashed, fn)
}

// ReadLoop pumps the connection until it closes, then emits the terminal
// destroy signal. Runs on the caller's goroutine.
func (p *Peer) ReadLoop() {
	defer p.markDestroyed()

	for {
		_, frame, err := p.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				p.log.Debug("read loop ended", zap.String("peer", p.ID), zap.Error(err))
			}
			return
		}

		if p.limiter != nil && !p.limiter.Allow() {
			p.log.Warn("inbound message rate limit exceeded, dropping", zap.String("peer", p.ID))
			continue
		}

		msg, err := channel.Decode(frame)
		if err != nil {
			p.log.Debug("malformed frame ignored", zap.String("peer", p.ID), zap.Error(err))
			continue
		}
		p.route(msg)
	}
}

// route consumes lifecycle signals and fans everything else out to the
// transport consumers.
func (p *Peer) route(msg types.Message) {
	switch msg.Channel {
	case lifecycleStartLoading:
		p.mu.Lock()
		callbacks := append([]func(){}, p.startLoading...)
		p.mu.Unlock()
		for _, fn := range callbacks {
			fn()
		}
	case lifecycleCrashed:
		reason, _ := msg.Payload.(string)
		p.mu.Lock()
		callbacks := append([]func(string){}, p.crashed...)
		p.mu.Unlock()
		for _, fn := range callbacks {
			fn(reason)
		}
	default:
		p.mu.Lock()
		handlers := append([]func(types.Message){}, p.handlers...)
		p.mu.Unlock()
		for _, fn := range handlers {
			fn(msg)
		}
	}
}

func (p *Peer) markDestroyed() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	callbacks := append([]func(){}, p.destroyed...)
	p.mu.Unlock()

	p.conn.Close()
	for _, fn := range callbacks {
		fn()
	}
}

// Close tears the connection down and fires the destroy signal.
func (p *Peer) Close() {
	p.markDestroyed()
}

func (p *Peer) control(channelName string, payload any) {
	if err := p.Send(types.Message{Channel: channelName, Payload: payload}); err != nil {
		p.log.Debug("control send failed", zap.String("channel", channelName), zap.Error(err))
	}
}
