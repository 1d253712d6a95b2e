package bridge

import (
	"sync"

	"go.uber.org/zap"

	"github.com/vellumos/webview/internal/channel"
	"github.com/vellumos/webview/internal/intercept"
	"github.com/vellumos/webview/internal/keyboard"
	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/monitoring"
	"github.com/vellumos/webview/internal/portmap"
	"github.com/vellumos/webview/internal/resource"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// Inbound channel names (surface to bridge).
const (
	ChannelMessage        = "message"
	ChannelDidClickLink   = "did-click-link"
	ChannelMouseEvent     = "synthetic-mouse-event"
	ChannelDidSetContent  = "did-set-content"
	ChannelDidScroll      = "did-scroll"
	ChannelDoReload       = "do-reload"
	ChannelDoUpdateState  = "do-update-state"
	ChannelDidFocus       = "did-focus"
	ChannelDidBlur        = "did-blur"
	ChannelNoCSPFound     = "no-csp-found"
	ChannelDevtoolsOpened = "devtools-opened"
	ChannelFoundInPage    = "found-in-page"
	ChannelDidKeydown     = "did-keydown"
	ChannelDidKeyup       = "did-keyup"
)

// Outbound channel names (bridge to surface).
const (
	ChannelContent       = "content"
	ChannelFocus         = "focus"
	ChannelStyles        = "styles"
	ChannelInitialScroll = "initial-scroll-position"
)

// Config wires a bridge to its capabilities.
type Config struct {
	Surface   surface.Surface
	Transport channel.Transport
	Input     surface.InputDispatcher

	// ExtensionLocation returns the current extension install location;
	// evaluated per resource request.
	ExtensionLocation func() string

	// Tunnels resolves mapped ports to live endpoints.
	Tunnels portmap.TunnelService

	// SupportsMenuAccelerators is the platform capability flag for menu
	// accelerator suppression.
	SupportsMenuAccelerators bool

	// ResourceLoader overrides filesystem resource loading. Nil gets the
	// default loader.
	ResourceLoader resource.Loader

	Logger  *logging.Logger
	Metrics *monitoring.Metrics
}

// contentPayload is the whole-state replace pushed on the content channel.
type contentPayload struct {
	HTML    string               `json:"html"`
	Options types.ContentOptions `json:"options"`
	State   *string              `json:"state,omitempty"`
}

// Bridge is the top-level composition mediating between the trusted host and
// one sandboxed content surface: content synchronization, message channels,
// focus bridging, input routing, and the find protocol.
type Bridge struct {
	handle   *surface.Handle
	pipeline *intercept.Pipeline
	channels *channel.Registry
	surf     surface.Surface
	tx       channel.Transport
	keys     *keyboard.Bridge

	mu         sync.Mutex
	descriptor types.ContentDescriptor
	ready      bool
	destroyed  bool
	pending    []types.Message
	focused    bool
	find       findSession
	scrollPos  float64
	cspWarned  bool

	onDidFocus        []func()
	onDidBlur         []func()
	onDidClickLink    []func(uri string)
	onDidScroll       []func(pos float64)
	onDidUpdateState  []func(state *string)
	onMissingCSP      []func()
	onDevtoolsOpened  []func()
	onFindResult      []func(hasResult bool)
	onCrashed         []func(reason string)

	log     *logging.Logger
	metrics *monitoring.Metrics
}

// New composes a bridge over the given surface and transport.
func New(cfg Config) *Bridge {
	log := cfg.Logger
	if log == nil {
		log = logging.NewDefault()
	}

	b := &Bridge{
		surf:    cfg.Surface,
		tx:      cfg.Transport,
		log:     log.Named("bridge"),
		metrics: cfg.Metrics,
	}

	b.handle = surface.NewHandle(cfg.Surface, log)
	b.pipeline = intercept.NewPipeline(b.handle, log, cfg.Metrics)
	resource.NewBinding(b.handle, resource.Config{
		ExtensionLocation:  cfg.ExtensionLocation,
		LocalResourceRoots: b.localResourceRoots,
	}, cfg.ResourceLoader, log, cfg.Metrics)
	portmap.NewBinding(b.pipeline, b.portMappings, cfg.Tunnels, log)
	b.keys = keyboard.NewBridge(cfg.Input, cfg.SupportsMenuAccelerators, log)

	b.channels = channel.NewRegistry(log)
	b.subscribeInbound()

	cfg.Transport.OnMessage(func(msg types.Message) {
		b.metrics.RecordMessage("in", msg.Channel)
		b.channels.Dispatch(msg)
	})

	cfg.Surface.OnDestroyed(b.markDestroyed)
	cfg.Surface.OnCrashed(b.handleCrash)

	return b
}

// Pipeline exposes delegate registration for host-side interception policy.
func (b *Bridge) Pipeline() *intercept.Pipeline {
	return b.pipeline
}

// SetHTML replaces the descriptor's HTML and pushes the full content state.
func (b *Bridge) SetHTML(html string) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.descriptor = b.descriptor.WithHTML(html)
	b.mu.Unlock()
	b.pushContent()
}

// SetContentOptions replaces the descriptor's options and pushes, unless the
// new options are semantically unchanged.
func (b *Bridge) SetContentOptions(opts types.ContentOptions) {
	b.mu.Lock()
	if b.destroyed || b.descriptor.Options.Equal(opts) {
		b.mu.Unlock()
		return
	}
	b.descriptor = b.descriptor.WithOptions(opts)
	b.mu.Unlock()
	b.pushContent()
}

// SetState replaces only the descriptor's state. State lives inside the
// surface already, so no content push is triggered.
func (b *Bridge) SetState(state *string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	b.descriptor = b.descriptor.WithState(state)
}

// Descriptor returns the current content descriptor.
func (b *Bridge) Descriptor() types.ContentDescriptor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.descriptor
}

// SetStyles pushes a theme payload to the surface.
func (b *Bridge) SetStyles(payload any) {
	b.Send(ChannelStyles, payload)
}

// Send queues payload on the named channel until the surface has applied its
// first content, then delivers at most once, in order, with no retry.
// Sends after destruction are dropped and logged.
func (b *Bridge) Send(ch string, payload any) {
	msg := types.Message{Channel: ch, Payload: payload}

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		b.dropMessage(msg)
		return
	}
	if !b.ready {
		b.pending = append(b.pending, msg)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.sendNow(msg)
}

// On registers a subscriber for an inbound channel. Multiple subscribers per
// channel fan out in registration order.
func (b *Bridge) On(ch string, handler channel.Handler) {
	b.channels.Subscribe(ch, handler)
}

// Focus asks the surface for focus and immediately synthesizes the
// became-focused transition locally; round-trip confirmation from the
// surface is unreliable.
func (b *Bridge) Focus() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()

	b.surf.Focus()
	b.handleFocusSignal()
}

// Focused reports the bridge's local view of surface focus.
func (b *Bridge) Focused() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.focused
}

// Reload re-pushes the full current descriptor. This is the recovery path
// after a surface crash; channel subscriptions are unaffected.
func (b *Bridge) Reload() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	b.pushContent()
}

// Destroyed reports whether the surface's terminal destroy was observed.
func (b *Bridge) Destroyed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.destroyed
}

// Notification registration. Callbacks fire in registration order.

func (b *Bridge) OnDidFocus(fn func())               { b.mu.Lock(); b.onDidFocus = append(b.onDidFocus, fn); b.mu.Unlock() }
func (b *Bridge) OnDidBlur(fn func())                { b.mu.Lock(); b.onDidBlur = append(b.onDidBlur, fn); b.mu.Unlock() }
func (b *Bridge) OnDidClickLink(fn func(string))     { b.mu.Lock(); b.onDidClickLink = append(b.onDidClickLink, fn); b.mu.Unlock() }
func (b *Bridge) OnDidScroll(fn func(float64))       { b.mu.Lock(); b.onDidScroll = append(b.onDidScroll, fn); b.mu.Unlock() }
func (b *Bridge) OnDidUpdateState(fn func(*string))  { b.mu.Lock(); b.onDidUpdateState = append(b.onDidUpdateState, fn); b.mu.Unlock() }
func (b *Bridge) OnMissingCSP(fn func())             { b.mu.Lock(); b.onMissingCSP = append(b.onMissingCSP, fn); b.mu.Unlock() }
func (b *Bridge) OnDevtoolsOpened(fn func())         { b.mu.Lock(); b.onDevtoolsOpened = append(b.onDevtoolsOpened, fn); b.mu.Unlock() }
func (b *Bridge) OnFindResult(fn func(bool))         { b.mu.Lock(); b.onFindResult = append(b.onFindResult, fn); b.mu.Unlock() }
func (b *Bridge) OnCrashed(fn func(string))          { b.mu.Lock(); b.onCrashed = append(b.onCrashed, fn); b.mu.Unlock() }

// pushContent sends the whole descriptor as one atomic content message.
// Content pushes bypass the readiness queue: the first push is what produces
// the readiness acknowledgment in the first place.
func (b *Bridge) pushContent() {
	b.mu.Lock()
	payload := contentPayload{
		HTML:    b.maybeSanitize(b.descriptor.HTML),
		Options: b.descriptor.Options,
		State:   b.descriptor.State,
	}
	scroll := b.scrollPos
	b.mu.Unlock()

	b.sendNow(types.Message{Channel: ChannelContent, Payload: payload})
	if scroll != 0 {
		b.sendNow(types.Message{Channel: ChannelInitialScroll, Payload: scroll})
	}
}

func (b *Bridge) sendNow(msg types.Message) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		b.dropMessage(msg)
		return
	}
	b.mu.Unlock()

	if err := b.tx.Send(msg); err != nil {
		b.log.Warn("transport send failed", zap.String("channel", msg.Channel), zap.Error(err))
		return
	}
	b.metrics.RecordMessage("out", msg.Channel)
}

func (b *Bridge) dropMessage(msg types.Message) {
	b.metrics.RecordDroppedSend()
	b.log.Warn("message dropped: surface destroyed", zap.String("channel", msg.Channel))
}

func (b *Bridge) markDestroyed() {
	b.mu.Lock()
	b.destroyed = true
	b.pending = nil
	b.mu.Unlock()
	b.log.Debug("bridge destroyed")
}

func (b *Bridge) handleCrash(reason string) {
	b.mu.Lock()
	callbacks := b.onCrashed
	b.mu.Unlock()

	b.log.Warn("surface crashed", zap.String("reason", reason))
	for _, fn := range callbacks {
		fn(reason)
	}
}

func (b *Bridge) localResourceRoots() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.descriptor.Options.LocalResourceRoots
}

func (b *Bridge) portMappings() []types.PortMapping {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.descriptor.Options.PortMappings
}
