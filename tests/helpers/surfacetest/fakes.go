// Package surfacetest provides in-memory fakes for the host runtime
// capabilities, shared by unit and scenario tests.
package surfacetest

import (
	"sync"

	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// Session is a fake network session recording installed hooks and protocols.
type Session struct {
	mu          sync.Mutex
	RequestHook surface.RequestHook
	HeaderHook  surface.HeaderHook
	Protocols   map[string]surface.ProtocolHandler
}

func NewSession() *Session {
	return &Session{Protocols: make(map[string]surface.ProtocolHandler)}
}

func (s *Session) OnBeforeRequest(hook surface.RequestHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.RequestHook = hook
}

func (s *Session) OnHeadersReceived(hook surface.HeaderHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.HeaderHook = hook
}

func (s *Session) RegisterProtocol(scheme string, handler surface.ProtocolHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Protocols[scheme] = handler
	return nil
}

// FindCall records one Find invocation on the fake surface.
type FindCall struct {
	Text string
	Opts types.FindOptions
}

// StopFindCall records one StopFind invocation.
type StopFindCall struct {
	KeepSelection bool
}

// Surface is a fake content surface driving lifecycle signals by hand.
type Surface struct {
	mu      sync.Mutex
	Sess    surface.Session
	SessErr error

	FindCalls     []FindCall
	StopFindCalls []StopFindCall
	FocusCalls    int
	ReloadCalls   int
	OriginX       float64
	OriginY       float64

	startLoading []func()
	destroyed    []func()
	crashed      []func(string)
}

func NewSurface() *Surface {
	return &Surface{Sess: NewSession()}
}

func (f *Surface) Session() (surface.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Sess, f.SessErr
}

func (f *Surface) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FocusCalls++
}

func (f *Surface) Reload() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ReloadCalls++
}

func (f *Surface) Find(text string, opts types.FindOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FindCalls = append(f.FindCalls, FindCall{Text: text, Opts: opts})
}

func (f *Surface) StopFind(keepSelection bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.StopFindCalls = append(f.StopFindCalls, StopFindCall{KeepSelection: keepSelection})
}

func (f *Surface) Origin() (float64, float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.OriginX, f.OriginY
}

func (f *Surface) OnDidStartLoading(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startLoading = append(f.startLoading, fn)
}

func (f *Surface) OnDestroyed(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, fn)
}

func (f *Surface) OnCrashed(fn func(string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.crashed = append(f.crashed, fn)
}

// EmitStartLoading fires the load-started signal.
func (f *Surface) EmitStartLoading() {
	f.mu.Lock()
	callbacks := append([]func(){}, f.startLoading...)
	f.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// EmitDestroyed fires the terminal destroy signal.
func (f *Surface) EmitDestroyed() {
	f.mu.Lock()
	callbacks := append([]func(){}, f.destroyed...)
	f.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// EmitCrashed fires a crash report.
func (f *Surface) EmitCrashed(reason string) {
	f.mu.Lock()
	callbacks := append([]func(string){}, f.crashed...)
	f.mu.Unlock()
	for _, fn := range callbacks {
		fn(reason)
	}
}

// Transport is a fake raw transport capturing outbound messages and letting
// tests inject inbound ones.
type Transport struct {
	mu       sync.Mutex
	SendErr  error
	sent     []types.Message
	handlers []func(types.Message)
}

func NewTransport() *Transport {
	return &Transport{}
}

func (t *Transport) Send(msg types.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.SendErr != nil {
		return t.SendErr
	}
	t.sent = append(t.sent, msg)
	return nil
}

func (t *Transport) OnMessage(fn func(types.Message)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers = append(t.handlers, fn)
}

// EmitInbound delivers one message as if the surface had sent it.
func (t *Transport) EmitInbound(msg types.Message) {
	t.mu.Lock()
	handlers := append([]func(types.Message){}, t.handlers...)
	t.mu.Unlock()
	for _, fn := range handlers {
		fn(msg)
	}
}

// Sent returns a copy of everything sent so far.
func (t *Transport) Sent() []types.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]types.Message{}, t.sent...)
}

// SentOn filters sent messages by channel.
func (t *Transport) SentOn(channel string) []types.Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []types.Message
	for _, msg := range t.sent {
		if msg.Channel == channel {
			out = append(out, msg)
		}
	}
	return out
}

// Input is a fake host input dispatcher.
type Input struct {
	mu          sync.Mutex
	KeyEvents   []types.KeyEvent
	MouseEvents []types.MouseEvent
	Ignored     []bool
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) DispatchKeyEvent(ev types.KeyEvent) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.KeyEvents = append(i.KeyEvents, ev)
}

func (i *Input) DispatchMouseEvent(ev types.MouseEvent) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.MouseEvents = append(i.MouseEvents, ev)
}

func (i *Input) SetIgnoreMenuShortcuts(ignore bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.Ignored = append(i.Ignored, ignore)
}
