package keyboard

import (
	"sync"

	"github.com/bytedance/sonic"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/surface"
	"github.com/vellumos/webview/internal/types"
)

// Bridge forwards serialized keyboard events from the sandboxed surface to
// the host input system. Sandboxed input does not propagate to the host on
// its own, so every event is reconstructed and redispatched with the surface
// as its synthetic origin.
//
// On platforms where host menu accelerators can shadow in-surface shortcuts
// the bridge latches whether the most recent keydown carried a ctrl/meta
// modifier and applies that flag on the next focus-gained signal. The latch
// is deliberately not re-verified against the live modifier state; blur
// always re-enables accelerators.
type Bridge struct {
	input        surface.InputDispatcher
	accelerators bool // capability flag, fixed at construction

	mu      sync.Mutex
	latched bool

	log *logging.Logger
}

// NewBridge creates the routing bridge. supportsMenuAccelerators is the
// host's capability flag; when false the latch logic is inert.
func NewBridge(input surface.InputDispatcher, supportsMenuAccelerators bool, log *logging.Logger) *Bridge {
	return &Bridge{
		input:        input,
		accelerators: supportsMenuAccelerators,
		log:          log.Named("keyboard"),
	}
}

// HandleKeyEvent reconstructs a key event from the inbound payload and
// redispatches it. Malformed payloads are ignored.
func (b *Bridge) HandleKeyEvent(payload any) {
	ev, ok := decodeKeyEvent(payload)
	if !ok {
		b.log.Debug("malformed key event ignored")
		return
	}

	if ev.Type == "keydown" && b.accelerators {
		b.mu.Lock()
		b.latched = ev.HasModifier(types.ModifierCtrl) || ev.HasModifier(types.ModifierMeta)
		b.mu.Unlock()
	}

	b.input.DispatchKeyEvent(ev)
}

// DispatchMouse redispatches an already-translated pointer event.
func (b *Bridge) DispatchMouse(ev types.MouseEvent) {
	b.input.DispatchMouseEvent(ev)
}

// HandleFocusGained applies the latched modifier flag to menu accelerator
// handling. Called on the surface's focus-gained signal.
func (b *Bridge) HandleFocusGained() {
	if !b.accelerators {
		return
	}
	b.mu.Lock()
	latched := b.latched
	b.mu.Unlock()
	b.input.SetIgnoreMenuShortcuts(latched)
}

// HandleBlur always re-enables menu accelerators.
func (b *Bridge) HandleBlur() {
	if !b.accelerators {
		return
	}
	b.input.SetIgnoreMenuShortcuts(false)
}

// decodeKeyEvent accepts either a typed event (in-process callers) or the
// generic map a wire codec produces.
func decodeKeyEvent(payload any) (types.KeyEvent, bool) {
	switch v := payload.(type) {
	case types.KeyEvent:
		return v, v.Type != "" && v.Key != ""
	case map[string]any:
		data, err := sonic.Marshal(v)
		if err != nil {
			return types.KeyEvent{}, false
		}
		var ev types.KeyEvent
		if err := sonic.Unmarshal(data, &ev); err != nil {
			return types.KeyEvent{}, false
		}
		return ev, ev.Type != "" && ev.Key != ""
	default:
		return types.KeyEvent{}, false
	}
}

// DecodeMouseEvent reconstructs a pointer event from an inbound payload.
// Used by the bridge's synthetic-mouse-event handler; failures are reported
// via ok, never panics.
func DecodeMouseEvent(payload any) (types.MouseEvent, bool) {
	switch v := payload.(type) {
	case types.MouseEvent:
		return v, v.Type != ""
	case map[string]any:
		data, err := sonic.Marshal(v)
		if err != nil {
			return types.MouseEvent{}, false
		}
		var ev types.MouseEvent
		if err := sonic.Unmarshal(data, &ev); err != nil {
			return types.MouseEvent{}, false
		}
		return ev, ev.Type != ""
	default:
		return types.MouseEvent{}, false
	}
}
