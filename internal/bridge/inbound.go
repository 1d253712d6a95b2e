package bridge

import (
	"github.com/vellumos/webview/internal/keyboard"
)

// subscribeInbound wires the bridge's own handlers into the channel
// registry. User subscribers added later via On fan out after these.
func (b *Bridge) subscribeInbound() {
	b.channels.Subscribe(ChannelDidSetContent, func(any) { b.markReady() })
	b.channels.Subscribe(ChannelDidClickLink, b.handleClickLink)
	b.channels.Subscribe(ChannelMouseEvent, b.handleMouseEvent)
	b.channels.Subscribe(ChannelDidScroll, b.handleScroll)
	b.channels.Subscribe(ChannelDoReload, func(any) { b.Reload() })
	b.channels.Subscribe(ChannelDoUpdateState, b.handleUpdateState)
	b.channels.Subscribe(ChannelDidFocus, func(any) {
		b.handleFocusSignal()
		b.keys.HandleFocusGained()
	})
	b.channels.Subscribe(ChannelDidBlur, func(any) {
		b.handleBlurSignal()
		b.keys.HandleBlur()
	})
	b.channels.Subscribe(ChannelNoCSPFound, func(any) { b.handleMissingCSP() })
	b.channels.Subscribe(ChannelDevtoolsOpened, func(any) { b.notifyDevtools() })
	b.channels.Subscribe(ChannelFoundInPage, b.handleFoundInPage)
	b.channels.Subscribe(ChannelDidKeydown, func(p any) { b.handleKey("keydown", p) })
	b.channels.Subscribe(ChannelDidKeyup, func(p any) { b.handleKey("keyup", p) })
}

// markReady flips the readiness latch on the first content acknowledgment
// and flushes the pending queue in order. Later acknowledgments are no-ops
// for the queue.
func (b *Bridge) markReady() {
	b.mu.Lock()
	if b.ready || b.destroyed {
		b.mu.Unlock()
		return
	}
	b.ready = true
	pending := b.pending
	b.pending = nil
	b.mu.Unlock()

	for _, msg := range pending {
		b.sendNow(msg)
	}
}

// handleFocusSignal fires the focus notification only on the unfocused to
// focused transition; repeated signals while focused are absorbed.
func (b *Bridge) handleFocusSignal() {
	b.mu.Lock()
	if b.focused {
		b.mu.Unlock()
		return
	}
	b.focused = true
	callbacks := b.onDidFocus
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

// handleBlurSignal always clears focus; blur is edge-triggered by
// definition of leaving focus.
func (b *Bridge) handleBlurSignal() {
	b.mu.Lock()
	b.focused = false
	callbacks := b.onDidBlur
	b.mu.Unlock()

	for _, fn := range callbacks {
		fn()
	}
}

func (b *Bridge) handleClickLink(payload any) {
	uri, ok := payload.(string)
	if !ok || uri == "" {
		b.log.Debug("did-click-link without uri ignored")
		return
	}

	b.mu.Lock()
	callbacks := b.onDidClickLink
	b.mu.Unlock()
	for _, fn := range callbacks {
		fn(uri)
	}
}

func (b *Bridge) handleMouseEvent(payload any) {
	ev, ok := keyboard.DecodeMouseEvent(payload)
	if !ok {
		// Reconstruction failures are swallowed silently.
		return
	}

	ox, oy := b.surf.Origin()
	ev.X += ox
	ev.Y += oy
	b.keys.DispatchMouse(ev)
}

func (b *Bridge) handleScroll(payload any) {
	pos, ok := payload.(float64)
	if !ok {
		b.log.Debug("did-scroll without position ignored")
		return
	}

	b.mu.Lock()
	b.scrollPos = pos
	callbacks := b.onDidScroll
	b.mu.Unlock()
	for _, fn := range callbacks {
		fn(pos)
	}
}

func (b *Bridge) handleUpdateState(payload any) {
	state, ok := payload.(string)
	if !ok {
		b.log.Debug("do-update-state without state ignored")
		return
	}

	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.descriptor = b.descriptor.WithState(&state)
	callbacks := b.onDidUpdateState
	b.mu.Unlock()
	for _, fn := range callbacks {
		fn(&state)
	}
}

// handleMissingCSP notifies once per bridge; repeats are suppressed.
func (b *Bridge) handleMissingCSP() {
	b.mu.Lock()
	if b.cspWarned {
		b.mu.Unlock()
		return
	}
	b.cspWarned = true
	callbacks := b.onMissingCSP
	b.mu.Unlock()

	b.log.Warn("content has no content security policy")
	for _, fn := range callbacks {
		fn()
	}
}

func (b *Bridge) notifyDevtools() {
	b.mu.Lock()
	callbacks := b.onDevtoolsOpened
	b.mu.Unlock()
	for _, fn := range callbacks {
		fn()
	}
}

// handleKey injects the event type implied by the channel name before
// reconstruction, so surfaces need not repeat it in the payload.
func (b *Bridge) handleKey(eventType string, payload any) {
	if m, ok := payload.(map[string]any); ok {
		if _, has := m["type"]; !has {
			withType := make(map[string]any, len(m)+1)
			for k, v := range m {
				withType[k] = v
			}
			withType["type"] = eventType
			payload = withType
		}
	}
	b.keys.HandleKeyEvent(payload)
}
