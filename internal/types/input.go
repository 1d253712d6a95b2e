package types

// Modifier names carried on serialized input events.
const (
	ModifierCtrl  = "ctrl"
	ModifierMeta  = "meta"
	ModifierShift = "shift"
	ModifierAlt   = "alt"
)

// KeyEvent is a keyboard event serialized by the sandboxed surface and
// reconstructed host-side.
type KeyEvent struct {
	Type      string   `json:"type"` // "keydown" or "keyup"
	Key       string   `json:"key"`
	KeyCode   int      `json:"keyCode"`
	Code      string   `json:"code"`
	Repeat    bool     `json:"repeat"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// HasModifier reports whether the event carries the named modifier.
func (e KeyEvent) HasModifier(name string) bool {
	for _, m := range e.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// MouseEvent is a pointer event serialized by the surface. Coordinates are
// relative to the surface; the bridge translates them into host space before
// redispatch.
type MouseEvent struct {
	Type       string   `json:"type"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Button     string   `json:"button,omitempty"`
	ClickCount int      `json:"clickCount,omitempty"`
	Modifiers  []string `json:"modifiers,omitempty"`
}
