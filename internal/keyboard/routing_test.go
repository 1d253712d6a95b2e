package keyboard

import (
	"testing"

	"github.com/vellumos/webview/internal/logging"
	"github.com/vellumos/webview/internal/types"
)

type recordingInput struct {
	keys    []types.KeyEvent
	mice    []types.MouseEvent
	ignored []bool
}

func (r *recordingInput) DispatchKeyEvent(ev types.KeyEvent)     { r.keys = append(r.keys, ev) }
func (r *recordingInput) DispatchMouseEvent(ev types.MouseEvent) { r.mice = append(r.mice, ev) }
func (r *recordingInput) SetIgnoreMenuShortcuts(ignore bool)     { r.ignored = append(r.ignored, ignore) }

func TestKeyEventRedispatch(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, false, logging.NewNop())

	b.HandleKeyEvent(types.KeyEvent{Type: "keydown", Key: "a", KeyCode: 65, Code: "KeyA"})
	if len(input.keys) != 1 || input.keys[0].Key != "a" {
		t.Fatalf("key event not redispatched: %+v", input.keys)
	}
}

func TestKeyEventFromWirePayload(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, false, logging.NewNop())

	b.HandleKeyEvent(map[string]any{
		"type": "keydown", "key": "F", "keyCode": 70.0, "code": "KeyF",
		"modifiers": []any{"ctrl", "shift"},
	})
	if len(input.keys) != 1 {
		t.Fatal("wire payload should decode")
	}
	if !input.keys[0].HasModifier(types.ModifierCtrl) {
		t.Error("modifiers lost in reconstruction")
	}
}

func TestMalformedKeyEventIgnored(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, true, logging.NewNop())

	b.HandleKeyEvent(nil)
	b.HandleKeyEvent("keydown")
	b.HandleKeyEvent(map[string]any{"noType": true})

	if len(input.keys) != 0 {
		t.Errorf("malformed payloads must not dispatch, got %d events", len(input.keys))
	}
}

func TestAcceleratorLatchAppliedOnFocus(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, true, logging.NewNop())

	b.HandleKeyEvent(types.KeyEvent{Type: "keydown", Key: "c", Modifiers: []string{types.ModifierCtrl}})
	b.HandleFocusGained()

	if len(input.ignored) != 1 || !input.ignored[0] {
		t.Errorf("ctrl keydown should suppress accelerators on next focus, got %v", input.ignored)
	}

	b.HandleKeyEvent(types.KeyEvent{Type: "keydown", Key: "x"})
	b.HandleFocusGained()
	if input.ignored[len(input.ignored)-1] {
		t.Error("plain keydown should re-enable accelerators on next focus")
	}
}

func TestBlurAlwaysReenablesAccelerators(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, true, logging.NewNop())

	b.HandleKeyEvent(types.KeyEvent{Type: "keydown", Key: "c", Modifiers: []string{types.ModifierMeta}})
	b.HandleBlur()

	if len(input.ignored) != 1 || input.ignored[0] {
		t.Errorf("blur must re-enable accelerators, got %v", input.ignored)
	}
}

func TestAcceleratorCapabilityOff(t *testing.T) {
	input := &recordingInput{}
	b := NewBridge(input, false, logging.NewNop())

	b.HandleKeyEvent(types.KeyEvent{Type: "keydown", Key: "c", Modifiers: []string{types.ModifierCtrl}})
	b.HandleFocusGained()
	b.HandleBlur()

	if len(input.ignored) != 0 {
		t.Error("accelerator handling must be inert without the capability")
	}
}

func TestDecodeMouseEvent(t *testing.T) {
	ev, ok := DecodeMouseEvent(map[string]any{"type": "mousedown", "x": 10.0, "y": 4.0})
	if !ok || ev.X != 10 || ev.Y != 4 {
		t.Errorf("mouse payload should decode, got %+v ok=%v", ev, ok)
	}

	if _, ok := DecodeMouseEvent("garbage"); ok {
		t.Error("malformed mouse payload must not decode")
	}
}
