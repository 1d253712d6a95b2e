package surface

import (
	"context"

	"github.com/vellumos/webview/internal/types"
)

// RequestHook is the single request interception hookpoint a session exposes.
// A nil action means passthrough.
type RequestHook func(ctx context.Context, req types.RequestDetails) *types.RequestAction

// HeaderHook is the single response-headers hookpoint. Must resolve
// synchronously; a nil action preserves the original headers.
type HeaderHook func(hdr types.HeaderDetails) *types.HeaderAction

// ResourceRequest is one custom-scheme load issued by the surface.
type ResourceRequest struct {
	URL  string
	Path string
}

// ResourceResponse is the outcome of a custom-scheme load.
type ResourceResponse struct {
	StatusCode int
	MimeType   string
	Data       []byte
}

// ProtocolHandler resolves one custom-scheme resource request.
type ProtocolHandler func(req ResourceRequest) ResourceResponse

// Session is the network session attached to a content surface. It is a
// capability supplied by the host runtime; at most one hook of each kind may
// be installed per session.
type Session interface {
	// OnBeforeRequest installs the request interception hook.
	OnBeforeRequest(hook RequestHook)

	// OnHeadersReceived installs the response-headers hook.
	OnHeadersReceived(hook HeaderHook)

	// RegisterProtocol installs a handler for a custom resource scheme.
	RegisterProtocol(scheme string, handler ProtocolHandler) error
}

// Surface is the host runtime's handle to one sandboxed content-rendering
// widget. Event registrations are additive: every registered callback fires.
type Surface interface {
	// Session returns the surface's network session, or an error while the
	// surface is still starting up.
	Session() (Session, error)

	// Focus asks the runtime to give the surface input focus.
	Focus()

	// Reload asks the runtime to reload the surface's inner frame.
	Reload()

	// Find starts or advances an in-content search.
	Find(text string, opts types.FindOptions)

	// StopFind ends the current search, optionally keeping the selection.
	StopFind(keepSelection bool)

	// Origin returns the surface's top-left corner in host coordinates.
	Origin() (x, y float64)

	// OnDidStartLoading registers for the surface's load-started signal.
	OnDidStartLoading(fn func())

	// OnDestroyed registers for the surface's terminal destroy signal.
	OnDestroyed(fn func())

	// OnCrashed registers for renderer crash reports. A crash is not
	// terminal; the surface can be recovered by an explicit reload.
	OnCrashed(fn func(reason string))
}

// InputDispatcher is the host input system capability: it redispatches
// reconstructed events and controls menu accelerator handling.
type InputDispatcher interface {
	// DispatchKeyEvent replays a reconstructed keyboard event against the
	// host input system with the surface as the synthetic origin.
	DispatchKeyEvent(ev types.KeyEvent)

	// DispatchMouseEvent replays a reconstructed pointer event, already
	// translated into host coordinates.
	DispatchMouseEvent(ev types.MouseEvent)

	// SetIgnoreMenuShortcuts suppresses or re-enables host menu
	// accelerators while the surface holds focus.
	SetIgnoreMenuShortcuts(ignore bool)
}
