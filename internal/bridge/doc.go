// Package bridge composes the webview host bridge: one content surface, its
// interception pipeline and protocol bindings, the channel protocol over the
// raw transport, content synchronization by whole-state replace, focus
// bridging, keyboard routing, and the find protocol.
//
// The public API is total: after the surface's terminal destroy every
// operation degrades to a silent no-op instead of returning an error.
package bridge
