// Package ws carries the bridge protocol over websocket connections. A Peer
// is both halves of the bridge's external world: the raw message transport
// and the content surface adapter, with lifecycle signals consumed off the
// wire instead of being dispatched as channel messages.
package ws
