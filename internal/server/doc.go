// Package server composes the demo webview host: gin HTTP endpoints, the
// websocket surface endpoint, an HTTP-backed network session capability,
// and one bridge per connected surface.
package server
