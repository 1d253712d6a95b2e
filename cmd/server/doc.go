// Package main is the entry point for the webview host server.
//
// The server hosts sandboxed HTML content surfaces over websocket
// connections, mediating each one through a bridge: whole-state content
// synchronization, ordered request interception, fail-closed local
// resource loading, port-mapping redirects, input routing, and the
// stateful find protocol.
//
// Usage:
//
//	# Serve with defaults (port 8000)
//	./server
//
//	# Serve a host definition (content options, HTML, port mappings)
//	./server -host hosts/demo.yaml
//
// Configuration comes from environment variables (12-factor); the -host
// flag points at an optional YAML host definition.
package main
