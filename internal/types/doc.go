// Package types provides shared data structures for the webview host bridge.
//
// This package defines the types that cross component boundaries, keeping the
// surface, interception, and bridge packages free of mutual imports.
//
// Core Types:
//   - Message: one channel-tagged unit on the raw transport
//   - ContentDescriptor: the {html, options, state} tuple the surface renders
//   - ContentOptions: permissions and resource scoping for the surface
//   - PortMapping: loopback port rewrite entry
//
// Interception Types:
//   - RequestDetails, RequestAction: request event and outcome
//   - HeaderDetails, HeaderAction: response-headers event and outcome
//
// Input Types:
//   - KeyEvent, MouseEvent: input events serialized by the surface
package types
