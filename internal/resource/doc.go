// Package resource binds the custom resource-loading scheme to a handle's
// session, scoping every load to the union of the extension install location
// and the live local resource root set. The allow-list is re-evaluated per
// request and checks fail closed.
package resource
