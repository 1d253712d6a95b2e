// Package surface defines the host runtime capability interfaces for one
// sandboxed content surface and the Handle that owns its lifecycle.
//
// The Handle is the only owner of the network session reference. It moves
// through three states: uninitialized, active (session acquired and cached),
// and destroyed. Destruction is terminal: every later session access returns
// nil and dependent components degrade to no-ops.
package surface
