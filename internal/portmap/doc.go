// Package portmap rewrites surface requests aimed at mapped loopback ports
// to tunneled endpoints, as one delegate in the interception pipeline.
package portmap
