// Package monitoring provides Prometheus metrics for the bridge: pipeline
// evaluations, channel traffic, resource-load outcomes, and host HTTP
// handling. All record methods tolerate a nil receiver.
package monitoring
