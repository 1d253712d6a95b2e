// Package config provides 12-factor configuration for the webview host:
// environment variables for process settings, plus an optional YAML host
// definition for the embedded content (extension location, resource roots,
// port mappings).
package config
