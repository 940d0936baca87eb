// Package cli constructs the ignore-prune command-line interface, wiring the
// Cobra command hierarchy, the configuration loader with its embedded
// defaults, and structured logging.
package cli
