// Package cli provides reusable helpers for command wiring and execution.
//
//   - cli/cmd: The geostack command tree
//   - cli/flags: Flag names and helpers including timing detection
//   - cli/ui: User interface components (confirm, errorhandler)
//
// Commands resolve their services from the di runtime container so tests can
// swap providers and queriers.
package cli
