// Package utils provides utility packages for common operations.
//
// This package contains subpackages with utility functions used across
// the geostack codebase:
//
//   - envvar: ${VAR} expansion for configuration values
//   - notify: Formatted message display with symbols, colors, and timing
//   - parallel: Bounded concurrent task execution
//   - timer: Execution time tracking for single and multi-stage operations
package utils
