// Package flags provides flag handling utilities for CLI commands.
//
// This package contains the shared flag names, timing flag detection with
// conditional timer usage, and the output format flag value.
package flags
