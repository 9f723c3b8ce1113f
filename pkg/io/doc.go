// Package io groups input and output helpers for configuration management.
//
// Subpackages:
//   - configmanager: Configuration loading from files, environment and flags
package io
