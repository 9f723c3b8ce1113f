// Package fsutil contains the small set of filesystem helpers shared by the
// registry store and the configuration loader: home-relative path expansion
// and atomic file replacement.
package fsutil
