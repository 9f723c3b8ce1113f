// Package configmanager builds the geostack configuration from defaults, the
// config file, the credentials overrides file, environment variables and
// command-line flags, in increasing order of precedence.
package configmanager
