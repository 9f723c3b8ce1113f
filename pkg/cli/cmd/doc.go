// Package cmd provides the command-line interface for geostack.
//
// The root command carries the global flags and these subcommands:
//   - target: resolve an environment to an SSH destination
//   - provision: create or reuse a named node
//   - deploy: run a task recipe against an environment
//   - nodes: list the nodes in the registry
//   - cleanup: terminate one or every recorded node
//   - destroy: terminate every instance the credentials can see
package cmd
