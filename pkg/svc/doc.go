// Package svc provides service layer components for geostack.
//
// This package contains the logic that sits between the CLI commands and the
// cloud APIs, the registry file and the hosts commands run on.
//
// Subpackages:
//   - provider: Cloud instance lifecycle for AWS EC2 and Hetzner Cloud
//   - provisioner: Named node provisioning and teardown backed by the registry
//   - registry: The persistent name to instance mapping
//   - target: Environment resolution to SSH targets
//   - taskrunner: Recipe rendering and command execution over SSH
package svc
