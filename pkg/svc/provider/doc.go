// Package provider defines the cloud compute interface used to provision
// nodes, together with the shared wait-for-running policy and a testify mock.
//
// Backends live in subpackages:
//
//   - aws: Amazon EC2
//   - hetzner: Hetzner Cloud
package provider
