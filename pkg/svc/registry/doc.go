// Package registry persists which cloud instance backs each logical node
// name.
//
// The registry is an INI file with one section per node:
//
//	[staging-appserver]
//	instance_id     = i-0abc123
//	public_dns_name = ec2-54-1-2-3.compute-1.amazonaws.com
//
// Every mutation loads the file, changes it and writes it back atomically.
// There is no locking: a single operator is assumed.
package registry
