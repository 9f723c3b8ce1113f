// Package provisioner turns a logical node name into a running instance.
//
// Provision reuses the instance recorded in the registry for the name, or
// creates one through the provider, waits for it to run, tags it and records
// it. A record is only written once the instance is running, so a failed
// attempt can simply be retried. Teardown removes nodes again, one by one or
// all at once.
package provisioner
