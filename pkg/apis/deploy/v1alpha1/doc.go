// Package v1alpha1 contains the geostack configuration: which cloud provider
// to provision with, where the instance registry lives, how long to wait for
// instances, and the named environments that commands are run against.
package v1alpha1
