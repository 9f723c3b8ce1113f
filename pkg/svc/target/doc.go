// Package target resolves a deployment environment name into the connection
// and repository parameters a recipe runs against.
//
// Local environments are read from the Vagrant box's ssh-config. Remote
// environments provision (or reuse) their node through a NodeProvisioner.
package target
