// Package aws implements provider.Provider on Amazon EC2 using
// aws-sdk-go-v2. Only four EC2 operations are used; they are declared in the
// EC2API interface so tests can substitute a mock.
package aws
