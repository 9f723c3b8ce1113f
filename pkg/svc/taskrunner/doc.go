// Package taskrunner runs recipes, ordered lists of typed command steps,
// against a resolved target.
//
// Steps are rendered into a single shell command line with every token
// quoted, so values coming from configuration never reach the remote shell
// unescaped.
package taskrunner
