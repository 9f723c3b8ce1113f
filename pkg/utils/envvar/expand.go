// Package envvar expands ${VAR} placeholders in configuration values.
package envvar

import (
	"os"
	"regexp"
)

// pattern matches ${NAME} and ${NAME:-fallback}.
var pattern = regexp.MustCompile(`\$\{([a-zA-Z_][a-zA-Z0-9_]*)(?::-([^}]*))?\}`)

// Expand replaces ${NAME} placeholders with the value of the environment
// variable NAME. ${NAME:-fallback} yields fallback when NAME is unset or
// empty; a bare ${NAME} yields the empty string in that case. Text that is
// not a placeholder, including a lone "$", is left untouched.
func Expand(value string) string {
	return ExpandWith(value, os.LookupEnv)
}

// ExpandWith is Expand with a custom lookup function.
func ExpandWith(value string, lookup func(string) (string, bool)) string {
	if value == "" {
		return value
	}

	return pattern.ReplaceAllStringFunc(value, func(match string) string {
		groups := pattern.FindStringSubmatch(match)

		resolved, ok := lookup(groups[1])
		if ok && resolved != "" {
			return resolved
		}

		return groups[2]
	})
}
