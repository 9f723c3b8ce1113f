package taskrunner

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/geostack-dev/geostack/pkg/svc/target"
)

// Vars are the values ${NAME} references in steps expand to.
type Vars map[string]string

// TargetVars returns the variables derived from a target.
func TargetVars(t *target.Target) Vars {
	return Vars{
		"ENVIRONMENT": t.Environment,
		"HOST":        t.Host,
		"USER":        t.User,
		"BASE_DIR":    t.BaseDir,
		"ORIGIN":      t.Repository.Origin,
		"REPO":        t.Repository.Repo,
		"REMOTE":      t.Repository.Remote,
		"BRANCH":      t.Repository.Branch,
		"VIRTUALENV":  t.Virtualenv,
		"DEV_MODE":    strconv.FormatBool(t.DevMode),
	}
}

// Expand replaces ${NAME} and $NAME references in value. Referencing an
// undefined variable is an error.
func (v Vars) Expand(value string) (string, error) {
	var missing []string

	expanded := os.Expand(value, func(name string) string {
		resolved, ok := v[name]
		if !ok {
			missing = append(missing, name)
		}

		return resolved
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s in %q", ErrUnknownVariable, strings.Join(missing, ", "), value)
	}

	return expanded, nil
}

// Command renders the step as one shell command line. Variables are expanded
// per value before quoting.
func (s Step) Command(vars Vars) (string, error) {
	argv := make([]string, 0, len(s.Args)+1)

	for _, raw := range append([]string{s.Program}, s.Args...) {
		value, err := vars.Expand(raw)
		if err != nil {
			return "", err
		}

		argv = append(argv, value)
	}

	if len(s.Env) > 0 {
		assignments := make([]string, 0, len(s.Env)+1)
		assignments = append(assignments, "env")

		for _, key := range slices.Sorted(maps.Keys(s.Env)) {
			value, err := vars.Expand(s.Env[key])
			if err != nil {
				return "", err
			}

			assignments = append(assignments, key+"="+value)
		}

		argv = append(assignments, argv...)
	}

	command := shellescape.QuoteCommand(argv)

	if s.Dir != "" {
		dir, err := vars.Expand(s.Dir)
		if err != nil {
			return "", err
		}

		command = "cd " + shellescape.Quote(dir) + " && " + command
	}

	if s.Sudo {
		command = "sudo -n sh -c " + shellescape.Quote(command)
	}

	return command, nil
}
