package taskrunner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Recipe is an ordered list of steps.
type Recipe struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Steps       []Step `yaml:"steps"`
}

// Step is one command run on the target.
type Step struct {
	Name    string            `yaml:"name"`
	Program string            `yaml:"program"`
	Args    []string          `yaml:"args,omitempty"`
	Dir     string            `yaml:"dir,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	// Sudo runs the step as root through sudo -n.
	Sudo bool `yaml:"sudo,omitempty"`
	// IgnoreErrors turns a failure of this step into a warning.
	IgnoreErrors bool `yaml:"ignoreErrors,omitempty"`
}

// LoadRecipe reads and validates a recipe file.
func LoadRecipe(path string) (*Recipe, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is an operator-supplied recipe
	if err != nil {
		return nil, fmt.Errorf("read recipe %s: %w", path, err)
	}

	recipe, err := ParseRecipe(data)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", path, err)
	}

	return recipe, nil
}

// ParseRecipe decodes a YAML recipe. Unknown fields are rejected.
func ParseRecipe(data []byte) (*Recipe, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	recipe := &Recipe{}

	err := decoder.Decode(recipe)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	err = recipe.Validate()
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

// Validate checks that the recipe has steps and that every step names a program.
func (r *Recipe) Validate() error {
	if len(r.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidRecipe)
	}

	var errs []error

	for i, step := range r.Steps {
		if strings.TrimSpace(step.Program) == "" {
			errs = append(errs, fmt.Errorf("%w: step %d (%s) has no program", ErrInvalidRecipe, i+1, step.Name))
		}

		for key := range step.Env {
			if !validEnvName(key) {
				errs = append(errs, fmt.Errorf("%w: step %d has invalid env name %q", ErrInvalidRecipe, i+1, key))
			}
		}
	}

	return errors.Join(errs...)
}

// Label returns the step name, or its program when unnamed.
func (s Step) Label() string {
	if s.Name != "" {
		return s.Name
	}

	return s.Program
}

func validEnvName(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}
