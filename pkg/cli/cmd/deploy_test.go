package cmd_test

import (
	"path/filepath"
	"testing"

	"github.com/geostack-dev/geostack/pkg/svc/taskrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testRecipe = `name: app
steps:
  - name: pull
    program: git
    args: [pull, "${REMOTE}", "${BRANCH}"]
    dir: ${BASE_DIR}/${REPO}
  - name: restart
    program: systemctl
    args: [restart, app]
    sudo: true
`

func TestDeployDryRun(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	recipePath := filepath.Join(f.dir, "deploy.yaml")
	writeFile(t, recipePath, testRecipe)

	require.NoError(t, f.run(t, "deploy", "local", "--recipe", recipePath, "--dry-run"))

	output := f.stdout.String()
	assert.Contains(t, output, "Deploy app...")
	assert.Contains(t, output, "cd /server/env.example.com && git pull origin master\n")
	assert.Contains(t, output, "sudo -n sh -c 'systemctl restart app'\n")
	assert.Contains(t, output, "deployed app to local")
	f.provider.AssertNotCalled(t, "CreateInstance", mock.Anything, mock.Anything)
}

func TestDeployRejectsUnknownVariableBeforeRunning(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	recipePath := filepath.Join(f.dir, "deploy.yaml")
	writeFile(t, recipePath, `steps:
  - program: echo
    args: [first]
  - program: echo
    args: ["${NOPE}"]
`)

	err := f.run(t, "deploy", "local", "--recipe", recipePath, "--dry-run")

	require.ErrorIs(t, err, taskrunner.ErrUnknownVariable)
	assert.NotContains(t, f.stdout.String(), "echo first")
}

func TestDeployInvalidRecipeFailsBeforeResolving(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	recipePath := filepath.Join(f.dir, "deploy.yaml")
	writeFile(t, recipePath, "steps:\n  - name: nothing\n")

	err := f.run(t, "deploy", "staging", "--recipe", recipePath)

	require.ErrorIs(t, err, taskrunner.ErrInvalidRecipe)
	assert.NotContains(t, f.stdout.String(), "Resolve target...")
}

func TestDeployRequiresRecipe(t *testing.T) {
	t.Parallel()

	f := newFixture(t)

	err := f.run(t, "deploy", "local")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"recipe"`)
}
