package taskrunner_test

import (
	"testing"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/geostack-dev/geostack/pkg/svc/taskrunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagingTarget() *target.Target {
	return &target.Target{
		Environment: "staging",
		Kind:        v1alpha1.EnvironmentRemote,
		Node:        "staging-appserver",
		Host:        "ec2-1.compute.amazonaws.com",
		Port:        22,
		User:        "ubuntu",
		KeyPath:     "/keys/deploy.pem",
		Repository: target.Repository{
			Origin: "git@github.com:acme/app.git",
			Repo:   "env.example.com",
			Remote: "origin",
			Branch: "stage",
		},
		BaseDir:    "/server",
		Virtualenv: "env.example.com",
	}
}

func TestStepCommand(t *testing.T) {
	t.Parallel()

	vars := taskrunner.TargetVars(stagingTarget())

	tests := []struct {
		name string
		step taskrunner.Step
		want string
	}{
		{
			name: "plain",
			step: taskrunner.Step{Program: "git", Args: []string{"pull", "${REMOTE}", "${BRANCH}"}},
			want: "git pull origin stage",
		},
		{
			name: "quotes unsafe values",
			step: taskrunner.Step{Program: "echo", Args: []string{"it's; rm -rf /", ""}},
			want: `echo 'it'"'"'s; rm -rf /' ''`,
		},
		{
			name: "variables are quoted after expansion",
			step: taskrunner.Step{Program: "echo", Args: []string{"${BASE_DIR}/my dir"}},
			want: "echo '/server/my dir'",
		},
		{
			name: "working directory",
			step: taskrunner.Step{Program: "ls", Dir: "${BASE_DIR}/${REPO}"},
			want: "cd /server/env.example.com && ls",
		},
		{
			name: "environment is sorted",
			step: taskrunner.Step{Program: "make", Env: map[string]string{"B": "2", "A": "${BRANCH}"}},
			want: "env A=stage B=2 make",
		},
		{
			name: "sudo wraps the whole command",
			step: taskrunner.Step{Program: "apt-get", Args: []string{"install", "-y", "ntp"}, Dir: "/tmp", Sudo: true},
			want: "sudo -n sh -c 'cd /tmp && apt-get install -y ntp'",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := testCase.step.Command(vars)

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestStepCommandUnknownVariable(t *testing.T) {
	t.Parallel()

	step := taskrunner.Step{Program: "echo", Args: []string{"${NOPE}"}}

	_, err := step.Command(taskrunner.TargetVars(stagingTarget()))

	require.ErrorIs(t, err, taskrunner.ErrUnknownVariable)
	require.ErrorIs(t, err, taskrunner.ErrInvalidRecipe)
}

func TestTargetVars(t *testing.T) {
	t.Parallel()

	vars := taskrunner.TargetVars(stagingTarget())

	assert.Equal(t, "/server", vars["BASE_DIR"])
	assert.Equal(t, "stage", vars["BRANCH"])
	assert.Equal(t, "false", vars["DEV_MODE"])
	assert.Equal(t, "git@github.com:acme/app.git", vars["ORIGIN"])
}
