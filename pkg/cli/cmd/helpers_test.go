package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/geostack-dev/geostack/pkg/cli/cmd"
	"github.com/geostack-dev/geostack/pkg/di"
	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `provider: AWS
aws:
  region: eu-west-1
ssh:
  user: deploy
  keyPath: /keys/deploy
repository:
  origin: git@example.com:app.git
wait:
  initialDelay: 0s
`

// fixture runs the root command against a temporary config, credentials file
// and registry, with a mock provider and a canned local machine. A nil
// provider leaves the configured backend in place.
type fixture struct {
	dir          string
	configPath   string
	credentials  string
	registryPath string
	provider     *provider.MockProvider
	local        target.LocalQuerier
	stdout       bytes.Buffer
	stderr       bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()

	f := &fixture{
		dir:          dir,
		configPath:   filepath.Join(dir, "geostack.yaml"),
		credentials:  filepath.Join(dir, "credentials.yaml"),
		registryPath: filepath.Join(dir, "instances"),
		provider:     provider.NewMockProvider(),
		local: target.LocalQuerierFunc(func(context.Context) (target.SSHConfig, error) {
			return target.SSHConfig{Host: "127.0.0.1", Port: 2222, User: "vagrant", IdentityFile: "/keys/vagrant"}, nil
		}),
	}

	writeFile(t, f.configPath, testConfigYAML)
	writeFile(t, f.credentials, "aws:\n  keyName: ops\n")

	return f
}

func (f *fixture) run(t *testing.T, args ...string) error {
	t.Helper()

	overrides := []di.Module{di.WithLocalQuerier(f.local)}
	if f.provider != nil {
		overrides = append(overrides, di.WithProvider(f.provider))
	}

	runtimeContainer := di.NewRuntime(overrides...)

	root := cmd.NewRootCmdWithRuntime(runtimeContainer, "test", "test", "test")
	root.SetOut(&f.stdout)
	root.SetErr(&f.stderr)
	root.SetArgs(append(args,
		"--config", f.configPath,
		"--credentials", f.credentials,
		"--registry", f.registryPath,
	))

	return root.ExecuteContext(context.Background())
}

func (f *fixture) store(t *testing.T) *registry.Store {
	t.Helper()

	store, err := registry.NewStore(f.registryPath)
	require.NoError(t, err)

	return store
}

func (f *fixture) seed(t *testing.T, records ...registry.Record) {
	t.Helper()

	store := f.store(t)

	for _, record := range records {
		require.NoError(t, store.Put(record))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
