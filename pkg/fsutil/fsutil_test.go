package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/geostack-dev/geostack/pkg/fsutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandHomePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "tilde only", in: "~", want: home},
		{name: "tilde prefix", in: "~/.geostack/instances", want: filepath.Join(home, ".geostack", "instances")},
		{name: "absolute", in: "/tmp/../tmp/x", want: "/tmp/x"},
		{name: "relative", in: "instances", want: filepath.Join(cwd, "instances")},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := fsutil.ExpandHomePath(testCase.in)

			require.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestExpandHomePathEmpty(t *testing.T) {
	t.Parallel()

	_, err := fsutil.ExpandHomePath("")

	require.ErrorIs(t, err, fsutil.ErrEmptyPath)
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "instances")

	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("first"), fsutil.FilePermUserOnly))
	require.NoError(t, fsutil.WriteFileAtomic(path, []byte("second"), fsutil.FilePermUserOnly))

	data, err := os.ReadFile(path) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, fsutil.FilePermUserOnly, info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must not be left behind")
}

func TestWriteFileAtomicEmptyPath(t *testing.T) {
	t.Parallel()

	err := fsutil.WriteFileAtomic("", nil, fsutil.FilePermUserOnly)

	require.ErrorIs(t, err, fsutil.ErrEmptyPath)
}
