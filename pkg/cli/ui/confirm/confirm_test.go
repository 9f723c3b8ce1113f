package confirm_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/cli/ui/confirm"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/stretchr/testify/require"
)

//nolint:paralleltest // Subtests share the TTY checker override.
func TestShouldSkipPrompt(t *testing.T) {
	tests := []struct {
		name     string
		force    bool
		isTTY    bool
		expected bool
	}{
		{name: "force_skips_prompt", force: true, isTTY: true, expected: true},
		{name: "force_non_tty_skips_prompt", force: true, isTTY: false, expected: true},
		{name: "non_tty_skips_prompt", force: false, isTTY: false, expected: true},
		{name: "tty_without_force_prompts", force: false, isTTY: true, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return testCase.isTTY })
			defer restoreTTY()

			require.Equal(t, testCase.expected, confirm.ShouldSkipPrompt(testCase.force))
		})
	}
}

//nolint:paralleltest // Subtests share the stdin override.
func TestPromptForConfirmation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes_lowercase_confirms", input: "yes\n", expected: true},
		{name: "yes_uppercase_confirms", input: "YES\n", expected: true},
		{name: "yes_without_newline_confirms", input: "yes", expected: true},
		{name: "surrounding_spaces_confirm", input: "  yes \n", expected: true},
		{name: "no_denies", input: "no\n", expected: false},
		{name: "y_denies", input: "y\n", expected: false},
		{name: "empty_denies", input: "\n", expected: false},
		{name: "eof_denies", input: "", expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			restoreStdin := confirm.SetStdinReaderForTests(strings.NewReader(testCase.input))
			defer restoreStdin()

			require.Equal(t, testCase.expected, confirm.PromptForConfirmation())
		})
	}
}

func TestShowDeletionPreview(t *testing.T) {
	t.Parallel()

	preview := &confirm.DeletionPreview{
		Provider: v1alpha1.ProviderHetzner,
		Region:   "fsn1",
		Nodes: []registry.Record{
			{Name: "staging", InstanceID: "42", Address: "203.0.113.10"},
			{Name: "production", InstanceID: "43", Address: "203.0.113.11"},
		},
		RegistryPath: "/home/ops/.geostack/registry",
	}

	var out bytes.Buffer

	confirm.ShowDeletionPreview(&out, preview)

	output := out.String()
	require.Contains(t, output, "The following resources will be deleted")
	require.Contains(t, output, "Provider: Hetzner")
	require.Contains(t, output, "every instance in fsn1")
	require.Contains(t, output, "Nodes:")
	require.Contains(t, output, "- staging (42, 203.0.113.10)")
	require.Contains(t, output, "- production (43, 203.0.113.11)")
	require.Contains(t, output, "Registry: /home/ops/.geostack/registry")
	require.Contains(t, output, `Type "yes" to confirm deletion`)
}

func TestShowDeletionPreviewEmptyRegistry(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	confirm.ShowDeletionPreview(&out, &confirm.DeletionPreview{Provider: v1alpha1.ProviderAWS})

	output := out.String()
	require.Contains(t, output, "Provider: AWS")
	require.Contains(t, output, "every instance in default")
	require.NotContains(t, output, "Nodes:")
	require.NotContains(t, output, "Registry:")
}

func TestIsTTYOverride(t *testing.T) {
	t.Parallel()

	restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return true })

	require.True(t, confirm.IsTTY())

	restoreTTY()
}

func TestErrDeletionCancelled(t *testing.T) {
	t.Parallel()

	require.Equal(t, "deletion cancelled", confirm.ErrDeletionCancelled.Error())
}
