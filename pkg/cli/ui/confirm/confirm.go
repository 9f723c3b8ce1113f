// Package confirm provides confirmation prompt utilities for destructive operations.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/geostack-dev/geostack/pkg/apis/deploy/v1alpha1"
	"github.com/geostack-dev/geostack/pkg/svc/registry"
	"github.com/geostack-dev/geostack/pkg/utils/notify"
	"golang.org/x/term"
)

// ErrDeletionCancelled is returned when the user cancels a deletion operation.
var ErrDeletionCancelled = errors.New("deletion cancelled")

// DeletionPreview describes what a destroy will remove.
type DeletionPreview struct {
	Provider v1alpha1.Provider
	// Region is the AWS region or Hetzner location whose instances are terminated.
	Region string
	// Nodes are the registry records that will be forgotten.
	Nodes        []registry.Record
	RegistryPath string
}

// Test override variables with mutexes for thread safety.
var (
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	stdinReaderOverride io.Reader

	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerMu sync.RWMutex
	//nolint:gochecknoglobals // dependency injection for tests
	ttyCheckerOverride func() bool
)

// SetStdinReaderForTests overrides the stdin reader for testing.
// Returns a restore function that should be called to reset the override.
func SetStdinReaderForTests(reader io.Reader) func() {
	stdinReaderMu.Lock()

	previous := stdinReaderOverride
	stdinReaderOverride = reader

	stdinReaderMu.Unlock()

	return func() {
		stdinReaderMu.Lock()

		stdinReaderOverride = previous

		stdinReaderMu.Unlock()
	}
}

// SetTTYCheckerForTests overrides the TTY checker for testing.
// Returns a restore function that should be called to reset the override.
func SetTTYCheckerForTests(checker func() bool) func() {
	ttyCheckerMu.Lock()

	previous := ttyCheckerOverride
	ttyCheckerOverride = checker

	ttyCheckerMu.Unlock()

	return func() {
		ttyCheckerMu.Lock()

		ttyCheckerOverride = previous

		ttyCheckerMu.Unlock()
	}
}

func getStdinReader() io.Reader {
	stdinReaderMu.RLock()
	defer stdinReaderMu.RUnlock()

	if stdinReaderOverride != nil {
		return stdinReaderOverride
	}

	return os.Stdin
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool {
	ttyCheckerMu.RLock()

	override := ttyCheckerOverride

	ttyCheckerMu.RUnlock()

	if override != nil {
		return override()
	}

	return term.IsTerminal(int(os.Stdin.Fd())) //nolint:gosec // file descriptors fit in int
}

// ShouldSkipPrompt reports whether the prompt is skipped: when force is set
// or stdin is not interactive.
func ShouldSkipPrompt(force bool) bool {
	return force || !IsTTY()
}

// ShowDeletionPreview prints what a destroy removes, followed by the prompt.
func ShowDeletionPreview(writer io.Writer, preview *DeletionPreview) {
	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "The following resources will be deleted:",
		Writer:  writer,
	})

	var previewText strings.Builder

	location := preview.Region
	if location == "" {
		location = "default"
	}

	fmt.Fprintf(&previewText, "  Provider: %s\n", preview.Provider.String())
	fmt.Fprintf(&previewText, "  Instances: every instance in %s visible to the configured credentials", location)

	if len(preview.Nodes) > 0 {
		previewText.WriteString("\n  Nodes:")

		for _, node := range preview.Nodes {
			fmt.Fprintf(&previewText, "\n    - %s (%s, %s)", node.Name, node.InstanceID, node.Address)
		}
	}

	if preview.RegistryPath != "" {
		fmt.Fprintf(&previewText, "\n  Registry: %s", preview.RegistryPath)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: previewText.String(),
		Writer:  writer,
	})

	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: `Type "yes" to confirm deletion:`,
		Writer:  writer,
	})
}

// PromptForConfirmation reads one line from stdin and reports whether it is
// "yes", compared case-insensitively.
func PromptForConfirmation() bool {
	reader := bufio.NewReader(getStdinReader())

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		return false
	}

	return strings.EqualFold(strings.TrimSpace(input), "yes")
}
