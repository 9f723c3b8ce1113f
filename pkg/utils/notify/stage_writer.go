package notify

import (
	"fmt"
	"io"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StageSeparatingWriter inserts a blank line before every title line that
// follows earlier output, so consecutive stages of a command read as blocks.
//
//	out := notify.NewStageSeparatingWriter(cmd.OutOrStdout())
//	cmd.SetOut(out)
type StageSeparatingWriter struct {
	mu         sync.Mutex
	underlying io.Writer
	written    bool
}

// NewStageSeparatingWriter wraps underlying.
func NewStageSeparatingWriter(underlying io.Writer) *StageSeparatingWriter {
	return &StageSeparatingWriter{underlying: underlying}
}

// Write implements io.Writer.
func (w *StageSeparatingWriter) Write(data []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(data) == 0 {
		return 0, nil
	}

	if w.written && isTitleLine(data) {
		_, err := w.underlying.Write([]byte{'\n'})
		if err != nil {
			return 0, fmt.Errorf("write stage separator: %w", err)
		}
	}

	n, err := w.underlying.Write(data)
	if n > 0 {
		w.written = true
	}

	if err != nil {
		return n, fmt.Errorf("write output: %w", err)
	}

	return n, nil
}

// HasWritten reports whether anything has been written yet.
func (w *StageSeparatingWriter) HasWritten() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.written
}

// isTitleLine reports whether data begins with a pictographic symbol that is
// not one of the status-line prefixes.
func isTitleLine(data []byte) bool {
	first, _ := utf8.DecodeRune(data)
	if first == utf8.RuneError {
		return false
	}

	switch first {
	case '►', '✔', '✗', '⚠', 'ℹ', '⏲':
		return false
	}

	return unicode.Is(unicode.So, first)
}
