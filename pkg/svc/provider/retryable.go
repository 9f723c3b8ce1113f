package provider

import (
	"errors"
	"regexp"
	"strings"
)

// httpStatusCodePattern matches 500-504 at word boundaries so port numbers
// like ":5000" do not count.
var httpStatusCodePattern = regexp.MustCompile(`\b50[0-4]\b`)

//nolint:gochecknoglobals // read-only lookup table
var retryableMessages = []string{
	"Internal Server Error", "Bad Gateway",
	"Service Unavailable", "Gateway Timeout",
	"connection reset by peer", "connection refused",
	"i/o timeout", "TLS handshake timeout",
	"unexpected EOF", "no such host",
}

// IsRetryable reports whether err is worth retrying while polling: it is
// marked Transient, or its message shows a server-side 5xx or a dropped
// connection.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrTransient) {
		return true
	}

	message := err.Error()

	for _, pattern := range retryableMessages {
		if strings.Contains(message, pattern) {
			return true
		}
	}

	return httpStatusCodePattern.MatchString(message)
}
