package provider_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/geostack-dev/geostack/pkg/svc/provider"
	"github.com/stretchr/testify/assert"
)

var (
	errRequestLimit  = errors.New("RequestLimitExceeded")
	errConnReset     = errors.New("read tcp: connection reset by peer")
	errBadGateway    = errors.New("api returned 502")
	errUnavailable   = errors.New("Service Unavailable")
	errPortDenied    = errors.New("dial 10.0.0.1:5000: permission denied")
	errAuthFailure   = errors.New("AuthFailure: credentials rejected")
	errSocketTimeout = errors.New("i/o timeout")
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "transient", err: provider.Transient(errRequestLimit), want: true},
		{name: "connection reset", err: errConnReset, want: true},
		{name: "gateway", err: errBadGateway, want: true},
		{name: "service unavailable", err: errUnavailable, want: true},
		{name: "port number", err: errPortDenied, want: false},
		{name: "auth failure", err: errAuthFailure, want: false},
		{
			name: "wrapped operation error",
			err:  provider.Wrap("DescribeInstances", "i-1", fmt.Errorf("send: %w", errSocketTimeout)),
			want: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.want, provider.IsRetryable(testCase.err))
		})
	}
}
