package target

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultLocalHost is used when ssh-config reports no HostName.
	DefaultLocalHost = "127.0.0.1"
	// DefaultSSHPort is used when no port is known.
	DefaultSSHPort = 22
)

// SSHConfig is the connection info of a local virtual machine.
type SSHConfig struct {
	Host         string
	Port         int
	User         string
	IdentityFile string
}

// LocalQuerier reads the connection info of the local virtual machine.
type LocalQuerier interface {
	Query(ctx context.Context) (SSHConfig, error)
}

// LocalQuerierFunc adapts a function to LocalQuerier.
type LocalQuerierFunc func(ctx context.Context) (SSHConfig, error)

// Query calls f.
func (f LocalQuerierFunc) Query(ctx context.Context) (SSHConfig, error) {
	return f(ctx)
}

// VagrantQuerier runs `vagrant ssh-config` and parses its output.
type VagrantQuerier struct {
	// Binary is the vagrant executable. Empty means "vagrant" from PATH.
	Binary string
	// Dir is the directory holding the Vagrantfile. Empty means the working directory.
	Dir string
}

// Query runs vagrant ssh-config.
func (q VagrantQuerier) Query(ctx context.Context) (SSHConfig, error) {
	binary := q.Binary
	if binary == "" {
		binary = "vagrant"
	}

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, binary, "ssh-config")
	cmd.Dir = q.Dir
	cmd.Stderr = &stderr

	log.Debugf("running %s ssh-config in %q", binary, q.Dir)

	output, err := cmd.Output()
	if err != nil {
		return SSHConfig{}, fmt.Errorf("%w: %s ssh-config: %w: %s",
			ErrLocalQuery, binary, err, strings.TrimSpace(stderr.String()))
	}

	return ParseSSHConfig(bytes.NewReader(output))
}

// ParseSSHConfig reads the first Host block of OpenSSH client config text,
// as printed by vagrant ssh-config. User and Port are required.
func ParseSSHConfig(r io.Reader) (SSHConfig, error) {
	config := SSHConfig{}
	values := map[string]string{}
	hosts := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value := line, ""
		if i := strings.IndexAny(line, " \t="); i >= 0 {
			key, value = line[:i], strings.TrimLeft(line[i:], " \t=")
		}

		key = strings.ToLower(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)

		if key == "host" {
			hosts++
			if hosts > 1 {
				break
			}

			continue
		}

		// The first occurrence wins, as in ssh itself.
		if _, seen := values[key]; !seen {
			values[key] = value
		}
	}

	err := scanner.Err()
	if err != nil {
		return config, fmt.Errorf("read ssh-config: %w", err)
	}

	config.Host = values["hostname"]
	if config.Host == "" {
		config.Host = DefaultLocalHost
	}

	config.User = values["user"]
	if config.User == "" {
		return config, fmt.Errorf("%w: no User", ErrIncompleteSSHConfig)
	}

	portValue, ok := values["port"]
	if !ok {
		return config, fmt.Errorf("%w: no Port", ErrIncompleteSSHConfig)
	}

	config.Port, err = strconv.Atoi(portValue)
	if err != nil || config.Port <= 0 {
		return config, fmt.Errorf("%w: invalid Port %q", ErrIncompleteSSHConfig, portValue)
	}

	config.IdentityFile = values["identityfile"]

	return config, nil
}
