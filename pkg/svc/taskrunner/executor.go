package taskrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/geostack-dev/geostack/pkg/fsutil"
	"github.com/geostack-dev/geostack/pkg/svc/target"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Defaults for SSHExecutor.
const (
	DefaultSSHPort        = 22
	DefaultDialTimeout    = 30 * time.Second
	DefaultKnownHostsPath = "~/.ssh/known_hosts"
)

// Result captures the output of one command. Output is also streamed to the
// executor's writers while the command runs.
type Result struct {
	Stdout string
	Stderr string
}

// Executor runs a rendered command line on a target.
type Executor interface {
	Execute(ctx context.Context, command string) (Result, error)
}

// SSHExecutor runs commands over SSH. The connection is opened by the first
// Execute and reused until Close.
//
// Host keys are checked against KnownHostsPath. A host that is not listed is
// added to the file; a host listed with a different key is refused.
type SSHExecutor struct {
	Host    string
	Port    int
	User    string
	KeyPath string
	// AgentSocket is the ssh-agent socket. Empty skips the agent.
	AgentSocket string
	// KnownHostsPath defaults to DefaultKnownHostsPath.
	KnownHostsPath string
	DialTimeout    time.Duration

	stdout io.Writer
	stderr io.Writer

	mu        sync.Mutex
	client    *ssh.Client
	agentConn net.Conn
}

// NewSSHExecutor creates an executor for the target. Nil writers default to
// os.Stdout and os.Stderr. The agent is taken from SSH_AUTH_SOCK.
func NewSSHExecutor(t *target.Target, stdout, stderr io.Writer) *SSHExecutor {
	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	return &SSHExecutor{
		Host:           t.Host,
		Port:           t.Port,
		User:           t.User,
		KeyPath:        t.KeyPath,
		AgentSocket:    os.Getenv("SSH_AUTH_SOCK"),
		KnownHostsPath: DefaultKnownHostsPath,
		DialTimeout:    DefaultDialTimeout,
		stdout:         stdout,
		stderr:         stderr,
	}
}

// Address returns host:port, with DefaultSSHPort when Port is unset.
func (e *SSHExecutor) Address() string {
	port := e.Port
	if port <= 0 {
		port = DefaultSSHPort
	}

	return net.JoinHostPort(e.Host, strconv.Itoa(port))
}

// Execute runs command on the remote host. A non-zero exit status is
// returned as an error wrapping *ssh.ExitError.
func (e *SSHExecutor) Execute(ctx context.Context, command string) (Result, error) {
	client, err := e.connect(ctx)
	if err != nil {
		return Result{}, err
	}

	session, err := client.NewSession()
	if err != nil {
		return Result{}, fmt.Errorf("ssh %s: open session: %w", e.Host, err)
	}
	defer session.Close()

	var outBuf, errBuf bytes.Buffer

	session.Stdout = io.MultiWriter(&outBuf, orDiscard(e.stdout))
	session.Stderr = io.MultiWriter(&errBuf, orDiscard(e.stderr))

	log.Debugf("ssh %s@%s: %s", e.User, e.Address(), command)

	done := make(chan error, 1)

	go func() {
		done <- session.Run(command)
	}()

	select {
	case err = <-done:
	case <-ctx.Done():
		// Servers may ignore the signal; closing the connection ends the session.
		_ = session.Signal(ssh.SIGKILL)
		e.dropConnection()
		<-done

		err = ctx.Err()
	}

	result := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}
	if err != nil {
		return result, fmt.Errorf("ssh %s: %w", e.Host, err)
	}

	return result, nil
}

// Close closes the connection and the agent socket.
func (e *SSHExecutor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error

	if e.client != nil {
		errs = append(errs, e.client.Close())
		e.client = nil
	}

	if e.agentConn != nil {
		errs = append(errs, e.agentConn.Close())
		e.agentConn = nil
	}

	return errors.Join(errs...)
}

func (e *SSHExecutor) connect(ctx context.Context) (*ssh.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return e.client, nil
	}

	auth, err := e.authMethods()
	if err != nil {
		return nil, err
	}

	hostKeyCallback, err := e.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	timeout := e.DialTimeout
	if timeout <= 0 {
		timeout = DefaultDialTimeout
	}

	addr := e.Address()

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ssh %s: dial: %w", e.Host, err)
	}

	_ = conn.SetDeadline(time.Now().Add(timeout))

	clientConn, chans, reqs, err := ssh.NewClientConn(conn, addr, &ssh.ClientConfig{
		User:            e.User,
		Auth:            auth,
		HostKeyCallback: hostKeyCallback,
		Timeout:         timeout,
	})
	if err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("ssh %s: %w", e.Host, err)
	}

	_ = conn.SetDeadline(time.Time{})

	e.client = ssh.NewClient(clientConn, chans, reqs)

	return e.client, nil
}

func (e *SSHExecutor) dropConnection() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		_ = e.client.Close()
		e.client = nil
	}
}

// authMethods offers the key file first, then the agent.
func (e *SSHExecutor) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if e.KeyPath != "" {
		signer, err := readSigner(e.KeyPath)
		if err != nil {
			return nil, err
		}

		methods = append(methods, ssh.PublicKeys(signer))
	}

	if e.AgentSocket != "" {
		if e.agentConn == nil {
			conn, err := net.Dial("unix", e.AgentSocket)
			if err != nil {
				log.Debugf("ssh-agent at %s is not reachable: %v", e.AgentSocket, err)
			} else {
				e.agentConn = conn
			}
		}

		if e.agentConn != nil {
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(e.agentConn).Signers))
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w for %s", ErrNoSSHAuth, e.Host)
	}

	return methods, nil
}

func readSigner(keyPath string) (ssh.Signer, error) {
	path, err := fsutil.ExpandHomePath(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied key path
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}

	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("parse ssh key %s: %w", path, err)
	}

	return signer, nil
}

// hostKeyCallback checks keys against the known hosts file and records
// hosts it has not seen before.
func (e *SSHExecutor) hostKeyCallback() (ssh.HostKeyCallback, error) {
	knownHostsPath := e.KnownHostsPath
	if knownHostsPath == "" {
		knownHostsPath = DefaultKnownHostsPath
	}

	path, err := fsutil.ExpandHomePath(knownHostsPath)
	if err != nil {
		return nil, fmt.Errorf("known hosts: %w", err)
	}

	err = ensureFile(path)
	if err != nil {
		return nil, err
	}

	check, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("known hosts %s: %w", path, err)
	}

	return func(hostname string, remote net.Addr, key ssh.PublicKey) error {
		err := check(hostname, remote, key)

		var keyErr *knownhosts.KeyError

		switch {
		case err == nil:
			return nil
		case errors.As(err, &keyErr) && len(keyErr.Want) == 0:
			log.Debugf("adding %s to %s", hostname, path)

			return appendKnownHost(path, hostname, key)
		case errors.As(err, &keyErr):
			return fmt.Errorf("%w for %s (see %s)", ErrHostKeyMismatch, hostname, path)
		default:
			return fmt.Errorf("check host key of %s: %w", hostname, err)
		}
	}, nil
}

func ensureFile(path string) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("known hosts: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(path), fsutil.DirPermUserOnly)
	if err != nil {
		return fmt.Errorf("known hosts: %w", err)
	}

	err = os.WriteFile(path, nil, fsutil.FilePermUserOnly)
	if err != nil {
		return fmt.Errorf("known hosts: %w", err)
	}

	return nil
}

func appendKnownHost(path, hostname string, key ssh.PublicKey) error {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, fsutil.FilePermUserOnly) //nolint:gosec // known hosts path
	if err != nil {
		return fmt.Errorf("record host key: %w", err)
	}
	defer file.Close()

	_, err = fmt.Fprintln(file, knownhosts.Line([]string{knownhosts.Normalize(hostname)}, key))
	if err != nil {
		return fmt.Errorf("record host key: %w", err)
	}

	return nil
}

// DryRunExecutor prints commands instead of running them.
type DryRunExecutor struct {
	out io.Writer
}

// NewDryRunExecutor creates a DryRunExecutor writing to out.
func NewDryRunExecutor(out io.Writer) *DryRunExecutor {
	if out == nil {
		out = os.Stdout
	}

	return &DryRunExecutor{out: out}
}

// Execute prints command.
func (e *DryRunExecutor) Execute(_ context.Context, command string) (Result, error) {
	_, err := fmt.Fprintln(e.out, command)
	if err != nil {
		return Result{}, fmt.Errorf("write command: %w", err)
	}

	return Result{}, nil
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}

	return w
}
