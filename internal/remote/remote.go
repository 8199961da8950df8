// Package remote runs commands on a cluster head node over SSH.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/user"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
	"golang.org/x/time/rate"

	"github.com/matsen/cluster-tools/internal/credstore"
)

const (
	// DefaultTimeout bounds both the connection handshake and each command.
	DefaultTimeout = 30 * time.Second
	// DefaultPort is used when neither the target nor ssh_config names one.
	DefaultPort = "22"

	// Schedd queries are cheap but head nodes are shared; pace multi-command
	// flows like log tailing instead of bursting.
	queriesPerSecond = 1
	queryBurst       = 2
)

// Output is the result of a successfully executed remote command.
type Output struct {
	Stdout   string
	ExitCode int
}

// Session is an open SSH connection to a cluster head node.
type Session struct {
	client    *ssh.Client
	agentConn net.Conn // closed in Close() when agent auth was used
	limiter   *rate.Limiter
	timeout   time.Duration
}

// Option configures session opening.
type Option func(*options)

type options struct {
	timeout       time.Duration
	sshConfigPath string
}

// WithTimeout overrides the handshake and per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithSSHConfigPath overrides the OpenSSH client config location. Useful for
// testing.
func WithSSHConfigPath(path string) Option {
	return func(o *options) { o.sshConfigPath = path }
}

// Open dials the stored target and completes the SSH handshake. Connection
// failures are classified onto the ErrAuthFailed, ErrUnreachable, and
// ErrConfigInvalid sentinels.
func Open(ctx context.Context, target credstore.Target, opts ...Option) (*Session, error) {
	o := options{timeout: DefaultTimeout, sshConfigPath: defaultSSHConfigPath()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := target.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	host := target.Host
	username := target.Username
	port := DefaultPort
	identityFile := target.IdentityFile

	if target.Auth() == credstore.AuthSSHConfigAlias {
		entry, err := resolveAlias(o.sshConfigPath, target.SSHConfigAlias)
		if err != nil {
			return nil, err
		}
		host = entry.HostName
		if entry.User != "" {
			username = entry.User
		}
		if entry.Port != "" {
			port = entry.Port
		}
		if entry.IdentityFile != "" {
			identityFile = entry.IdentityFile
		}
	}

	var auth []ssh.AuthMethod
	var agentConn net.Conn
	if identityFile != "" {
		signer, err := loadIdentity(identityFile)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	} else {
		signers, conn, err := agentSigners()
		if err != nil {
			return nil, err
		}
		agentConn = conn
		auth = append(auth, ssh.PublicKeys(signers...))
	}

	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}

	// InsecureIgnoreHostKey disables host key verification. This is acceptable
	// for an internal tool talking to managed cluster head nodes. For
	// untrusted networks, use a known_hosts file instead.
	clientConfig := &ssh.ClientConfig{
		User:            username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         o.timeout,
	}

	addr := net.JoinHostPort(host, port)
	dialer := net.Dialer{Timeout: o.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		closeQuiet(agentConn)
		return nil, classifyConnectErr(err, host)
	}

	// Bound the handshake too; cleared once the connection is established
	if err := conn.SetDeadline(time.Now().Add(o.timeout)); err != nil {
		conn.Close()
		closeQuiet(agentConn)
		return nil, classifyConnectErr(err, host)
	}
	ncc, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		closeQuiet(agentConn)
		return nil, classifyConnectErr(err, host)
	}
	if err := conn.SetDeadline(time.Time{}); err != nil {
		ncc.Close()
		closeQuiet(agentConn)
		return nil, classifyConnectErr(err, host)
	}

	return &Session{
		client:    ssh.NewClient(ncc, chans, reqs),
		agentConn: agentConn,
		limiter:   rate.NewLimiter(queriesPerSecond, queryBurst),
		timeout:   o.timeout,
	}, nil
}

// Execute runs one command and waits for it to finish. A nonzero remote exit
// status is returned as *ExitError; exceeding the session timeout kills the
// remote process and returns ErrTimeout.
func (s *Session) Execute(ctx context.Context, command string) (Output, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Output{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	sess, err := s.client.NewSession()
	if err != nil {
		return Output{}, fmt.Errorf("opening ssh channel: %w", err)
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	if err := sess.Start(command); err != nil {
		return Output{}, fmt.Errorf("starting remote command: %w", err)
	}

	done := make(chan error, 1)
	go func() { done <- sess.Wait() }()

	select {
	case <-ctx.Done():
		sess.Signal(ssh.SIGKILL)
		return Output{Stdout: stdout.String()}, fmt.Errorf("%w after %s: %s", ErrTimeout, s.timeout, command)
	case err := <-done:
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				return Output{Stdout: stdout.String(), ExitCode: exitErr.ExitStatus()},
					&ExitError{Code: exitErr.ExitStatus(), Stderr: strings.TrimSpace(stderr.String())}
			}
			return Output{Stdout: stdout.String()}, fmt.Errorf("running remote command: %w", err)
		}
		return Output{Stdout: stdout.String()}, nil
	}
}

// Close tears down the SSH connection and, if used, the agent socket.
func (s *Session) Close() error {
	var first error
	if s.client != nil {
		first = s.client.Close()
	}
	if s.agentConn != nil {
		if err := s.agentConn.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// loadIdentity parses a private key file into a signer.
func loadIdentity(path string) (ssh.Signer, error) {
	path = credstore.ExpandTilde(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading identity file %s: %v", ErrConfigInvalid, path, err)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing identity file %s: %v", ErrConfigInvalid, path, err)
	}
	return signer, nil
}

// agentSigners connects to the running ssh-agent and collects its signers.
// The returned connection must stay open while the signers are in use.
func agentSigners() ([]ssh.Signer, net.Conn, error) {
	authSock := os.Getenv("SSH_AUTH_SOCK")
	if authSock == "" {
		return nil, nil, fmt.Errorf("%w: SSH agent not running. Start with `eval $(ssh-agent)` and add keys with `ssh-add`", ErrAuthFailed)
	}

	conn, err := net.Dial("unix", authSock)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: cannot connect to SSH agent at %s: %v", ErrAuthFailed, authSock, err)
	}

	agentClient := agent.NewClient(conn)
	keys, err := agentClient.List()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("%w: listing SSH agent keys: %v", ErrAuthFailed, err)
	}
	if len(keys) == 0 {
		conn.Close()
		return nil, nil, fmt.Errorf("%w: SSH agent has no keys. Add keys with `ssh-add`", ErrAuthFailed)
	}

	signers, err := agentClient.Signers()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("%w: getting SSH agent signers: %v", ErrAuthFailed, err)
	}
	return signers, conn, nil
}

func closeQuiet(conn net.Conn) {
	if conn != nil {
		conn.Close()
	}
}
