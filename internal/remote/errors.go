package remote

import (
	"errors"
	"fmt"
	"strings"
)

// Connection-stage sentinels. Callers branch on these with errors.Is to pick
// exit codes and user-facing hints.
var (
	// ErrAuthFailed means the server rejected every offered credential.
	ErrAuthFailed = errors.New("ssh authentication failed")
	// ErrUnreachable means the host could not be contacted at all.
	ErrUnreachable = errors.New("host unreachable")
	// ErrConfigInvalid means the stored login or ssh_config is unusable.
	ErrConfigInvalid = errors.New("login configuration invalid")
	// ErrTimeout means a remote command exceeded its execution deadline.
	ErrTimeout = errors.New("remote command timed out")
)

// ExitError reports a remote command that ran but returned a nonzero status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("remote command exited with status %d: %s", e.Code, e.Stderr)
	}
	return fmt.Sprintf("remote command exited with status %d", e.Code)
}

// classifyConnectErr maps dial and handshake failures onto the connection
// sentinels by message pattern. The ssh package does not export typed errors
// for these cases, so string matching is the only signal available. A bare
// "handshake failed" is deliberately left unclassified: it covers both
// network and protocol causes.
func classifyConnectErr(err error, host string) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unable to authenticate"),
		strings.Contains(msg, "no supported methods remain"):
		return fmt.Errorf("%w for %s: check that your key is authorized: %v", ErrAuthFailed, host, err)
	case strings.Contains(msg, "i/o timeout"),
		strings.Contains(msg, "connection timed out"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "no such host"),
		strings.Contains(msg, "network is unreachable"):
		return fmt.Errorf("%w: %s: %v", ErrUnreachable, host, err)
	default:
		return fmt.Errorf("connecting to %s: %w", host, err)
	}
}
