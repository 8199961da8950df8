// Package credstore handles the stored cluster login configuration.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file name under the user's home directory.
	FileName = ".cluster_tools"
	// EnvPathOverride overrides the config path when set. Useful for testing.
	EnvPathOverride = "CLUSTER_TOOLS_CONFIG"
)

// ErrNotConfigured is returned when no login configuration exists yet.
var ErrNotConfigured = errors.New("no login configuration found; run 'cluster login' first")

// AuthMode describes how a stored target authenticates.
type AuthMode int

const (
	// AuthAgent uses keys from the running ssh-agent.
	AuthAgent AuthMode = iota
	// AuthIdentityFile uses an explicit private key file.
	AuthIdentityFile
	// AuthSSHConfigAlias resolves host, user, and key from ~/.ssh/config.
	AuthSSHConfigAlias
)

// Target is one stored cluster login.
type Target struct {
	Host           string `yaml:"host,omitempty"`
	Username       string `yaml:"username,omitempty"`
	IdentityFile   string `yaml:"identity_file,omitempty"`
	SSHConfigAlias string `yaml:"ssh_config_alias,omitempty"`
}

// Auth returns the authentication mode implied by the stored fields.
func (t Target) Auth() AuthMode {
	if t.SSHConfigAlias != "" {
		return AuthSSHConfigAlias
	}
	if t.IdentityFile != "" {
		return AuthIdentityFile
	}
	return AuthAgent
}

// Validate checks that the target is usable before dialing.
func (t Target) Validate() error {
	if t.SSHConfigAlias != "" {
		return nil
	}
	if t.Host == "" {
		return fmt.Errorf("stored login has neither host nor ssh config alias")
	}
	if t.IdentityFile != "" {
		if _, err := os.Stat(ExpandTilde(t.IdentityFile)); err != nil {
			return fmt.Errorf("identity file %s: %w", t.IdentityFile, err)
		}
	}
	return nil
}

// Path returns the config file location, honoring the env override.
func Path() (string, error) {
	if p := os.Getenv(EnvPathOverride); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Load reads the stored target. A missing file is ErrNotConfigured.
func Load() (Target, error) {
	var t Target

	path, err := Path()
	if err != nil {
		return t, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return t, ErrNotConfigured
		}
		return t, fmt.Errorf("reading login configuration: %w", err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("parsing login configuration: %w", err)
	}
	return t, nil
}

// Save writes the target with owner-only permissions.
func Save(t Target) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("encoding login configuration: %w", err)
	}

	// 0600: the file names hosts, users, and key paths
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("writing login configuration: %w", err)
	}
	return path, nil
}

// ExpandTilde expands a leading ~ to the user's home directory.
func ExpandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
