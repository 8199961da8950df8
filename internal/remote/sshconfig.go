package remote

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/cluster-tools/internal/credstore"
)

// aliasEntry is a resolved ~/.ssh/config Host block.
type aliasEntry struct {
	HostName     string
	User         string
	Port         string
	IdentityFile string
}

// defaultSSHConfigPath returns ~/.ssh/config.
func defaultSSHConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ssh", "config")
}

// resolveAlias reads an OpenSSH client config and resolves the Host block
// matching alias. Patterns follow ssh_config semantics as far as the tool
// needs them: * and ? globs, space-separated pattern lists, and
// first-match-wins per keyword across blocks. An alias with no matching
// block is a configuration error; an entry without HostName connects to the
// alias name itself.
func resolveAlias(path, alias string) (aliasEntry, error) {
	var entry aliasEntry

	f, err := os.Open(path)
	if err != nil {
		return entry, fmt.Errorf("%w: cannot read %s: %v", ErrConfigInvalid, path, err)
	}
	defer f.Close()

	matched := false
	inMatchingBlock := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := splitConfigLine(line)
		if !ok {
			continue
		}

		if strings.EqualFold(key, "Host") {
			inMatchingBlock = hostPatternsMatch(value, alias)
			if inMatchingBlock {
				matched = true
			}
			continue
		}
		if !inMatchingBlock {
			continue
		}

		// First match wins per keyword, as in ssh_config(5)
		switch {
		case strings.EqualFold(key, "HostName") && entry.HostName == "":
			entry.HostName = value
		case strings.EqualFold(key, "User") && entry.User == "":
			entry.User = value
		case strings.EqualFold(key, "Port") && entry.Port == "":
			entry.Port = value
		case strings.EqualFold(key, "IdentityFile") && entry.IdentityFile == "":
			entry.IdentityFile = credstore.ExpandTilde(value)
		}
	}
	if err := scanner.Err(); err != nil {
		return entry, fmt.Errorf("%w: reading %s: %v", ErrConfigInvalid, path, err)
	}

	if !matched {
		return entry, fmt.Errorf("%w: no Host entry for %q in %s", ErrConfigInvalid, alias, path)
	}
	if entry.HostName == "" {
		entry.HostName = alias
	}
	return entry, nil
}

// splitConfigLine splits "Key value" or "Key=value" into its parts.
func splitConfigLine(line string) (key, value string, ok bool) {
	if i := strings.IndexAny(line, " \t="); i >= 0 {
		key = line[:i]
		value = strings.TrimSpace(strings.TrimLeft(line[i:], " \t="))
		return key, value, key != "" && value != ""
	}
	return "", "", false
}

// hostPatternsMatch reports whether any pattern in a Host directive matches
// the alias.
func hostPatternsMatch(patterns, alias string) bool {
	for _, pattern := range strings.Fields(patterns) {
		if ok, err := filepath.Match(pattern, alias); err == nil && ok {
			return true
		}
	}
	return false
}
