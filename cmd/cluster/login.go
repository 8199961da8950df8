package main

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/matsen/cluster-tools/internal/credstore"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store SSH login configuration for the cluster",
	Long: `Interactively configure how to reach the cluster head node.

Either pick a Host alias from ~/.ssh/config, or enter a hostname and
username directly with an optional identity file (the ssh-agent is
used when no identity file is given). The result is written to
~/.cluster_tools with owner-only permissions.`,
	RunE: runLogin,
}

func init() {
	// Load .env file if present (for CLUSTER_TOOLS_CONFIG)
	_ = godotenv.Load()

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	methods := []string{
		"Use a Host alias from ~/.ssh/config",
		"Enter host and username directly",
	}
	sel := promptui.Select{
		Label: "How do you connect to the cluster",
		Items: methods,
	}
	choice, _, err := sel.Run()
	if err != nil {
		exitWithError(ExitError, "reading selection: %v", err)
	}

	var target credstore.Target
	if choice == 0 {
		alias, err := promptRequired("Host alias")
		if err != nil {
			exitWithError(ExitError, "reading alias: %v", err)
		}
		target.SSHConfigAlias = alias
	} else {
		host, err := promptRequired("Hostname")
		if err != nil {
			exitWithError(ExitError, "reading hostname: %v", err)
		}
		username, err := promptRequired("Username")
		if err != nil {
			exitWithError(ExitError, "reading username: %v", err)
		}
		identity, err := promptOptional("Identity file (empty to use ssh-agent)")
		if err != nil {
			exitWithError(ExitError, "reading identity file: %v", err)
		}
		target.Host = host
		target.Username = username
		target.IdentityFile = identity
	}

	path, err := credstore.Save(target)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Configuration saved to %s\n", path)
	} else {
		if err := outputJSON(StatusResponse{Status: "saved", Path: path}); err != nil {
			exitWithError(ExitError, "encoding JSON: %v", err)
		}
	}
	return nil
}

// promptRequired asks for a non-empty string.
func promptRequired(label string) (string, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("value required")
			}
			return nil
		},
	}
	value, err := p.Run()
	return strings.TrimSpace(value), err
}

// promptOptional asks for a string that may be empty.
func promptOptional(label string) (string, error) {
	p := promptui.Prompt{Label: label}
	value, err := p.Run()
	return strings.TrimSpace(value), err
}
