// Package config implements the config command for initializing and updating review-triage configuration.
package config

import (
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"strings"

	"github.com/alan/review-triage/cmd"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates and returns the config command
func NewConfigCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) *cobra.Command {
	var (
		org          string
		repo         string
		replyDelayMS int
	)

	cobraCmd := &cobra.Command{
		Use:   "config",
		Short: "Initialize a new review-triage.yaml configuration file",
		Long: `Config creates or updates a review-triage.yaml file with the target
organization and repository.

When run from a git repository, the organization and repository are
auto-detected from the git remote origin if not given explicitly.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfig(*globalConfigFile, org, repo, replyDelayMS, loadConfig, saveConfig)
		},
	}

	cobraCmd.Flags().StringVarP(&org, "org", "o", "", "GitHub organization or username (auto-detected from git if available)")
	cobraCmd.Flags().StringVarP(&repo, "repo", "r", "", "GitHub repository name (auto-detected from git if available)")
	cobraCmd.Flags().IntVarP(&replyDelayMS, "reply-delay", "d", 0, "Delay between reply posts in milliseconds (0 keeps the default)")

	cobraCmd.AddCommand(newShowCmd(globalConfigFile, loadConfig))

	return cobraCmd
}

// newShowCmd creates the config show subcommand
func newShowCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:          "show",
		Short:        "Show the current configuration",
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			config, err := loadConfig(*globalConfigFile)
			if err != nil {
				return err
			}

			fmt.Fprintf(cobraCmd.OutOrStdout(), "Configuration (%s):\n", *globalConfigFile)
			fmt.Fprintf(cobraCmd.OutOrStdout(), "  Organization: %s\n", config.Org)
			fmt.Fprintf(cobraCmd.OutOrStdout(), "  Repository: %s\n", config.Repo)
			fmt.Fprintf(cobraCmd.OutOrStdout(), "  Reply delay: %s\n", config.ReplyDelay())
			return nil
		},
	}
}

// runConfig merges flag values, existing config values, and git detection,
// then writes the file
func runConfig(configFile, org, repo string, replyDelayMS int, loadConfig func(string) (*cmd.Config, error), saveConfig func(string, *cmd.Config) error) error {
	config, err := loadConfig(configFile)
	if err != nil {
		config = &cmd.Config{}
	}

	if org != "" {
		config.Org = org
	}
	if repo != "" {
		config.Repo = repo
	}
	if replyDelayMS > 0 {
		config.ReplyDelayMS = replyDelayMS
	}

	if config.Org == "" || config.Repo == "" {
		detectedOrg, detectedRepo, err := detectGitRepoInfo()
		if err == nil {
			if config.Org == "" {
				config.Org = detectedOrg
			}
			if config.Repo == "" {
				config.Repo = detectedRepo
			}
			slog.Info("Detected repository from git remote", "org", detectedOrg, "repo", detectedRepo)
		}
	}

	if config.Org == "" || config.Repo == "" {
		return fmt.Errorf("org and repo are required (pass --org/--repo or run inside a git repository)")
	}

	if err := saveConfig(configFile, config); err != nil {
		return err
	}

	fmt.Printf("✅ Configuration saved to %s for %s\n", configFile, config.Slug())
	return nil
}

// remotePattern matches both SSH and HTTPS GitHub remote URLs
var remotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)(\.git)?$`)

// detectGitRepoInfo extracts org and repo from the git remote origin URL
func detectGitRepoInfo() (string, string, error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", "", fmt.Errorf("failed to read git remote origin: %w", err)
	}

	matches := remotePattern.FindStringSubmatch(strings.TrimSpace(string(out)))
	if len(matches) < 3 {
		return "", "", fmt.Errorf("remote origin is not a GitHub URL")
	}

	return matches[1], strings.TrimSuffix(matches[2], ".git"), nil
}
