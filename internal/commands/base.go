// Package commands provides shared initialization, validation, and display
// helpers for the review-triage subcommands.
package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/alan/review-triage/cmd"
	"github.com/alan/review-triage/internal/github"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile   *string
	LoadConfig   func(string) (*cmd.Config, error)
	GitHubClient *github.Client
	Context      context.Context
	Config       *cmd.Config
}

// Init initializes the base command with common setup
func (bc *BaseCommand) Init() error {
	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	if err := ValidateRepository(config); err != nil {
		return err
	}
	bc.Config = config

	token, err := getGitHubToken()
	if err != nil {
		return err
	}
	bc.Context = context.Background()
	bc.GitHubClient = github.NewClient(bc.Context, token).WithRepository(config.Org, config.Repo)

	return nil
}

// getGitHubToken retrieves and validates the GitHub token
func getGitHubToken() (string, error) {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		return "", fmt.Errorf("GITHUB_TOKEN environment variable is required")
	}
	return token, nil
}
