package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alan/review-triage/cmd"
)

// ValidateRepository checks that the config names a usable repository
func ValidateRepository(config *cmd.Config) error {
	if config.Org == "" || config.Repo == "" {
		return fmt.Errorf("config must set both org and repo (run 'review-triage config --org <org> --repo <repo>')")
	}
	return nil
}

// ValidatePRNumber checks that a PR number was supplied and is positive
func ValidatePRNumber(number int) error {
	if number <= 0 {
		return fmt.Errorf("a positive PR number is required (use --pr)")
	}
	return nil
}

// ParsePRNumberFromArgs parses an optional positional PR number, falling back
// to the flag value when no argument is given
func ParsePRNumberFromArgs(args []string, flagValue int) (int, error) {
	if len(args) == 0 {
		return flagValue, nil
	}

	prNumber, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid PR number: %w", err)
	}
	return prNumber, nil
}

// SplitRepoSlug splits an "org/repo" argument into its parts
func SplitRepoSlug(slug string) (string, string, error) {
	parts := strings.Split(slug, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("repository must be in org/repo form, got %q", slug)
	}
	return parts[0], parts[1], nil
}
