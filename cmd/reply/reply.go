// Package reply implements the reply command, which bulk-posts replies into
// the correct comment threads of a pull request.
package reply

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alan/review-triage/cmd"
	"github.com/alan/review-triage/internal/commands"
	"github.com/alan/review-triage/internal/reply"
	"github.com/spf13/cobra"
)

// ReplyCommand encapsulates the reply command with common functionality
type ReplyCommand struct {
	commands.BaseCommand
	PRNumber  int
	InputFile string
	DryRun    bool
	DelayMS   int
	delaySet  bool
}

// NewReplyCmd creates and returns the reply command
func NewReplyCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	replyCmd := &ReplyCommand{}

	command := &cobra.Command{
		Use:   "reply",
		Short: "Bulk-post replies into the correct PR comment threads",
		Long: `Reply reads a JSON array of {id, body, type} requests from a file or
stdin and posts each one sequentially: inline kinds go to the matching comment
thread, conversation kinds become new top-level comments. Each request gets
exactly one outcome; failures never stop the sequence.

The result document (succeeded/failed partitions) is written to stdout and the
exit status is non-zero if any reply failed.

Requires GITHUB_TOKEN environment variable to be set.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			replyCmd.ConfigFile = globalConfigFile
			replyCmd.LoadConfig = loadConfig
			if err := replyCmd.Init(); err != nil {
				return err
			}

			prNumber, err := commands.ParsePRNumberFromArgs(args, replyCmd.PRNumber)
			if err != nil {
				return err
			}
			replyCmd.PRNumber = prNumber
			replyCmd.delaySet = cobraCmd.Flags().Changed("delay")

			return replyCmd.Run()
		},
	}

	command.Flags().IntVarP(&replyCmd.PRNumber, "pr", "p", 0, "Pull request number")
	command.Flags().StringVarP(&replyCmd.InputFile, "file", "F", "", "Read reply requests from this file (default: stdin)")
	command.Flags().BoolVarP(&replyCmd.DryRun, "dry-run", "n", false, "Validate and route without posting anything")
	command.Flags().IntVarP(&replyCmd.DelayMS, "delay", "d", cmd.DefaultReplyDelayMS, "Delay between posts in milliseconds")

	return command
}

// Run executes the reply command
func (rc *ReplyCommand) Run() error {
	if err := commands.ValidatePRNumber(rc.PRNumber); err != nil {
		return err
	}

	requests, err := rc.readRequests()
	if err != nil {
		return err
	}

	dispatcher := &reply.Dispatcher{
		Poster:   rc.GitHubClient,
		PRNumber: rc.PRNumber,
		Delay:    rc.delay(),
		DryRun:   rc.DryRun,
	}

	result := dispatcher.Run(rc.Context, requests)

	// The result document is always emitted, even on failures, so downstream
	// tooling can retry just the failed subset.
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode reply result: %w", err)
	}
	data = append(data, '\n')
	if _, err := os.Stdout.Write(data); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	fmt.Fprint(os.Stderr, commands.FormatReplySummary(result))

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d replies failed", len(result.Failed), len(result.Succeeded)+len(result.Failed))
	}
	return nil
}

// readRequests parses the reply requests from the input file or stdin
func (rc *ReplyCommand) readRequests() ([]reply.Request, error) {
	var input io.Reader = os.Stdin
	if rc.InputFile != "" {
		f, err := os.Open(rc.InputFile) //nolint:gosec // Input filename is from command-line flag
		if err != nil {
			return nil, fmt.Errorf("failed to open reply input file: %w", err)
		}
		defer func() { _ = f.Close() }()
		input = f
	}

	return reply.ParseRequests(input)
}

// delay resolves the inter-post pause: an explicit flag wins over the config
// file, which wins over the built-in default.
func (rc *ReplyCommand) delay() time.Duration {
	if rc.delaySet {
		return time.Duration(rc.DelayMS) * time.Millisecond
	}
	return rc.Config.ReplyDelay()
}
