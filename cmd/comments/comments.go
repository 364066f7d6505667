// Package comments implements the comments command, which aggregates all
// review feedback on a pull request into a single JSON document.
package comments

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/alan/review-triage/cmd"
	"github.com/alan/review-triage/internal/commands"
	"github.com/alan/review-triage/internal/feedback"
	"github.com/spf13/cobra"
)

// CommentsCommand encapsulates the comments command with common functionality
type CommentsCommand struct {
	commands.BaseCommand
	PRNumber   int
	OutputFile string
}

// NewCommentsCmd creates and returns the comments command
func NewCommentsCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	commentsCmd := &CommentsCommand{}

	command := &cobra.Command{
		Use:   "comments",
		Short: "Aggregate all review feedback on a PR into one JSON document",
		Long: `Comments fetches the reviews, inline code comments, and conversation
comments of a pull request, reconstructs the reply threads, and emits a single
chronologically ordered JSON document with verification statistics.

The document's allComments entries carry the identifiers and types the reply
command accepts, closing the read-feedback/act/reply loop.

Requires GITHUB_TOKEN environment variable to be set.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			commentsCmd.ConfigFile = globalConfigFile
			commentsCmd.LoadConfig = loadConfig
			if err := commentsCmd.Init(); err != nil {
				return err
			}

			prNumber, err := commands.ParsePRNumberFromArgs(args, commentsCmd.PRNumber)
			if err != nil {
				return err
			}
			commentsCmd.PRNumber = prNumber

			return commentsCmd.Run()
		},
	}

	command.Flags().IntVarP(&commentsCmd.PRNumber, "pr", "p", 0, "Pull request number")
	command.Flags().StringVarP(&commentsCmd.OutputFile, "output", "o", "", "Write the document to this file instead of stdout")

	return command
}

// Run executes the comments command
func (cc *CommentsCommand) Run() error {
	if err := commands.ValidatePRNumber(cc.PRNumber); err != nil {
		return err
	}

	report, err := cc.aggregate()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode feedback document: %w", err)
	}
	data = append(data, '\n')

	if cc.OutputFile != "" {
		if err := os.WriteFile(cc.OutputFile, data, 0600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
	}

	fmt.Fprint(os.Stderr, commands.FormatFetchSummary(report.Stats.TotalReviews, report.Stats.TotalAllComments, report.Stats.OrphanedComments))
	return nil
}

// aggregate runs the four fetches and assembles the model. Any fetch failure
// aborts the whole run: a partial merge would misreport threading and counts.
func (cc *CommentsCommand) aggregate() (*feedback.Report, error) {
	ctx := cc.Context
	client := cc.GitHubClient

	slog.Info("Aggregating review feedback", "repo", cc.Config.Slug(), "pr", cc.PRNumber)

	pr, err := client.GetPullRequest(ctx, cc.PRNumber)
	if err != nil {
		return nil, err
	}

	reviews, err := client.ListReviews(ctx, cc.PRNumber, pr.HeadSHA)
	if err != nil {
		return nil, err
	}

	comments, err := client.ListReviewComments(ctx, cc.PRNumber, pr.HeadSHA)
	if err != nil {
		return nil, err
	}

	issueComments, err := client.ListIssueComments(ctx, cc.PRNumber)
	if err != nil {
		return nil, err
	}

	return feedback.Assemble(cc.Config.Slug(), *pr, reviews, comments, issueComments)
}
