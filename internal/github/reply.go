package github

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// CreateReviewCommentReply posts a reply into an existing inline comment
// thread. commentID must be the thread root's comment ID. The created
// comment's web URL is returned for confirmation.
func (c *Client) CreateReviewCommentReply(ctx context.Context, prNumber int, commentID int64, body string) (string, error) {
	slog.Debug("GitHub API: Creating review comment reply", "org", c.org, "repo", c.repo, "pr", prNumber, "comment", commentID)
	comment, _, err := c.client.PullRequests.CreateCommentInReplyTo(ctx, c.org, c.repo, prNumber, body, commentID)
	if err != nil {
		return "", fmt.Errorf("failed to reply to comment %d on PR #%d: %w", commentID, prNumber, err)
	}

	return comment.GetHTMLURL(), nil
}

// CreateConversationComment posts a new top-level conversation comment on the
// PR via the Issues API and returns the created comment's web URL.
func (c *Client) CreateConversationComment(ctx context.Context, prNumber int, body string) (string, error) {
	slog.Debug("GitHub API: Creating conversation comment", "org", c.org, "repo", c.repo, "pr", prNumber)
	comment, _, err := c.client.Issues.CreateComment(ctx, c.org, c.repo, prNumber, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create conversation comment on PR #%d: %w", prNumber, err)
	}

	return comment.GetHTMLURL(), nil
}
