package github

import (
	"context"
	"log/slog"

	"github.com/alan/review-triage/internal/feedback"
	"github.com/google/go-github/v57/github"
)

// GetPullRequest fetches the PR overview, including the head commit SHA used
// to derive the "on current head" flags on reviews and comments.
func (c *Client) GetPullRequest(ctx context.Context, number int) (*feedback.PullRequest, error) {
	slog.Debug("GitHub API: Getting PR", "org", c.org, "repo", c.repo, "pr", number)
	pr, _, err := c.client.PullRequests.Get(ctx, c.org, c.repo, number)
	if err != nil {
		return nil, c.wrapFetch("pull request", err)
	}

	return &feedback.PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Author:  pr.GetUser().GetLogin(),
		State:   pr.GetState(),
		HeadSHA: pr.GetHead().GetSHA(),
		URL:     pr.GetHTMLURL(),
	}, nil
}

// ListReviews fetches all reviews for a PR, exhausting pagination
func (c *Client) ListReviews(ctx context.Context, number int, headSHA string) ([]feedback.Review, error) {
	reviews, err := paginatedList(func(page int) ([]*github.PullRequestReview, *github.Response, error) {
		opts := &github.ListOptions{
			PerPage: 100,
			Page:    page,
		}
		slog.Debug("GitHub API: Listing reviews", "org", c.org, "repo", c.repo, "pr", number, "page", page)
		return c.client.PullRequests.ListReviews(ctx, c.org, c.repo, number, opts)
	})
	if err != nil {
		return nil, c.wrapFetch("reviews", err)
	}

	all := make([]feedback.Review, 0, len(reviews))
	for _, r := range reviews {
		all = append(all, feedback.Review{
			ID:          r.GetID(),
			Author:      r.GetUser().GetLogin(),
			State:       feedback.ParseReviewState(r.GetState()),
			Body:        r.GetBody(),
			SubmittedAt: r.GetSubmittedAt().Time,
			CommitID:    r.GetCommitID(),
			OnHead:      r.GetCommitID() != "" && r.GetCommitID() == headSHA,
		})
	}

	return all, nil
}

// ListReviewComments fetches all inline review comments for a PR, exhausting
// pagination. Parent references arrive flat (in_reply_to_id); the feedback
// package reconstructs the threads.
func (c *Client) ListReviewComments(ctx context.Context, number int, headSHA string) ([]feedback.Comment, error) {
	comments, err := paginatedList(func(page int) ([]*github.PullRequestComment, *github.Response, error) {
		opts := &github.PullRequestListCommentsOptions{
			ListOptions: github.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing review comments", "org", c.org, "repo", c.repo, "pr", number, "page", page)
		return c.client.PullRequests.ListComments(ctx, c.org, c.repo, number, opts)
	})
	if err != nil {
		return nil, c.wrapFetch("review comments", err)
	}

	all := make([]feedback.Comment, 0, len(comments))
	for _, comment := range comments {
		fc := feedback.Comment{
			ID:           comment.GetID(),
			Path:         comment.GetPath(),
			Line:         comment.GetLine(),
			OriginalLine: comment.GetOriginalLine(),
			Side:         comment.GetSide(),
			DiffHunk:     comment.GetDiffHunk(),
			Body:         comment.GetBody(),
			Author:       comment.GetUser().GetLogin(),
			AuthorRole:   comment.GetAuthorAssociation(),
			CreatedAt:    comment.GetCreatedAt().Time,
			UpdatedAt:    comment.GetUpdatedAt().Time,
			ReviewID:     comment.GetPullRequestReviewID(),
			CommitID:     comment.GetCommitID(),
			OnHead:       comment.GetCommitID() != "" && comment.GetCommitID() == headSHA,
		}
		if comment.InReplyTo != nil {
			parent := comment.GetInReplyTo()
			fc.InReplyTo = &parent
		}
		all = append(all, fc)
	}

	return all, nil
}

// ListIssueComments fetches all conversation comments for a PR, exhausting
// pagination
func (c *Client) ListIssueComments(ctx context.Context, number int) ([]feedback.IssueComment, error) {
	comments, err := paginatedList(func(page int) ([]*github.IssueComment, *github.Response, error) {
		opts := &github.IssueListCommentsOptions{
			ListOptions: github.ListOptions{
				PerPage: 100,
				Page:    page,
			},
		}
		slog.Debug("GitHub API: Listing issue comments", "org", c.org, "repo", c.repo, "pr", number, "page", page)
		return c.client.Issues.ListComments(ctx, c.org, c.repo, number, opts)
	})
	if err != nil {
		return nil, c.wrapFetch("issue comments", err)
	}

	all := make([]feedback.IssueComment, 0, len(comments))
	for _, comment := range comments {
		all = append(all, feedback.IssueComment{
			ID:         comment.GetID(),
			Author:     comment.GetUser().GetLogin(),
			AuthorRole: comment.GetAuthorAssociation(),
			Body:       comment.GetBody(),
			CreatedAt:  comment.GetCreatedAt().Time,
			UpdatedAt:  comment.GetUpdatedAt().Time,
		})
	}

	return all, nil
}
