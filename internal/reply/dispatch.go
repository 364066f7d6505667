package reply

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alan/review-triage/internal/feedback"
)

// Poster is the write surface of the GitHub client the dispatcher posts
// through. Reply bodies travel as JSON request bodies, so quoting inside the
// text cannot break the payload boundary.
type Poster interface {
	CreateReviewCommentReply(ctx context.Context, prNumber int, commentID int64, body string) (string, error)
	CreateConversationComment(ctx context.Context, prNumber int, body string) (string, error)
}

// Outcome records the result of one reply request, paired with the request
// itself so a failed subset can be retried from the output alone
type Outcome struct {
	Request         Request `json:"request"`
	Success         bool    `json:"success"`
	Description     string  `json:"description"`
	ConfirmationURL string  `json:"confirmationUrl,omitempty"`
	Error           string  `json:"error,omitempty"`
	DryRun          bool    `json:"dryRun,omitempty"`

	// remoteAttempted marks outcomes where a network call was actually made,
	// so pacing can skip validation failures and dry runs
	remoteAttempted bool
}

// Result partitions the outcomes. Within each partition, outcomes keep the
// order of their original requests.
type Result struct {
	Succeeded []Outcome `json:"succeeded"`
	Failed    []Outcome `json:"failed"`
}

// Dispatcher posts reply requests sequentially, one at a time. Posts are
// never issued concurrently; GitHub's secondary rate limits punish parallel
// writes.
type Dispatcher struct {
	Poster   Poster
	PRNumber int
	// Delay is the pause between successive posts. No delay follows the
	// final request, and dry-run requests never pause.
	Delay  time.Duration
	DryRun bool
	// Sleep is swappable in tests; nil means time.Sleep
	Sleep func(time.Duration)
}

// Run processes the requests strictly in input order and returns exactly one
// outcome per request. Individual failures (validation or remote) never stop
// the sequence.
func (d *Dispatcher) Run(ctx context.Context, requests []Request) Result {
	sleep := d.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	result := Result{Succeeded: []Outcome{}, Failed: []Outcome{}}

	for i, req := range requests {
		outcome := d.dispatch(ctx, req)

		if outcome.Success {
			result.Succeeded = append(result.Succeeded, outcome)
			slog.Info("Reply posted", "id", req.ID, "kind", req.Kind.String(), "dry_run", outcome.DryRun)
		} else {
			result.Failed = append(result.Failed, outcome)
			slog.Warn("Reply failed", "id", req.ID, "kind", req.Kind.String(), "error", outcome.Error)
		}

		// Pace actual posts; validation failures and dry runs issue no
		// network call and need no pause.
		if outcome.remoteAttempted && i < len(requests)-1 && d.Delay > 0 {
			sleep(d.Delay)
		}
	}

	return result
}

// dispatch validates, routes, and executes a single request
func (d *Dispatcher) dispatch(ctx context.Context, req Request) Outcome {
	if req.ID == "" || req.Body == "" {
		return Outcome{
			Request:     req,
			Description: fmt.Sprintf("reply %q on PR #%d", req.ID, d.PRNumber),
			Error:       "missing required field: id and body must both be present",
		}
	}

	switch req.Kind.Target() {
	case TargetThreadReply:
		return d.postThreadReply(ctx, req)
	case TargetConversation:
		return d.postConversationComment(ctx, req)
	default:
		return d.postThreadReply(ctx, req)
	}
}

// postThreadReply posts into the thread rooted at the request's comment ID.
// A review-body synthetic prefix is stripped before use.
func (d *Dispatcher) postThreadReply(ctx context.Context, req Request) Outcome {
	id, err := feedback.ParseEntryID(req.ID)
	if err != nil {
		return Outcome{
			Request:     req,
			Description: fmt.Sprintf("reply to comment %q on PR #%d", req.ID, d.PRNumber),
			Error:       fmt.Sprintf("identifier does not resolve to a comment ID: %v", err),
		}
	}

	commentID := id.Native()
	outcome := Outcome{
		Request:     req,
		Description: fmt.Sprintf("reply to comment %d on PR #%d", commentID, d.PRNumber),
	}

	if d.DryRun {
		outcome.Success = true
		outcome.DryRun = true
		outcome.Description = fmt.Sprintf("would reply to comment %d on PR #%d", commentID, d.PRNumber)
		return outcome
	}

	outcome.remoteAttempted = true
	url, err := d.Poster.CreateReviewCommentReply(ctx, d.PRNumber, commentID, req.Body)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Success = true
	outcome.ConfirmationURL = url
	return outcome
}

// postConversationComment posts a new top-level conversation comment. The
// identifier is only used in the description; the write is keyed by PR number.
func (d *Dispatcher) postConversationComment(ctx context.Context, req Request) Outcome {
	outcome := Outcome{
		Request:     req,
		Description: fmt.Sprintf("conversation comment answering %q on PR #%d", req.ID, d.PRNumber),
	}

	if d.DryRun {
		outcome.Success = true
		outcome.DryRun = true
		outcome.Description = fmt.Sprintf("would post conversation comment answering %q on PR #%d", req.ID, d.PRNumber)
		return outcome
	}

	outcome.remoteAttempted = true
	url, err := d.Poster.CreateConversationComment(ctx, d.PRNumber, req.Body)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Success = true
	outcome.ConfirmationURL = url
	return outcome
}
