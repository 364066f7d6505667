// Package feedback builds the aggregated review-feedback model for a pull
// request: per-review comment trees, the orphan set, a flat chronologically
// ordered list, and verification statistics.
package feedback

import (
	"fmt"
	"time"
)

// ReviewState represents a reviewer's decision on a pull request
type ReviewState string

const (
	// ReviewApproved indicates the reviewer approved the changes
	ReviewApproved ReviewState = "approved"
	// ReviewChangesRequested indicates the reviewer requested changes
	ReviewChangesRequested ReviewState = "changes-requested"
	// ReviewCommented indicates a review submitted without a decision
	ReviewCommented ReviewState = "commented"
	// ReviewPending indicates a review that has not been submitted yet
	ReviewPending ReviewState = "pending"
	// ReviewDismissed indicates a review that was dismissed
	ReviewDismissed ReviewState = "dismissed"
)

// ParseReviewState converts a GitHub API review state to a ReviewState
func ParseReviewState(s string) ReviewState {
	switch s {
	case "APPROVED":
		return ReviewApproved
	case "CHANGES_REQUESTED":
		return ReviewChangesRequested
	case "PENDING":
		return ReviewPending
	case "DISMISSED":
		return ReviewDismissed
	default:
		return ReviewCommented
	}
}

// Comment represents an inline review comment attached to a file/line in the diff
type Comment struct {
	ID           int64      `json:"id"`
	Path         string     `json:"path"`
	Line         int        `json:"line,omitempty"`
	OriginalLine int        `json:"originalLine,omitempty"`
	Side         string     `json:"side,omitempty"`
	DiffHunk     string     `json:"diffHunk,omitempty"`
	Body         string     `json:"body"`
	Author       string     `json:"author"`
	AuthorRole   string     `json:"authorRole,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	ReviewID     int64      `json:"reviewId,omitempty"`
	InReplyTo    *int64     `json:"inReplyTo,omitempty"`
	CommitID     string     `json:"commitId,omitempty"`
	OnHead       bool       `json:"onHead"`
	Replies      []*Comment `json:"replies,omitempty"`
}

// Location renders the comment's position as "path:line". When the current
// diff no longer contains the line, the original line is used; when neither
// is known the line renders as "?".
func (c *Comment) Location() string {
	if c.Path == "" {
		return "general"
	}
	line := c.Line
	if line == 0 {
		line = c.OriginalLine
	}
	if line == 0 {
		return c.Path + ":?"
	}
	return fmt.Sprintf("%s:%d", c.Path, line)
}

// Review represents a single review submission, optionally bundling a body
// text and owning zero or more top-level inline comments
type Review struct {
	ID          int64              `json:"id"`
	Author      string             `json:"author"`
	State       ReviewState        `json:"state"`
	Body        string             `json:"body,omitempty"`
	SubmittedAt time.Time          `json:"submittedAt"`
	CommitID    string             `json:"commitId,omitempty"`
	OnHead      bool               `json:"onHead"`
	Comments    map[int64]*Comment `json:"comments,omitempty"`
}

// IssueComment represents a general conversation comment on the pull request,
// not tied to a file or line
type IssueComment struct {
	ID         int64     `json:"id"`
	Author     string    `json:"author"`
	AuthorRole string    `json:"authorRole,omitempty"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// EntryKind tags the source kind of a flat-list entry
type EntryKind string

const (
	// KindInline is a top-level inline review comment
	KindInline EntryKind = "inline"
	// KindInlineReply is a reply within an inline comment thread
	KindInlineReply EntryKind = "inline-reply"
	// KindReviewBody is a review's free-text body projected into the flat list
	KindReviewBody EntryKind = "review-body"
	// KindConversation is a general PR conversation comment
	KindConversation EntryKind = "conversation"
)

// Entry is the normalized projection of any feedback kind into one shape,
// used for chronological iteration and for deriving reply requests
type Entry struct {
	ID            EntryID   `json:"id"`
	Kind          EntryKind `json:"type"`
	Author        string    `json:"author"`
	Body          string    `json:"body"`
	Location      string    `json:"location"`
	CreatedAt     time.Time `json:"createdAt"`
	IsReply       bool      `json:"isReply,omitempty"`
	ReplyTo       *int64    `json:"replyTo,omitempty"`
	ParentMissing bool      `json:"parentMissing,omitempty"`
	Current       bool      `json:"current"`
	ReplyEndpoint string    `json:"replyEndpoint"`
}

// Stats holds the verification counts for an aggregation run. TotalAllComments
// must always equal the flat list length.
type Stats struct {
	TotalReviews     int `json:"totalReviews"`
	ReviewsWithBody  int `json:"reviewsWithBody"`
	TopLevelComments int `json:"topLevelComments"`
	Replies          int `json:"replies"`
	IssueComments    int `json:"issueComments"`
	OrphanedComments int `json:"orphanedComments"`
	TotalAllComments int `json:"totalAllComments"`
}

// PullRequest is the summary of the PR the feedback belongs to
type PullRequest struct {
	Number  int    `json:"number"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	State   string `json:"state"`
	HeadSHA string `json:"headSha"`
	URL     string `json:"url"`
}

// Endpoint templates for answering feedback, emitted in meta so downstream
// tooling can construct raw API calls.
const (
	// ThreadReplyEndpoint answers an inline comment thread, keyed by the
	// thread root's comment ID
	ThreadReplyEndpoint = "POST /repos/{repo}/pulls/{pr}/comments/{comment_id}/replies"
	// ConversationEndpoint opens a new top-level conversation comment
	ConversationEndpoint = "POST /repos/{repo}/issues/{pr}/comments"
)

// Endpoints lists the write-endpoint templates for answering feedback
type Endpoints struct {
	ThreadReply  string `json:"threadReply"`
	Conversation string `json:"conversation"`
}

// Meta describes the aggregation run itself
type Meta struct {
	Repo      string    `json:"repo"`
	PRNumber  int       `json:"prNumber"`
	FetchedAt time.Time `json:"fetchedAt"`
	Endpoints Endpoints `json:"endpoints"`
}

// Report is the aggregated feedback document. It is built once per run and
// never mutated after Assemble returns it.
type Report struct {
	Meta             Meta                    `json:"meta"`
	PR               PullRequest             `json:"pr"`
	Reviews          map[int64]*Review       `json:"reviews"`
	IssueComments    map[int64]*IssueComment `json:"issueComments"`
	OrphanedComments map[int64]*Comment      `json:"orphanedComments"`
	AllComments      []Entry                 `json:"allComments"`
	Stats            Stats                   `json:"stats"`
}
