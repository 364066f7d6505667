package feedback

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Assemble merges the three raw feedback collections for one pull request
// into a single Report: per-review comment trees, the orphan set, the flat
// chronological list, and verification statistics.
//
// The input slices must be in original fetch order; that order breaks ties
// in the flat list's timestamp sort. Assemble never mutates its inputs.
func Assemble(repo string, pr PullRequest, reviews []Review, comments []Comment, issueComments []IssueComment) (*Report, error) {
	b := newBuilder(repo, pr)
	b.indexComments(comments)
	b.threadReplies()
	b.addReviews(reviews)
	b.placeTopLevelComments()
	b.addIssueComments(issueComments)
	b.sortFlat()
	return b.finalize()
}

// builder accumulates the model during a single Assemble call. It is never
// shared; the finalized Report is read-only from the caller's perspective.
type builder struct {
	repo string
	pr   PullRequest

	byID     map[int64]*Comment
	ordered  []*Comment // fetch order
	topLevel []*Comment // fetch order, includes dangling-parent comments
	dangling map[int64]bool
	rootOf   map[int64]int64 // reply comment ID -> thread root comment ID

	reviews     map[int64]*Review
	reviewOrder []*Review
	orphans     map[int64]*Comment
	issue       map[int64]*IssueComment

	flat  []Entry
	stats Stats
}

func newBuilder(repo string, pr PullRequest) *builder {
	return &builder{
		repo:     repo,
		pr:       pr,
		byID:     make(map[int64]*Comment),
		dangling: make(map[int64]bool),
		rootOf:   make(map[int64]int64),
		reviews:  make(map[int64]*Review),
		orphans:  make(map[int64]*Comment),
		issue:    make(map[int64]*IssueComment),
	}
}

// indexComments copies every inline comment into the identity index,
// preserving fetch order. Classification into top-level vs reply happens in
// threadReplies: replies may be fetched before their parents, so threading
// needs the complete index first.
func (b *builder) indexComments(comments []Comment) {
	for i := range comments {
		c := comments[i] // copy; the builder owns its own tree nodes
		c.Replies = nil
		b.byID[c.ID] = &c
		b.ordered = append(b.ordered, &c)
	}
}

// threadReplies attaches every reply to its thread root. Replies-to-replies
// collapse onto the original top-level comment: both the nesting and the
// reply-routing identity use the root. A reply whose parent is absent from
// the index is kept as a top-level comment with a dangling-parent note
// rather than dropped.
func (b *builder) threadReplies() {
	for _, c := range b.ordered {
		if c.InReplyTo == nil {
			b.topLevel = append(b.topLevel, c)
			continue
		}

		root, ok := b.threadRoot(c)
		if !ok {
			slog.Warn("Comment replies to an unknown parent; keeping as top-level", "comment", c.ID, "parent", *c.InReplyTo)
			b.dangling[c.ID] = true
			b.topLevel = append(b.topLevel, c)
			continue
		}

		root.Replies = append(root.Replies, c)
		b.rootOf[c.ID] = root.ID
		b.stats.Replies++
	}
}

// threadRoot walks the parent chain up to the top-level ancestor. The walk is
// cycle-guarded; a chain that dead-ends on a missing ancestor resolves to the
// last comment found (which itself surfaces as dangling top-level).
func (b *builder) threadRoot(c *Comment) (*Comment, bool) {
	parent, ok := b.byID[*c.InReplyTo]
	if !ok {
		return nil, false
	}

	seen := map[int64]bool{c.ID: true}
	for parent.InReplyTo != nil && !seen[parent.ID] {
		seen[parent.ID] = true
		next, ok := b.byID[*parent.InReplyTo]
		if !ok {
			break
		}
		parent = next
	}
	return parent, true
}

// addReviews builds the review map and projects each non-empty review body
// into the flat list under its synthesized identity.
func (b *builder) addReviews(reviews []Review) {
	for i := range reviews {
		r := reviews[i]
		r.Comments = nil
		b.reviews[r.ID] = &r
		b.reviewOrder = append(b.reviewOrder, &r)
		b.stats.TotalReviews++

		if strings.TrimSpace(r.Body) == "" {
			continue
		}
		b.stats.ReviewsWithBody++
		b.flat = append(b.flat, Entry{
			ID:            ReviewBodyEntryID(r.ID),
			Kind:          KindReviewBody,
			Author:        r.Author,
			Body:          r.Body,
			Location:      "general",
			CreatedAt:     r.SubmittedAt,
			Current:       r.OnHead,
			ReplyEndpoint: ConversationEndpoint,
		})
	}
}

// placeTopLevelComments nests each top-level comment under its owning review
// or the orphan set, and appends flat entries for the comment and its replies.
func (b *builder) placeTopLevelComments() {
	for _, c := range b.topLevel {
		if r, ok := b.reviews[c.ReviewID]; ok {
			if r.Comments == nil {
				r.Comments = make(map[int64]*Comment)
			}
			r.Comments[c.ID] = c
		} else {
			b.orphans[c.ID] = c
			b.stats.OrphanedComments++
		}
		b.stats.TopLevelComments++

		entry := Entry{
			ID:            CommentEntryID(c.ID),
			Kind:          KindInline,
			Author:        c.Author,
			Body:          c.Body,
			Location:      c.Location(),
			CreatedAt:     c.CreatedAt,
			Current:       c.OnHead,
			ReplyEndpoint: ThreadReplyEndpoint,
		}
		if b.dangling[c.ID] {
			entry.Kind = KindInlineReply
			entry.IsReply = true
			entry.ReplyTo = c.InReplyTo
			entry.ParentMissing = true
		}
		b.flat = append(b.flat, entry)

		for _, reply := range c.Replies {
			rootID := c.ID
			b.flat = append(b.flat, Entry{
				ID:            CommentEntryID(reply.ID),
				Kind:          KindInlineReply,
				Author:        reply.Author,
				Body:          reply.Body,
				Location:      reply.Location(),
				CreatedAt:     reply.CreatedAt,
				IsReply:       true,
				ReplyTo:       &rootID,
				Current:       reply.OnHead,
				ReplyEndpoint: ThreadReplyEndpoint,
			})
		}
	}
}

func (b *builder) addIssueComments(issueComments []IssueComment) {
	for i := range issueComments {
		ic := issueComments[i]
		b.issue[ic.ID] = &ic
		b.stats.IssueComments++
		b.flat = append(b.flat, Entry{
			ID:            CommentEntryID(ic.ID),
			Kind:          KindConversation,
			Author:        ic.Author,
			Body:          ic.Body,
			Location:      "general",
			CreatedAt:     ic.CreatedAt,
			Current:       true,
			ReplyEndpoint: ConversationEndpoint,
		})
	}
}

// sortFlat orders the flat list ascending by creation time. The sort is
// stable: equal timestamps keep their original append order, which follows
// fetch order within each source.
func (b *builder) sortFlat() {
	slices.SortStableFunc(b.flat, func(a, c Entry) int {
		return a.CreatedAt.Compare(c.CreatedAt)
	})
}

// finalize computes the grand total and checks it against the flat list
// length. The two are derived independently, so a mismatch means the
// accounting logic lost or duplicated an entry.
func (b *builder) finalize() (*Report, error) {
	b.stats.TotalAllComments = b.stats.ReviewsWithBody +
		b.stats.TopLevelComments +
		b.stats.Replies +
		b.stats.IssueComments

	if b.stats.TotalAllComments != len(b.flat) {
		return nil, fmt.Errorf("comment accounting mismatch: counted %d entries but flat list has %d", b.stats.TotalAllComments, len(b.flat))
	}

	if b.flat == nil {
		b.flat = []Entry{} // an empty PR discussion still emits a list, not null
	}

	return &Report{
		Meta: Meta{
			Repo:      b.repo,
			PRNumber:  b.pr.Number,
			FetchedAt: time.Now().UTC(),
			Endpoints: Endpoints{
				ThreadReply:  ThreadReplyEndpoint,
				Conversation: ConversationEndpoint,
			},
		},
		PR:               b.pr,
		Reviews:          b.reviews,
		IssueComments:    b.issue,
		OrphanedComments: b.orphans,
		AllComments:      b.flat,
		Stats:            b.stats,
	}, nil
}
