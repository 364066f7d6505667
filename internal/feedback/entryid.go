package feedback

import (
	"fmt"
	"strconv"
	"strings"
)

// ReviewBodyPrefix marks synthesized identities for review-body entries.
// Review bodies have no comment ID of their own, so the flat list keys them
// by the owning review's ID under this reserved prefix.
const ReviewBodyPrefix = "review-body-"

// EntryID identifies a flat-list entry. It is either a native numeric comment
// ID assigned by GitHub or a synthesized review-body identity derived from a
// review's numeric ID. Keeping the two namespaces in a tagged type means a
// synthesized identity can never collide with a genuine comment ID.
type EntryID struct {
	native     int64
	reviewBody bool
}

// CommentEntryID returns the EntryID for a native comment identity
func CommentEntryID(id int64) EntryID {
	return EntryID{native: id}
}

// ReviewBodyEntryID returns the synthesized EntryID for a review's body text
func ReviewBodyEntryID(reviewID int64) EntryID {
	return EntryID{native: reviewID, reviewBody: true}
}

// IsReviewBody reports whether the identity is a synthesized review-body key
func (id EntryID) IsReviewBody() bool {
	return id.reviewBody
}

// Native returns the underlying numeric identity: the comment ID for native
// entries, the review ID for review-body entries
func (id EntryID) Native() int64 {
	return id.native
}

func (id EntryID) String() string {
	if id.reviewBody {
		return ReviewBodyPrefix + strconv.FormatInt(id.native, 10)
	}
	return strconv.FormatInt(id.native, 10)
}

// ParseEntryID parses both identity forms: a plain number ("12345") or a
// synthesized review-body key ("review-body-9").
func ParseEntryID(s string) (EntryID, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, ReviewBodyPrefix); ok {
		n, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return EntryID{}, fmt.Errorf("invalid review-body identity %q: %w", s, err)
		}
		return ReviewBodyEntryID(n), nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return EntryID{}, fmt.Errorf("invalid comment identity %q: %w", s, err)
	}
	return CommentEntryID(n), nil
}

// MarshalJSON emits native identities as JSON numbers and synthesized
// review-body identities as prefixed strings, matching the identifier shapes
// the reply command accepts back.
func (id EntryID) MarshalJSON() ([]byte, error) {
	if id.reviewBody {
		return []byte(strconv.Quote(id.String())), nil
	}
	return []byte(strconv.FormatInt(id.native, 10)), nil
}

// UnmarshalJSON accepts both a JSON number and either string form
func (id *EntryID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseEntryID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
