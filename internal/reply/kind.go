// Package reply routes a list of reply requests to the correct GitHub write
// endpoints and executes them strictly in order, collecting one outcome per
// request.
package reply

// Kind is the closed set of reply request kinds. The zero value KindLegacy
// covers unknown or missing type values: historically those were posted as
// inline thread replies, and that default stays a named variant rather than
// an implicit fallthrough.
type Kind int

const (
	// KindLegacy is an unknown or absent kind; routes like KindInline
	KindLegacy Kind = iota
	// KindInline answers a top-level inline comment
	KindInline
	// KindInlineReply answers within an existing inline thread
	KindInlineReply
	// KindConversation posts a new general conversation comment
	KindConversation
	// KindReviewBody answers a review's body text; since review bodies have
	// no comment thread, this posts a conversation comment
	KindReviewBody
)

// ParseKind converts the type field of a reply request to a Kind
func ParseKind(s string) Kind {
	switch s {
	case "inline":
		return KindInline
	case "inline-reply":
		return KindInlineReply
	case "conversation":
		return KindConversation
	case "review-body":
		return KindReviewBody
	default:
		return KindLegacy
	}
}

func (k Kind) String() string {
	switch k {
	case KindInline:
		return "inline"
	case KindInlineReply:
		return "inline-reply"
	case KindConversation:
		return "conversation"
	case KindReviewBody:
		return "review-body"
	case KindLegacy:
		return "legacy"
	default:
		return "legacy"
	}
}

// Target is the write endpoint a request resolves to
type Target int

const (
	// TargetThreadReply posts into an inline comment thread keyed by the
	// thread root's comment ID
	TargetThreadReply Target = iota
	// TargetConversation posts a new top-level conversation comment
	TargetConversation
)

// Target resolves the kind to its write endpoint. The switch is exhaustive
// over the Kind variants.
func (k Kind) Target() Target {
	switch k {
	case KindInline, KindInlineReply, KindLegacy:
		return TargetThreadReply
	case KindConversation, KindReviewBody:
		return TargetConversation
	default:
		return TargetThreadReply
	}
}
