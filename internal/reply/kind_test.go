package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"inline", KindInline},
		{"inline-reply", KindInlineReply},
		{"conversation", KindConversation},
		{"review-body", KindReviewBody},
		{"", KindLegacy},
		{"something-else", KindLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.in))
		})
	}
}

func TestKind_Target(t *testing.T) {
	tests := []struct {
		kind Kind
		want Target
	}{
		{KindInline, TargetThreadReply},
		{KindInlineReply, TargetThreadReply},
		{KindLegacy, TargetThreadReply},
		{KindConversation, TargetConversation},
		{KindReviewBody, TargetConversation},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.Target())
		})
	}
}

func TestKind_String(t *testing.T) {
	for _, kind := range []Kind{KindLegacy, KindInline, KindInlineReply, KindConversation, KindReviewBody} {
		assert.NotEmpty(t, kind.String())
	}
	assert.Equal(t, "legacy", KindLegacy.String())
}
