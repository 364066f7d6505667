package feedback

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryID_String(t *testing.T) {
	assert.Equal(t, "12345", CommentEntryID(12345).String())
	assert.Equal(t, "review-body-9", ReviewBodyEntryID(9).String())
}

func TestEntryID_NamespacesNeverCollide(t *testing.T) {
	// A review and a comment can share the same raw number.
	comment := CommentEntryID(9)
	reviewBody := ReviewBodyEntryID(9)

	assert.NotEqual(t, comment, reviewBody)
	assert.NotEqual(t, comment.String(), reviewBody.String())
	assert.Equal(t, int64(9), comment.Native())
	assert.Equal(t, int64(9), reviewBody.Native())
	assert.False(t, comment.IsReviewBody())
	assert.True(t, reviewBody.IsReviewBody())
}

func TestParseEntryID(t *testing.T) {
	tests := []struct {
		in      string
		want    EntryID
		wantErr bool
	}{
		{"12345", CommentEntryID(12345), false},
		{" 12345 ", CommentEntryID(12345), false},
		{"review-body-9", ReviewBodyEntryID(9), false},
		{"review-body-", EntryID{}, true},
		{"review-body-x", EntryID{}, true},
		{"abc", EntryID{}, true},
		{"", EntryID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseEntryID(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEntryID_JSONRoundTrip(t *testing.T) {
	native, err := json.Marshal(CommentEntryID(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(native), "native identities marshal as numbers")

	synthetic, err := json.Marshal(ReviewBodyEntryID(9))
	require.NoError(t, err)
	assert.Equal(t, `"review-body-9"`, string(synthetic))

	var id EntryID
	require.NoError(t, json.Unmarshal([]byte("42"), &id))
	assert.Equal(t, CommentEntryID(42), id)

	require.NoError(t, json.Unmarshal([]byte(`"review-body-9"`), &id))
	assert.Equal(t, ReviewBodyEntryID(9), id)
}
