package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alan/review-triage/internal/feedback"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClientWithBaseURL(srv.Client(), srv.URL+"/", "octo", "demo")
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	client := NewClient(context.Background(), "test-token")
	require.NotNil(t, client)
	assert.Equal(t, "/", client.Slug())

	client.WithRepository("octo", "demo")
	assert.Equal(t, "octo/demo", client.Slug())
}

func TestGetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"number": 7,
			"title": "Add retries",
			"state": "open",
			"user": {"login": "alice"},
			"head": {"sha": "abc123"},
			"html_url": "https://github.com/octo/demo/pull/7"
		}`)
	})

	client := newTestClient(t, mux)
	pr, err := client.GetPullRequest(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, &feedback.PullRequest{
		Number:  7,
		Title:   "Add retries",
		Author:  "alice",
		State:   "open",
		HeadSHA: "abc123",
		URL:     "https://github.com/octo/demo/pull/7",
	}, pr)
}

func TestListReviews(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7/reviews", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 1, "user": {"login": "alice"}, "state": "APPROVED", "body": "LGTM", "commit_id": "abc123"},
			{"id": 2, "user": {"login": "bob"}, "state": "CHANGES_REQUESTED", "body": "", "commit_id": "old456"}
		]`)
	})

	client := newTestClient(t, mux)
	reviews, err := client.ListReviews(context.Background(), 7, "abc123")
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	assert.Equal(t, feedback.ReviewApproved, reviews[0].State)
	assert.True(t, reviews[0].OnHead)
	assert.Equal(t, "LGTM", reviews[0].Body)

	assert.Equal(t, feedback.ReviewChangesRequested, reviews[1].State)
	assert.False(t, reviews[1].OnHead, "review against a stale commit is not current")
}

func TestListReviewComments_Pagination(t *testing.T) {
	mux := http.NewServeMux()
	var srvURL string
	mux.HandleFunc("/repos/octo/demo/pulls/7/comments", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[
				{"id": 101, "body": "reply", "user": {"login": "bob"}, "in_reply_to_id": 100, "pull_request_review_id": 1}
			]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/demo/pulls/7/comments?page=2>; rel="next"`, srvURL))
		fmt.Fprint(w, `[
			{"id": 100, "body": "root", "path": "main.go", "line": 10, "user": {"login": "alice"}, "pull_request_review_id": 1, "commit_id": "abc123"}
		]`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	srvURL = srv.URL

	client, err := NewClientWithBaseURL(srv.Client(), srv.URL+"/", "octo", "demo")
	require.NoError(t, err)

	comments, err := client.ListReviewComments(context.Background(), 7, "abc123")
	require.NoError(t, err)
	require.Len(t, comments, 2, "both pages collected")

	assert.Equal(t, int64(100), comments[0].ID)
	assert.Nil(t, comments[0].InReplyTo)
	assert.True(t, comments[0].OnHead)

	assert.Equal(t, int64(101), comments[1].ID)
	require.NotNil(t, comments[1].InReplyTo)
	assert.Equal(t, int64(100), *comments[1].InReplyTo)
	assert.False(t, comments[1].OnHead)
}

func TestListIssueComments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"id": 300, "body": "Overall looks good", "user": {"login": "carol"}, "author_association": "MEMBER"}
		]`)
	})

	client := newTestClient(t, mux)
	comments, err := client.ListIssueComments(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	assert.Equal(t, int64(300), comments[0].ID)
	assert.Equal(t, "carol", comments[0].Author)
	assert.Equal(t, "MEMBER", comments[0].AuthorRole)
}

func TestGetPullRequest_FetchError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message": "Server Error"}`, http.StatusInternalServerError)
	})

	client := newTestClient(t, mux)
	_, err := client.GetPullRequest(context.Background(), 7)
	require.Error(t, err)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "pull request", fetchErr.Source)
	assert.Contains(t, err.Error(), "fetching pull request failed")
}

func TestGetPullRequest_DecodeErrorCarriesPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html>not json</html>`)
	})

	client := newTestClient(t, mux)
	_, err := client.GetPullRequest(context.Background(), 7)
	require.Error(t, err)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "pull request", decodeErr.Source)
	assert.Contains(t, decodeErr.Payload, "<html>not json</html>")
	assert.Contains(t, err.Error(), "decoding pull request response failed")
}

func TestCreateReviewCommentReply(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7/comments/100/replies", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Fixed in latest push", payload.Body)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 500, "html_url": "https://github.com/octo/demo/pull/7#discussion_r500"}`)
	})

	client := newTestClient(t, mux)
	url, err := client.CreateReviewCommentReply(context.Background(), 7, 100, "Fixed in latest push")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/demo/pull/7#discussion_r500", url)
}

func TestCreateConversationComment(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/issues/7/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		var payload struct {
			Body string `json:"body"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Thanks, addressed everything", payload.Body)

		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 600, "html_url": "https://github.com/octo/demo/pull/7#issuecomment-600"}`)
	})

	client := newTestClient(t, mux)
	url, err := client.CreateConversationComment(context.Background(), 7, "Thanks, addressed everything")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/octo/demo/pull/7#issuecomment-600", url)
}

func TestCreateReviewCommentReply_Error(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/7/comments/100/replies", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message": "Not Found"}`)
	})

	client := newTestClient(t, mux)
	_, err := client.CreateReviewCommentReply(context.Background(), 7, 100, "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reply to comment 100 on PR #7")
}

func TestPaginatedList_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("network down")
	_, err := paginatedList(func(page int) ([]int, *github.Response, error) {
		return nil, nil, wantErr
	})
	require.ErrorIs(t, err, wantErr)
}

func TestCappedBuffer(t *testing.T) {
	var buf cappedBuffer

	n, err := buf.Write([]byte("short"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "short", buf.String())

	buf.Reset()
	big := make([]byte, payloadPreviewLimit+100)
	for i := range big {
		big[i] = 'a'
	}
	_, err = buf.Write(big)
	require.NoError(t, err)

	got := buf.String()
	assert.Len(t, got, payloadPreviewLimit+3)
	assert.True(t, len(got) > 3 && got[len(got)-3:] == "...")
}

func TestPayloadRecorder_SnippetTracksLastResponse(t *testing.T) {
	bodies := []string{`{"first": true}`, `{"second": true}`}
	i := 0
	recorder := &payloadRecorder{base: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		body := bodies[i]
		i++
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	})}

	for range bodies {
		resp, err := recorder.RoundTrip(httptest.NewRequest(http.MethodGet, "http://example.test/", nil))
		require.NoError(t, err)
		_, err = io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}

	assert.Equal(t, `{"second": true}`, recorder.Snippet())
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
