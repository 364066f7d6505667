// Package github wraps the GitHub API surface review-triage needs: the four
// read operations feeding the aggregator and the two write operations the
// reply dispatcher routes to.
package github

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/google/go-github/v57/github"
	"github.com/gregjones/httpcache"
	"golang.org/x/oauth2"
)

// Client wraps the GitHub API client
type Client struct {
	client   *github.Client
	recorder *payloadRecorder
	org      string
	repo     string
}

// NewClient creates a new GitHub client with token authentication. The
// transport stack, outermost first: oauth2 token injection, secondary
// rate-limit middleware (sleeps on 429), ETag-based response caching, and a
// payload recorder that keeps a truncated copy of the last response body for
// decode-failure diagnostics.
func NewClient(ctx context.Context, token string) *Client {
	recorder := &payloadRecorder{base: httpcache.NewMemoryCacheTransport()}
	rateLimited := github_ratelimit.NewClient(recorder)

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, rateLimited), ts)

	return &Client{
		client:   github.NewClient(tc),
		recorder: recorder,
	}
}

// NewClientWithBaseURL creates a Client against a custom API base URL using
// the given http.Client. Intended for tests with an httptest server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL, org, repo string) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	recorder := &payloadRecorder{base: httpClient.Transport}
	recorded := *httpClient
	recorded.Transport = recorder

	client := github.NewClient(&recorded)
	client.BaseURL = u

	return &Client{
		client:   client,
		recorder: recorder,
		org:      org,
		repo:     repo,
	}, nil
}

// WithRepository sets the repository context for all subsequent calls
func (c *Client) WithRepository(org, repo string) *Client {
	c.org = org
	c.repo = repo
	return c
}

// Slug returns the "org/repo" form of the client's repository context
func (c *Client) Slug() string {
	return c.org + "/" + c.repo
}

// paginatedList exhausts a paginated list endpoint, accumulating all pages
func paginatedList[T any](fetch func(page int) ([]T, *github.Response, error)) ([]T, error) {
	var all []T
	page := 0

	for {
		items, resp, err := fetch(page)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)

		if resp == nil || resp.NextPage == 0 {
			break
		}
		page = resp.NextPage
	}

	return all, nil
}
