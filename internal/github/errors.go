package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// payloadPreviewLimit caps how much of a response body is retained for
// decode-failure diagnostics.
const payloadPreviewLimit = 512

// FetchError reports a failed remote read. Any FetchError aborts the whole
// aggregation: the merge is only correct with all sources present.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s failed: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response that was not valid JSON. Payload holds a
// truncated copy of the offending body.
type DecodeError struct {
	Source  string
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Payload == "" {
		return fmt.Sprintf("decoding %s response failed: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("decoding %s response failed: %v (payload: %s)", e.Source, e.Err, e.Payload)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// wrapFetch classifies a failed API call into the error taxonomy: malformed
// JSON becomes a DecodeError carrying the recorded payload snippet, anything
// else (network, auth, 4xx/5xx) becomes a source-tagged FetchError.
func (c *Client) wrapFetch(source string, err error) error {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &DecodeError{Source: source, Payload: c.recorder.Snippet(), Err: err}
	}
	return &FetchError{Source: source, Err: err}
}

// payloadRecorder is a RoundTripper that tees the first payloadPreviewLimit
// bytes of each response body into a buffer. When go-github later fails to
// decode that body, the snippet is still available for the DecodeError.
// Requests are strictly sequential in this tool, so one slot suffices.
type payloadRecorder struct {
	base http.RoundTripper
	last cappedBuffer
}

func (t *payloadRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}

	t.last.Reset()
	resp.Body = &teeCloser{Reader: io.TeeReader(resp.Body, &t.last), closer: resp.Body}
	return resp, nil
}

// Snippet returns the truncated body of the most recent response
func (t *payloadRecorder) Snippet() string {
	return t.last.String()
}

type teeCloser struct {
	io.Reader
	closer io.Closer
}

func (t *teeCloser) Close() error {
	return t.closer.Close()
}

// cappedBuffer retains at most payloadPreviewLimit bytes and notes truncation
type cappedBuffer struct {
	buf       []byte
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := payloadPreviewLimit - len(b.buf)
	if room > 0 {
		if len(p) < room {
			room = len(p)
		}
		b.buf = append(b.buf, p[:room]...)
	}
	if len(p) > room {
		b.truncated = true
	}
	return len(p), nil
}

func (b *cappedBuffer) Reset() {
	b.buf = b.buf[:0]
	b.truncated = false
}

func (b *cappedBuffer) String() string {
	if b.truncated {
		return string(b.buf) + "..."
	}
	return string(b.buf)
}
