package reply

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// inputPreviewLimit caps how much of an unparseable input document is echoed
// back in the error.
const inputPreviewLimit = 256

// Request is one reply to post. ID and Body are required; RawKind may be
// empty, in which case the request routes as KindLegacy.
type Request struct {
	ID      string `json:"id"`
	Body    string `json:"body"`
	RawKind string `json:"type,omitempty"`
	Kind    Kind   `json:"-"`
}

// rawRequest tolerates the identifier arriving as either a JSON string or a
// JSON number.
type rawRequest struct {
	ID   json.RawMessage `json:"id"`
	Body string          `json:"body"`
	Type string          `json:"type"`
}

// ParseRequests reads a JSON array of reply requests from r. Anything other
// than a well-formed array is a fatal input-shape error reported before any
// dispatch happens.
func ParseRequests(r io.Reader) ([]Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read reply input: %w", err)
	}

	var raw []rawRequest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("reply input must be a JSON array of {id, body, type} objects: %w (input: %s)", err, preview(data))
	}

	requests := make([]Request, 0, len(raw))
	for _, rr := range raw {
		req := Request{
			ID:      decodeID(rr.ID),
			Body:    rr.Body,
			RawKind: rr.Type,
			Kind:    ParseKind(rr.Type),
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// decodeID normalizes the flexible id field to a string. A missing or
// malformed id yields "", which validation rejects per-item later.
func decodeID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func preview(data []byte) string {
	if len(data) > inputPreviewLimit {
		return strconv.Quote(string(data[:inputPreviewLimit]) + "...")
	}
	return strconv.Quote(string(data))
}
