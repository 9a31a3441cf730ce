package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultURL is the portfolio endpoint of the aggregation service.
const DefaultURL = "https://stock-market-dashboard-backend-meco.onrender.com/portfolio"

// ErrFetch is the single kind of error reported by a Fetcher: network failure,
// non-success status and malformed body alike.
var ErrFetch = errors.New("fetch failure")

// Fetcher retrieves the current Snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// FetchFunc adapts a function to the Fetcher interface.
type FetchFunc func(ctx context.Context) (*Snapshot, error)

func (f FetchFunc) Fetch(ctx context.Context) (*Snapshot, error) { return f(ctx) }

// FetchError describes a failed fetch. It matches ErrFetch with errors.Is.
type FetchError struct {
	URL       string
	RequestID string
	Status    int // HTTP status, 0 when no response was received
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %v", ErrFetch, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// HTTPFetcher fetches the Snapshot with a plain GET, no parameters and no authentication.
type HTTPFetcher struct {
	// URL of the snapshot endpoint.
	URL string
	// Client used for requests, http.DefaultClient when nil.
	// No timeout is set by the fetcher itself.
	Client *http.Client
	// Select is an optional JSONPath locating the snapshot in the response body,
	// e.g. "$.data" for services that wrap their payload. Empty means the body is the snapshot.
	Select string
}

// NewHTTPFetcher returns a fetcher for url using http.DefaultClient.
func NewHTTPFetcher(url string) *HTTPFetcher {
	return &HTTPFetcher{URL: url}
}

// Fetch implements Fetcher. Any error is a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context) (*Snapshot, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	body, id, status, err := wget(ctx, client, f.URL)
	if err != nil {
		return nil, &FetchError{URL: f.URL, RequestID: id, Status: status, Err: err}
	}
	if f.Select != "" {
		body, err = selectJSON(body, f.Select)
		if err != nil {
			return nil, &FetchError{URL: f.URL, RequestID: id, Status: status, Err: err}
		}
	}
	s, err := DecodeSnapshot(bytes.NewReader(body))
	if err != nil {
		return nil, &FetchError{URL: f.URL, RequestID: id, Status: status, Err: err}
	}
	return s, nil
}

// selectJSON extracts the value at path from a JSON document and returns it re-encoded.
func selectJSON(body []byte, path string) ([]byte, error) {
	var jobj any
	// numbers are kept as written, so that decimals survive the round trip.
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot select %q: %w", ErrMalformed, path, err)
	}
	// jsonpath returns a list for wildcard paths: keep the first match if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		if _, isObject := jlist[0].(map[string]any); isObject {
			jval = jlist[0]
		}
	}
	return json.Marshal(jval)
}
