package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// contains http utils to deal with the aggregation service

// httpGetter is the part of *http.Client used to query the service.
type httpGetter interface {
	Do(req *http.Request) (*http.Response, error)
}

// wget performs an HTTP GET on addr and returns the body of a 2xx response.
// Every request carries a fresh X-Request-ID, also returned for diagnostics.
func wget(ctx context.Context, client httpGetter, addr string) (body []byte, requestID string, status int, err error) {
	requestID = uuid.NewString()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, requestID, 0, fmt.Errorf("cannot create http request %q: %w", addr, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := client.Do(req)
	if err != nil {
		return nil, requestID, 0, fmt.Errorf("cannot http GET %q: %w", addr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little to let the connection be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, requestID, resp.StatusCode, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	// reading in a buffer to be able to decode it in several ways (see HTTPFetcher.Select)
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, requestID, resp.StatusCode, fmt.Errorf("cannot read receiving http body: %w", err)
	}
	return buf.Bytes(), requestID, resp.StatusCode, nil
}
