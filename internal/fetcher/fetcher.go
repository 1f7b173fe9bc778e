// Package fetcher performs single-shot HTTP retrieval of distribution
// archives. There is no retry policy here; a fetch either succeeds or
// fails, and the caller decides what to do about it.
package fetcher

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/open-edge-platform/pip-bootstrap/internal/utils/network"
)

// NetworkError reports a failed retrieval: connection failure, timeout, or
// a non-success HTTP status.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Fetcher retrieves the full contents of a URL in one blocking call.
type Fetcher struct {
	client *http.Client
}

// New returns a Fetcher using the shared TLS policy. A zero timeout means
// no client-side deadline.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{client: network.NewSecureHTTPClient(timeout)}
}

// NewWithClient returns a Fetcher on a caller-supplied client. Tests use
// this to point the fetcher at an httptest server.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch performs a single GET and returns the whole response body. Any
// failure, including a non-2xx status, is reported as a *NetworkError
// naming the URL.
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	resp, err := f.client.Get(url)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("bad status: %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}
