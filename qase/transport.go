package qase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pithecene-io/qasereport/iox"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// maxErrorBody caps the body excerpt kept in a StatusError.
const maxErrorBody = 256

// HTTPTransport is the net/http Transport.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given per-request timeout.
// A non-positive timeout uses DefaultTimeout.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPTransport{client: &http.Client{Timeout: timeout}}
}

// Post sends body to url. Non-2xx responses that still carry a JSON body are
// returned as-is so the client can read the service's errorMessage.
func (t *HTTPTransport) Post(ctx context.Context, url string, body []byte, headers http.Header) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header = headers.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer iox.DiscardClose(resp.Body)

	data, err := iox.ReadLimited(resp.Body, maxResponseBytes)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if json.Valid(data) && len(bytes.TrimSpace(data)) > 0 {
			return data, nil
		}
		excerpt := string(data)
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: excerpt}
	}
	return data, nil
}

// Close releases idle connections.
func (t *HTTPTransport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}

// Verify HTTPTransport implements Transport.
var _ Transport = (*HTTPTransport)(nil)
