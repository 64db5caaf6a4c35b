// Package qase implements the three run operations of the Qase TestOps API
// over an injected Transport.
//
// Each operation is a single synchronous POST. Responses share the envelope
// {status, result: {id}, errorMessage}; a false status is a RemoteAPIError
// and a body that does not fit the envelope is a RemoteProtocolError.
package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pithecene-io/qasereport/config"
)

// Operation names used in errors and logs.
const (
	OpStartRun      = "start_run"
	OpSubmitResults = "submit_results"
	OpCompleteRun   = "complete_run"
)

// Header names. Go canonicalizes them on the wire; the service matches
// case-insensitively.
const (
	HeaderAccept      = "accept"
	HeaderContentType = "content-type"
	HeaderToken       = "Token"

	contentTypeJSON = "application/json"
)

// Transport sends a POST and returns the response body.
type Transport interface {
	Post(ctx context.Context, url string, body []byte, headers http.Header) ([]byte, error)
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, url string, body []byte, headers http.Header) ([]byte, error)

// Post calls f.
func (f TransportFunc) Post(ctx context.Context, url string, body []byte, headers http.Header) ([]byte, error) {
	return f(ctx, url, body, headers)
}

// Client performs run operations for one project.
type Client struct {
	transport Transport
}

// NewClient creates a client over the given transport.
func NewClient(t Transport) *Client {
	return &Client{transport: t}
}

// startRunRequest is the body of the create-run call.
type startRunRequest struct {
	Title           string `json:"title"`
	IncludeAllCases bool   `json:"include_all_cases"`
	Description     string `json:"description,omitempty"`
	PlanID          int64  `json:"plan_id,omitempty"`
}

// envelope is the common response shape.
type envelope struct {
	Status       *bool  `json:"status"`
	ErrorMessage string `json:"errorMessage"`
	Result       *struct {
		ID *int64 `json:"id"`
	} `json:"result"`
}

// StartRun creates a run and returns its id.
func (c *Client) StartRun(ctx context.Context, cfg config.Config) (int64, error) {
	body, err := json.Marshal(startRunRequest{
		Title:           cfg.RunTitle,
		IncludeAllCases: true,
		Description:     cfg.RunDescription,
		PlanID:          cfg.PlanID,
	})
	if err != nil {
		return 0, fmt.Errorf("qase %s: marshal request: %w", OpStartRun, err)
	}

	env, err := c.post(ctx, OpStartRun, RunURL(cfg.Host, cfg.Project), body, jsonHeaders(cfg.Token))
	if err != nil {
		return 0, err
	}

	if env.Status != nil && !*env.Status {
		return 0, newAPIError(OpStartRun, env.ErrorMessage)
	}
	if env.Result != nil && env.Result.ID != nil {
		return *env.Result.ID, nil
	}
	if env.Status == nil {
		return 0, &RemoteProtocolError{Op: OpStartRun, Reason: "unknown error: response has neither status nor result.id"}
	}
	return 0, &RemoteProtocolError{Op: OpStartRun, Reason: "response is missing result.id"}
}

// SubmitResults uploads a serialized payload to the run in one bulk call.
func (c *Client) SubmitResults(ctx context.Context, cfg config.Config, runID int64, payload []byte) error {
	env, err := c.post(ctx, OpSubmitResults, BulkResultsURL(cfg.Host, cfg.Project, runID), payload, jsonHeaders(cfg.Token))
	if err != nil {
		return err
	}
	return checkStatus(OpSubmitResults, env)
}

// CompleteRun closes the run.
func (c *Client) CompleteRun(ctx context.Context, cfg config.Config, runID int64) error {
	headers := http.Header{}
	headers.Set(HeaderAccept, contentTypeJSON)
	headers.Set(HeaderToken, cfg.Token)

	env, err := c.post(ctx, OpCompleteRun, CompleteRunURL(cfg.Host, cfg.Project, runID), nil, headers)
	if err != nil {
		return err
	}
	return checkStatus(OpCompleteRun, env)
}

func (c *Client) post(ctx context.Context, op, url string, body []byte, headers http.Header) (*envelope, error) {
	raw, err := c.transport.Post(ctx, url, body, headers)
	if err != nil {
		return nil, fmt.Errorf("qase %s: %w", op, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, &RemoteProtocolError{Op: op, Reason: "empty response body"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &RemoteProtocolError{Op: op, Reason: "malformed response body", Err: err}
	}
	return &env, nil
}

func checkStatus(op string, env *envelope) error {
	switch {
	case env.Status == nil:
		return &RemoteProtocolError{Op: op, Reason: "response is missing status"}
	case !*env.Status:
		return newAPIError(op, env.ErrorMessage)
	default:
		return nil
	}
}

func jsonHeaders(token string) http.Header {
	h := http.Header{}
	h.Set(HeaderAccept, contentTypeJSON)
	h.Set(HeaderContentType, contentTypeJSON)
	h.Set(HeaderToken, token)
	return h
}

// BaseURL normalizes host into a scheme-qualified base without a trailing
// slash. Hosts without a scheme use https.
func BaseURL(host string) string {
	host = strings.TrimRight(host, "/")
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return host
}

// RunURL is the create-run endpoint.
func RunURL(host, project string) string {
	return fmt.Sprintf("%s/v1/run/%s", BaseURL(host), url.PathEscape(project))
}

// BulkResultsURL is the bulk-submit endpoint.
func BulkResultsURL(host, project string, runID int64) string {
	return fmt.Sprintf("%s/v1/result/%s/%d/bulk", BaseURL(host), url.PathEscape(project), runID)
}

// CompleteRunURL is the complete-run endpoint.
func CompleteRunURL(host, project string, runID int64) string {
	return fmt.Sprintf("%s/v1/run/%s/%d/complete", BaseURL(host), url.PathEscape(project), runID)
}
