// Package adapter defines the notification boundary for submitted runs.
//
// Adapters publish a RunSubmittedEvent to a downstream system once a batch
// of results has been relayed. Delivery is best effort: the orchestrator
// logs publish failures and never changes its outcome because of them.
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventTypeRunSubmitted is the EventType of every RunSubmittedEvent.
const EventTypeRunSubmitted = "run_submitted"

// Outcome values.
const (
	OutcomeSubmitted     = "submitted"
	OutcomeReportWritten = "report_written"
)

// DefaultBackoff is the delay before the first retry; it doubles per retry.
const DefaultBackoff = 500 * time.Millisecond

// RunSubmittedEvent is the payload published after a submission.
type RunSubmittedEvent struct {
	EventID         string `json:"event_id"`
	EventType       string `json:"event_type"` // always "run_submitted"
	ReporterVersion string `json:"reporter_version"`
	Project         string `json:"project"`
	RunID           int64  `json:"run_id,omitempty"`
	Mode            string `json:"mode"`
	Outcome         string `json:"outcome"` // submitted, report_written
	Environment     string `json:"environment,omitempty"`
	Completed       bool   `json:"completed"`
	ReportPath      string `json:"report_path,omitempty"`
	Timestamp       string `json:"timestamp"` // RFC 3339
	Total           int    `json:"total"`
	Passed          int    `json:"passed"`
	Failed          int    `json:"failed"`
	DurationMs      int64  `json:"duration_ms"`
}

// NewEventID returns a random event id.
func NewEventID() string {
	return uuid.NewString()
}

// Adapter publishes run-submitted events to a downstream system.
type Adapter interface {
	// Publish sends the event. Must respect context cancellation.
	Publish(ctx context.Context, event *RunSubmittedEvent) error

	// Close releases adapter resources.
	Close() error
}

// Retry calls fn up to 1+retries times with exponential backoff starting at
// base. It stops early when fn returns an error for which permanent reports
// true. name prefixes returned errors.
func Retry(ctx context.Context, name string, retries int, base time.Duration, fn func(context.Context) error, permanent func(error) bool) error {
	if base <= 0 {
		base = DefaultBackoff
	}

	var lastErr error
	attempts := 1 + retries
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: context canceled: %w", name, err)
		}

		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * base
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s: context canceled during backoff: %w", name, ctx.Err())
			case <-time.After(backoff):
			}
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if permanent != nil && permanent(lastErr) {
			return fmt.Errorf("%s: non-retriable error: %w", name, lastErr)
		}
	}

	return fmt.Errorf("%s: failed after %d attempts: %w", name, attempts, lastErr)
}
