// Package metrics collects per-submission counters.
//
// The Collector accumulates counters while one batch of results is relayed.
// It is a leaf package with no internal dependencies. Result counts are
// absorbed once from the collected results rather than recorded per result.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	// Remote run operations
	RunsStarted      int64            `json:"runs_started" yaml:"runs_started"`
	ResultsSubmitted int64            `json:"results_submitted" yaml:"results_submitted"`
	RunsCompleted    int64            `json:"runs_completed" yaml:"runs_completed"`
	APIFailures      int64            `json:"api_failures" yaml:"api_failures"`
	FailuresByOp     map[string]int64 `json:"failures_by_op,omitempty" yaml:"failures_by_op,omitempty"`

	// Local report
	ReportWriteSuccess int64 `json:"report_write_success" yaml:"report_write_success"`
	ReportWriteFailure int64 `json:"report_write_failure" yaml:"report_write_failure"`

	// Notifications
	NotifySuccess int64 `json:"notify_success" yaml:"notify_success"`
	NotifyFailure int64 `json:"notify_failure" yaml:"notify_failure"`

	// Results (absorbed once per submission)
	ResultsTotal  int64 `json:"results_total" yaml:"results_total"`
	ResultsPassed int64 `json:"results_passed" yaml:"results_passed"`
	ResultsFailed int64 `json:"results_failed" yaml:"results_failed"`

	// Dimensions (informational, set at construction)
	Mode           string `json:"mode" yaml:"mode"`
	Project        string `json:"project" yaml:"project"`
	StorageBackend string `json:"storage_backend,omitempty" yaml:"storage_backend,omitempty"`
}

// Collector accumulates counters for a single submission.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	runsStarted      int64
	resultsSubmitted int64
	runsCompleted    int64
	apiFailures      int64
	failuresByOp     map[string]int64

	reportWriteSuccess int64
	reportWriteFailure int64

	notifySuccess int64
	notifyFailure int64

	resultsTotal  int64
	resultsPassed int64
	resultsFailed int64

	mode           string
	project        string
	storageBackend string
}

// NewCollector creates a Collector with dimension labels.
// storageBackend is empty when no local report is configured.
func NewCollector(mode, project, storageBackend string) *Collector {
	return &Collector{
		failuresByOp:   make(map[string]int64),
		mode:           mode,
		project:        project,
		storageBackend: storageBackend,
	}
}

func (c *Collector) inc(counter *int64) {
	c.mu.Lock()
	*counter++
	c.mu.Unlock()
}

// --- Remote run operations ---

// IncRunStarted records a successful run creation.
func (c *Collector) IncRunStarted() {
	if c == nil {
		return
	}
	c.inc(&c.runsStarted)
}

// IncResultsSubmitted records a successful bulk submit (per call).
func (c *Collector) IncResultsSubmitted() {
	if c == nil {
		return
	}
	c.inc(&c.resultsSubmitted)
}

// IncRunCompleted records a successful run completion.
func (c *Collector) IncRunCompleted() {
	if c == nil {
		return
	}
	c.inc(&c.runsCompleted)
}

// IncAPIFailure records a failed remote operation.
func (c *Collector) IncAPIFailure(op string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.apiFailures++
	c.failuresByOp[op]++
	c.mu.Unlock()
}

// --- Local report ---

// IncReportWriteSuccess records a stored local report.
func (c *Collector) IncReportWriteSuccess() {
	if c == nil {
		return
	}
	c.inc(&c.reportWriteSuccess)
}

// IncReportWriteFailure records a failed local report write.
func (c *Collector) IncReportWriteFailure() {
	if c == nil {
		return
	}
	c.inc(&c.reportWriteFailure)
}

// --- Notifications ---

// IncNotifySuccess records a delivered notification.
func (c *Collector) IncNotifySuccess() {
	if c == nil {
		return
	}
	c.inc(&c.notifySuccess)
}

// IncNotifyFailure records a notification that was not delivered.
func (c *Collector) IncNotifyFailure() {
	if c == nil {
		return
	}
	c.inc(&c.notifyFailure)
}

// AbsorbResults sets the result counters. Called once per submission.
func (c *Collector) AbsorbResults(total, passed, failed int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.resultsTotal = int64(total)
	c.resultsPassed = int64(passed)
	c.resultsFailed = int64(failed)
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	byOp := make(map[string]int64, len(c.failuresByOp))
	for k, v := range c.failuresByOp {
		byOp[k] = v
	}

	return Snapshot{
		RunsStarted:      c.runsStarted,
		ResultsSubmitted: c.resultsSubmitted,
		RunsCompleted:    c.runsCompleted,
		APIFailures:      c.apiFailures,
		FailuresByOp:     byOp,

		ReportWriteSuccess: c.reportWriteSuccess,
		ReportWriteFailure: c.reportWriteFailure,

		NotifySuccess: c.notifySuccess,
		NotifyFailure: c.notifyFailure,

		ResultsTotal:  c.resultsTotal,
		ResultsPassed: c.resultsPassed,
		ResultsFailed: c.resultsFailed,

		Mode:           c.mode,
		Project:        c.project,
		StorageBackend: c.storageBackend,
	}
}
