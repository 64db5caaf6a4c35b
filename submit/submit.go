// Package submit relays collected results to Qase TestOps.
//
// An Orchestrator walks the steps produced by Plan, threading the run id
// from StartRun (or the configured run id) into SubmitResults and
// CompleteRun. Every remote failure is fatal to the remaining steps and no
// rollback is attempted: a failure while submitting leaves the remote run
// open.
package submit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/pithecene-io/qasereport/adapter"
	"github.com/pithecene-io/qasereport/collector"
	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/log"
	"github.com/pithecene-io/qasereport/metrics"
	"github.com/pithecene-io/qasereport/qase"
	"github.com/pithecene-io/qasereport/report"
	"github.com/pithecene-io/qasereport/reportstore"
	"github.com/pithecene-io/qasereport/types"
)

// ErrNoReportStore is returned when a local report is required but no
// store was configured.
var ErrNoReportStore = errors.New("no report store configured")

// APIClient performs the three remote run operations.
type APIClient interface {
	StartRun(ctx context.Context, cfg config.Config) (int64, error)
	SubmitResults(ctx context.Context, cfg config.Config, runID int64, payload []byte) error
	CompleteRun(ctx context.Context, cfg config.Config, runID int64) error
}

// Verify the qase client satisfies APIClient.
var _ APIClient = (*qase.Client)(nil)

// Options configures an Orchestrator.
type Options struct {
	// Config is the effective configuration.
	Config config.Config
	// Client performs remote operations. Required in testops mode.
	Client APIClient
	// Reports stores local reports. Required in report mode and for the
	// report fallback; if nil, neither is available.
	Reports reportstore.Writer
	// Notifier receives a RunSubmittedEvent after a successful submission.
	// If nil, no notification is sent.
	Notifier adapter.Adapter
	// Logger receives step logs. If nil, nothing is logged.
	Logger *log.Logger
	// Collector records counters. If nil, no metrics are recorded.
	Collector *metrics.Collector
	// Now overrides the clock (for testing).
	Now func() time.Time
}

// Outcome describes a finished (or aborted) submission.
type Outcome struct {
	// RunID is the remote run the results went to; zero in report mode or
	// when the run could not be created.
	RunID int64 `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	// Steps lists the steps that completed, in order.
	Steps []Step `json:"steps" yaml:"steps"`
	// Counts summarizes the submitted results.
	Counts types.Counts `json:"counts" yaml:"counts"`
	// ReportPath is where a local report was stored, if any.
	ReportPath string `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	// Notified is true when the run-submitted event was delivered.
	Notified bool `json:"notified" yaml:"notified"`
	// Metrics is the final counter snapshot.
	Metrics metrics.Snapshot `json:"metrics" yaml:"metrics"`
}

// Orchestrator drives one submission.
type Orchestrator struct {
	cfg       config.Config
	client    APIClient
	reports   reportstore.Writer
	notifier  adapter.Adapter
	logger    *log.Logger
	collector *metrics.Collector
	now       func() time.Time
}

// New creates an orchestrator. The config is validated on Submit, not here,
// so an empty submission never fails on configuration.
func New(opts Options) *Orchestrator {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		cfg:       opts.Config,
		client:    opts.Client,
		reports:   opts.Reports,
		notifier:  opts.Notifier,
		logger:    opts.Logger,
		collector: opts.Collector,
		now:       now,
	}
}

// SubmitCollected submits everything recorded in c.
func (o *Orchestrator) SubmitCollected(ctx context.Context, c *collector.Collector) (*Outcome, error) {
	return o.Submit(ctx, c.Results())
}

// Submit relays results according to Plan. With no results it returns an
// empty Outcome without touching the network or the report store.
//
// On error the returned Outcome is still non-nil and records the steps that
// completed and, when the report fallback ran, where the report went.
func (o *Orchestrator) Submit(ctx context.Context, results []types.TestResult) (*Outcome, error) {
	counts := types.CountResults(results)
	out := &Outcome{Steps: []Step{}, Counts: counts}

	steps := Plan(o.cfg, len(results))
	if len(steps) == 0 {
		o.logger.Info("no results to submit", nil)
		out.Metrics = o.collector.Snapshot()
		return out, nil
	}

	o.collector.AbsorbResults(counts.Total, counts.Passed, counts.Failed)

	if err := o.validate(); err != nil {
		out.Metrics = o.collector.Snapshot()
		return out, err
	}

	start := o.now()
	err := o.run(ctx, steps, results, out)
	if err != nil && o.cfg.Mode != config.ModeReport && o.cfg.Fallback == config.FallbackReport {
		o.fallback(ctx, results, out, err)
	}
	if err == nil {
		o.notify(ctx, out, o.now().Sub(start))
	}

	out.Metrics = o.collector.Snapshot()
	o.logger.Info("submission finished", map[string]any{
		"steps":   out.Steps,
		"ok":      err == nil,
		"metrics": out.Metrics,
	})
	return out, err
}

func (o *Orchestrator) validate() error {
	if err := o.cfg.Validate(); err != nil {
		return err
	}
	switch o.cfg.Mode {
	case config.ModeReport:
		if o.reports == nil {
			return fmt.Errorf("%w: %w: report mode", config.ErrInvalid, ErrNoReportStore)
		}
	default:
		if err := o.cfg.ValidateForTestOps(); err != nil {
			return err
		}
		if o.client == nil {
			return fmt.Errorf("%w: no API client configured", config.ErrInvalid)
		}
	}
	return nil
}

// run executes steps in order, stopping at the first failure.
func (o *Orchestrator) run(ctx context.Context, steps []Step, results []types.TestResult, out *Outcome) error {
	runID := o.cfg.RunID
	logger := o.logger
	if runID > 0 {
		logger = logger.WithRunID(runID)
	}

	for _, step := range steps {
		logger.Debug("step started", map[string]any{"step": string(step)})

		switch step {
		case StepStarting:
			id, err := o.client.StartRun(ctx, o.cfg)
			if err != nil {
				return o.remoteFailure(logger, qase.OpStartRun, err)
			}
			runID = id
			logger = o.logger.WithRunID(runID)
			o.collector.IncRunStarted()
			logger.Info("run started", map[string]any{"title": o.cfg.RunTitle})

		case StepSubmitting:
			payload, err := report.Serialize(results).JSON()
			if err != nil {
				return fmt.Errorf("serialize results: %w", err)
			}
			if err := o.client.SubmitResults(ctx, o.cfg, runID, payload); err != nil {
				return o.remoteFailure(logger, qase.OpSubmitResults, err)
			}
			o.collector.IncResultsSubmitted()
			logger.Info("results submitted", map[string]any{
				"total":  out.Counts.Total,
				"passed": out.Counts.Passed,
				"failed": out.Counts.Failed,
			})

		case StepCompleting:
			if err := o.client.CompleteRun(ctx, o.cfg, runID); err != nil {
				return o.remoteFailure(logger, qase.OpCompleteRun, err)
			}
			o.collector.IncRunCompleted()
			logger.Info("run completed", nil)

		case StepWritingReport:
			path, err := o.writeReport(ctx, results, 0)
			if err != nil {
				return err
			}
			out.ReportPath = path
			logger.Info("report written", map[string]any{"path": path})
		}

		out.RunID = runID
		out.Steps = append(out.Steps, step)
	}
	return nil
}

func (o *Orchestrator) remoteFailure(logger *log.Logger, op string, err error) error {
	o.collector.IncAPIFailure(op)
	logger.Error("remote operation failed", map[string]any{"op": op, "error": err.Error()})
	return err
}

func (o *Orchestrator) writeReport(ctx context.Context, results []types.TestResult, runID int64) (string, error) {
	if o.reports == nil {
		return "", ErrNoReportStore
	}

	cfg := o.cfg
	if runID > 0 {
		cfg.RunID = runID
	}
	now := o.now()
	data, err := report.NewLocalReport(results, cfg, now).Encode(cfg.ReportFormat)
	if err != nil {
		o.collector.IncReportWriteFailure()
		return "", fmt.Errorf("encode report: %w", err)
	}

	path, err := o.reports.Put(ctx, report.FileName(cfg.ReportFormat, now), data)
	if err != nil {
		o.collector.IncReportWriteFailure()
		return "", fmt.Errorf("write report: %w", err)
	}
	o.collector.IncReportWriteSuccess()
	return path, nil
}

// fallback stores a local report after a failed testops submission. The
// submission error is still returned to the caller.
func (o *Orchestrator) fallback(ctx context.Context, results []types.TestResult, out *Outcome, cause error) {
	path, err := o.writeReport(ctx, results, out.RunID)
	if err != nil {
		o.logger.Error("fallback report failed", map[string]any{
			"error": err.Error(),
			"cause": cause.Error(),
		})
		return
	}
	out.ReportPath = path
	o.logger.Warn("submission failed, results kept in local report", map[string]any{"path": path})
}

// notify publishes the run-submitted event. Failures are logged only.
func (o *Orchestrator) notify(ctx context.Context, out *Outcome, elapsed time.Duration) {
	if o.notifier == nil {
		return
	}

	outcome := adapter.OutcomeSubmitted
	if o.cfg.Mode == config.ModeReport {
		outcome = adapter.OutcomeReportWritten
	}
	event := &adapter.RunSubmittedEvent{
		EventID:         adapter.NewEventID(),
		EventType:       adapter.EventTypeRunSubmitted,
		ReporterVersion: types.Version,
		Project:         o.cfg.Project,
		RunID:           out.RunID,
		Mode:            string(o.cfg.Mode),
		Outcome:         outcome,
		Environment:     o.cfg.Environment,
		Completed:       slices.Contains(out.Steps, StepCompleting),
		ReportPath:      out.ReportPath,
		Timestamp:       o.now().UTC().Format(time.RFC3339),
		Total:           out.Counts.Total,
		Passed:          out.Counts.Passed,
		Failed:          out.Counts.Failed,
		DurationMs:      elapsed.Milliseconds(),
	}

	if err := o.notifier.Publish(ctx, event); err != nil {
		o.collector.IncNotifyFailure()
		o.logger.Warn("notification failed", map[string]any{"error": err.Error()})
		return
	}
	o.collector.IncNotifySuccess()
	out.Notified = true
}
