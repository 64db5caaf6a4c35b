package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/qasereport/adapter"
	"github.com/pithecene-io/qasereport/adapter/redis"
	"github.com/pithecene-io/qasereport/adapter/webhook"
	"github.com/pithecene-io/qasereport/cli/gotest"
	"github.com/pithecene-io/qasereport/cli/render"
	"github.com/pithecene-io/qasereport/collector"
	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/log"
	"github.com/pithecene-io/qasereport/metrics"
	"github.com/pithecene-io/qasereport/qase"
	"github.com/pithecene-io/qasereport/reportstore"
	"github.com/pithecene-io/qasereport/submit"
)

// SubmitResponse is the rendered result of the submit command.
type SubmitResponse struct {
	Mode       config.Mode   `json:"mode" yaml:"mode"`
	RunID      int64         `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Steps      []submit.Step `json:"steps" yaml:"steps"`
	Total      int           `json:"total" yaml:"total"`
	Passed     int           `json:"passed" yaml:"passed"`
	Failed     int           `json:"failed" yaml:"failed"`
	Skipped    int           `json:"skipped" yaml:"skipped"`
	Malformed  int           `json:"malformed" yaml:"malformed"`
	ReportPath string        `json:"report_path,omitempty" yaml:"report_path,omitempty"`
	Notified   bool          `json:"notified" yaml:"notified"`
	// BuildFailures lists packages that failed before any test ran.
	BuildFailures []string         `json:"build_failures,omitempty" yaml:"build_failures,omitempty"`
	Metrics       metrics.Snapshot `json:"metrics" yaml:"metrics"`
	Status        string           `json:"status" yaml:"status"`
}

// Submit statuses. StatusIncomplete means the submission succeeded but some
// packages failed to build, so their tests are missing from the run.
const (
	StatusOK         = "ok"
	StatusIncomplete = "incomplete"
	StatusError      = "error"
)

// SubmitCommand returns the submit command.
// It reads go test -json output and relays the results.
func SubmitCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "input",
			Aliases: []string{"i"},
			Usage:   "go test -json output to read (- for stdin)",
			Value:   "-",
		},
		&cli.StringFlag{
			Name:  "mode",
			Usage: "Override mode: testops or report",
		},
		&cli.Int64Flag{
			Name:  "run-id",
			Usage: "Submit into an existing run instead of creating one",
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Override the run title",
		},
		&cli.BoolFlag{
			Name:  "no-complete",
			Usage: "Leave the run open after submitting",
		},
		&cli.BoolFlag{
			Name:  "qualify-names",
			Usage: "Prefix test names with their package path",
		},
		&cli.BoolFlag{
			Name:  "skip-subtests",
			Usage: "Ignore subtests (names containing /)",
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Per-request HTTP timeout",
			Value: qase.DefaultTimeout,
		},
	}
	flags = append(flags, ConfigFlags()...)
	flags = append(flags, OutputFlags()...)

	return &cli.Command{
		Name:   "submit",
		Usage:  "Submit go test -json results to Qase TestOps or a local report",
		Flags:  flags,
		Action: submitAction,
	}
}

func submitAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitConfig)
	}

	cfg, err := resolveConfig(c, presetFromFlags(c))
	if err != nil {
		return exitErr("resolve config", err)
	}
	// The merge never turns a bool off, so --no-complete applies last.
	if c.Bool("no-complete") {
		cfg.RunComplete = false
	}
	if err := cfg.Validate(); err != nil {
		return exitErr("validate config", err)
	}

	logger := log.NewLogger(log.Options{
		Project: cfg.Project,
		Debug:   cfg.Debug,
		Output:  c.App.ErrWriter,
	})
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	results := collector.New()
	stats, err := ingest(c, results)
	if err != nil {
		return exitErr("read results", err)
	}
	sugar.Debugf("ingested %d passed, %d failed, %d skipped, %d malformed",
		stats.Passed, stats.Failed, stats.Skipped, stats.Malformed)
	for _, pkg := range stats.BuildFailures {
		sugar.Warnf("package %s failed without running tests; its results are missing", pkg)
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := submit.Options{
		Config:    cfg,
		Logger:    logger,
		Collector: metrics.NewCollector(string(cfg.Mode), cfg.Project, cfg.ReportDriver),
	}

	if cfg.Mode != config.ModeReport {
		transport := qase.NewHTTPTransport(c.Duration("timeout"))
		defer func() { _ = transport.Close() }()
		opts.Client = qase.NewClient(transport)
	}

	if cfg.Mode == config.ModeReport || cfg.Fallback == config.FallbackReport {
		store, err := reportstore.FromConfig(ctx, cfg)
		if err != nil {
			return exitErr("open report store", err)
		}
		opts.Reports = store
		sugar.Debugf("report store %s", store.Location())
	}

	notifier, err := newNotifier(cfg.Notify)
	if err != nil {
		return exitErr("create notifier", err)
	}
	if notifier != nil {
		defer func() { _ = notifier.Close() }()
		opts.Notifier = notifier
	}

	outcome, submitErr := submit.New(opts).Submit(ctx, results.Results())

	resp := SubmitResponse{
		Mode:          cfg.Mode,
		RunID:         outcome.RunID,
		Steps:         outcome.Steps,
		Total:         outcome.Counts.Total,
		Passed:        outcome.Counts.Passed,
		Failed:        outcome.Counts.Failed,
		Skipped:       stats.Skipped,
		Malformed:     stats.Malformed,
		ReportPath:    outcome.ReportPath,
		Notified:      outcome.Notified,
		BuildFailures: stats.BuildFailures,
		Metrics:       outcome.Metrics,
		Status:        StatusOK,
	}
	switch {
	case submitErr != nil:
		resp.Status = StatusError
	case len(stats.BuildFailures) > 0:
		resp.Status = StatusIncomplete
	}
	if err := r.Render(resp); err != nil {
		return err
	}

	return exitErr("submit", submitErr)
}

// presetFromFlags builds the highest-precedence config layer from flags
// the user set explicitly.
func presetFromFlags(c *cli.Context) *config.Config {
	var preset config.Config
	if c.IsSet("mode") {
		preset.Mode = config.Mode(c.String("mode"))
	}
	if c.IsSet("run-id") {
		preset.RunID = c.Int64("run-id")
	}
	if c.IsSet("title") {
		preset.RunTitle = c.String("title")
	}
	return &preset
}

func ingest(c *cli.Context, results *collector.Collector) (gotest.Stats, error) {
	var in io.Reader
	if path := c.String("input"); path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return gotest.Stats{}, fmt.Errorf("%w: %w", errInvalidInput, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	} else if c.App.Reader != nil {
		in = c.App.Reader
	} else {
		in = os.Stdin
	}

	stats, err := gotest.Ingest(in, results, gotest.Options{
		QualifyNames: c.Bool("qualify-names"),
		SkipSubtests: c.Bool("skip-subtests"),
	})
	if err != nil && !errors.Is(err, collector.ErrInvalidResultName) {
		err = fmt.Errorf("%w: %w", errInvalidInput, err)
	}
	return stats, err
}

// newNotifier returns the configured notifier, or nil when none is set.
func newNotifier(n config.NotifyConfig) (adapter.Adapter, error) {
	switch n.Type {
	case "":
		return nil, nil
	case "webhook":
		a, err := webhook.New(webhook.Config{URL: n.URL, Retries: webhook.DefaultRetries})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
		}
		return a, nil
	case "redis":
		a, err := redis.New(redis.Config{URL: n.URL, Channel: n.Channel, Retries: redis.DefaultRetries})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: notify type %q", config.ErrInvalid, n.Type)
	}
}
