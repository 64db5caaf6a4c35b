// Package config resolves the effective reporter configuration.
//
// # Layers
//
// Resolve applies four layers in increasing priority:
//
//  1. Built-in defaults (Defaults)
//  2. A YAML or JSON config file (LoadFile), when Input.File is set
//  3. Environment variables (LoadEnv), when Input.EnvPrefix is set
//  4. A caller-supplied preset, when Input.Preset is set
//
// Each layer is folded into the running result with Merge. Strings override
// only when non-empty, numbers only when positive, and booleans only when
// true: a later layer can never switch off a flag an earlier layer set.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Mode selects where results go. The empty mode behaves as ModeTestOps.
type Mode string

const (
	// ModeTestOps submits results to the remote service.
	ModeTestOps Mode = "testops"
	// ModeReport writes a local report only.
	ModeReport Mode = "report"
)

// Format is the encoding of a local report.
type Format string

const (
	// FormatJSON writes indented JSON.
	FormatJSON Format = "json"
	// FormatMsgpack writes MessagePack.
	FormatMsgpack Format = "msgpack"
)

// Report drivers.
const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

// FallbackReport writes a local report when a testops submission fails.
const FallbackReport = "report"

// Defaults.
const (
	DefaultHost         = "https://api.qase.io"
	DefaultBatchSize    = 200
	DefaultReportDriver = DriverLocal
	DefaultReportPath   = "./build/qase-report"
	DefaultReportFormat = FormatJSON

	runTitleLayout = "2006-01-02 15:04:05"
)

// Config is the effective configuration.
type Config struct {
	Token   string `json:"token" yaml:"token"`
	Host    string `json:"host" yaml:"host"`
	Project string `json:"project" yaml:"project"`

	// RunComplete closes the run after results are submitted.
	RunComplete bool   `json:"run_complete" yaml:"run_complete"`
	Mode        Mode   `json:"mode" yaml:"mode"`
	Fallback    string `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`
	RootSuite   string `json:"root_suite,omitempty" yaml:"root_suite,omitempty"`
	Debug       bool   `json:"debug" yaml:"debug"`
	CaptureLogs bool   `json:"capture_logs" yaml:"capture_logs"`

	ReportDriver string `json:"report_driver" yaml:"report_driver"`
	ReportPath   string `json:"report_path" yaml:"report_path"`
	ReportFormat Format `json:"report_format" yaml:"report_format"`
	// ReportRegion, ReportEndpoint and ReportPathStyle tune the s3 driver
	// for S3-compatible providers.
	ReportRegion    string `json:"report_region,omitempty" yaml:"report_region,omitempty"`
	ReportEndpoint  string `json:"report_endpoint,omitempty" yaml:"report_endpoint,omitempty"`
	ReportPathStyle bool   `json:"report_path_style,omitempty" yaml:"report_path_style,omitempty"`

	Enterprise bool `json:"enterprise" yaml:"enterprise"`

	// RunID reuses an existing remote run when positive. Zero creates one.
	RunID          int64  `json:"run_id" yaml:"run_id"`
	RunTitle       string `json:"run_title" yaml:"run_title"`
	RunDescription string `json:"run_description,omitempty" yaml:"run_description,omitempty"`
	PlanID         int64  `json:"plan_id,omitempty" yaml:"plan_id,omitempty"`
	BatchSize      int    `json:"batch_size" yaml:"batch_size"`

	// Defect is accepted and carried but has no effect yet.
	Defect bool `json:"defect" yaml:"defect"`

	Notify NotifyConfig `json:"notify" yaml:"notify"`
}

// NotifyConfig selects an optional run-submitted notifier.
type NotifyConfig struct {
	// Type is "webhook", "redis" or empty for none.
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	URL     string `json:"url,omitempty" yaml:"url,omitempty"`
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty"`
}

// Defaults returns the built-in defaults stamped with the current time.
func Defaults() Config {
	return DefaultsAt(time.Now())
}

// DefaultsAt returns the built-in defaults with a run title derived from now.
func DefaultsAt(now time.Time) Config {
	return Config{
		Host:         DefaultHost,
		RunComplete:  true,
		Mode:         ModeTestOps,
		ReportDriver: DefaultReportDriver,
		ReportPath:   DefaultReportPath,
		ReportFormat: DefaultReportFormat,
		RunTitle:     "Automated run " + now.Format(runTitleLayout),
		BatchSize:    DefaultBatchSize,
	}
}

// ValidateForTestOps checks the invariants required before any network
// operation: token, project and host must be set.
func (c Config) ValidateForTestOps() error {
	for _, f := range []struct{ name, value string }{
		{"token", c.Token},
		{"project", c.Project},
		{"host", c.Host},
	} {
		if f.value == "" {
			return fmt.Errorf("%w: %s must be set before contacting the service", ErrInvalid, f.name)
		}
	}
	return nil
}

// Validate checks enumerated values and limits. It does not require the
// network credentials; see ValidateForTestOps.
func (c Config) Validate() error {
	if !slices.Contains([]Mode{"", ModeTestOps, ModeReport}, c.Mode) {
		return fmt.Errorf("%w: mode %q (must be testops or report)", ErrInvalid, c.Mode)
	}
	if !slices.Contains([]Format{FormatJSON, FormatMsgpack}, c.ReportFormat) {
		return fmt.Errorf("%w: report format %q (must be json or msgpack)", ErrInvalid, c.ReportFormat)
	}
	if !slices.Contains([]string{DriverLocal, DriverS3}, c.ReportDriver) {
		return fmt.Errorf("%w: report driver %q (must be local or s3)", ErrInvalid, c.ReportDriver)
	}
	if c.Fallback != "" && c.Fallback != FallbackReport && c.Fallback != "off" {
		return fmt.Errorf("%w: fallback %q (must be report or off)", ErrInvalid, c.Fallback)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalid, c.BatchSize)
	}
	if c.RunID < 0 || c.PlanID < 0 {
		return fmt.Errorf("%w: run id and plan id must not be negative", ErrInvalid)
	}
	switch c.Notify.Type {
	case "":
	case "webhook", "redis":
		if c.Notify.URL == "" {
			return fmt.Errorf("%w: notify.url is required for %s notifier", ErrInvalid, c.Notify.Type)
		}
	default:
		return fmt.Errorf("%w: notify type %q (must be webhook or redis)", ErrInvalid, c.Notify.Type)
	}
	return nil
}

// Redacted returns a copy safe for display. The token keeps its last four
// characters.
func (c Config) Redacted() Config {
	out := c
	switch n := len(c.Token); {
	case n == 0:
	case n <= 4:
		out.Token = "****"
	default:
		out.Token = "****" + c.Token[n-4:]
	}
	return out
}
