package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the nested file layout. Every leaf is a pointer so an
// absent key is distinguishable from a zero value.
type fileConfig struct {
	Mode        *Mode   `json:"mode" yaml:"mode"`
	Fallback    *string `json:"fallback" yaml:"fallback"`
	Environment *string `json:"environment" yaml:"environment"`
	RootSuite   *string `json:"rootSuite" yaml:"rootSuite"`
	Debug       *bool   `json:"debug" yaml:"debug"`
	CaptureLogs *bool   `json:"captureLogs" yaml:"captureLogs"`

	TestOps struct {
		API struct {
			Token      *string `json:"token" yaml:"token"`
			Host       *string `json:"host" yaml:"host"`
			Enterprise *bool   `json:"enterprise" yaml:"enterprise"`
		} `json:"api" yaml:"api"`
		Project *string `json:"project" yaml:"project"`
		Run     struct {
			Complete    *bool   `json:"complete" yaml:"complete"`
			ID          *int64  `json:"id" yaml:"id"`
			Title       *string `json:"title" yaml:"title"`
			Description *string `json:"description" yaml:"description"`
		} `json:"run" yaml:"run"`
		Plan struct {
			ID *int64 `json:"id" yaml:"id"`
		} `json:"plan" yaml:"plan"`
		Batch struct {
			Size *int `json:"size" yaml:"size"`
		} `json:"batch" yaml:"batch"`
		Defect *bool `json:"defect" yaml:"defect"`
		Report struct {
			Driver     *string `json:"driver" yaml:"driver"`
			Connection struct {
				Path      *string `json:"path" yaml:"path"`
				Format    *Format `json:"format" yaml:"format"`
				Region    *string `json:"region" yaml:"region"`
				Endpoint  *string `json:"endpoint" yaml:"endpoint"`
				PathStyle *bool   `json:"pathStyle" yaml:"pathStyle"`
			} `json:"connection" yaml:"connection"`
		} `json:"report" yaml:"report"`
	} `json:"testops" yaml:"testops"`

	Notify struct {
		Type    *string `json:"type" yaml:"type"`
		URL     *string `json:"url" yaml:"url"`
		Channel *string `json:"channel" yaml:"channel"`
	} `json:"notify" yaml:"notify"`
}

// fileField maps one file key onto the effective config.
type fileField struct {
	path  string
	apply func(*fileConfig, *Config)
}

// requiredFields must be present and non-empty.
var requiredFields = []struct {
	path  string
	value func(*fileConfig) *string
}{
	{"testops.api.token", func(f *fileConfig) *string { return f.TestOps.API.Token }},
	{"testops.project", func(f *fileConfig) *string { return f.TestOps.Project }},
}

// optionalFields are copied only when present in the file.
var optionalFields = []fileField{
	{"testops.api.token", func(f *fileConfig, c *Config) { assign(&c.Token, f.TestOps.API.Token) }},
	{"testops.project", func(f *fileConfig, c *Config) { assign(&c.Project, f.TestOps.Project) }},
	{"testops.api.host", func(f *fileConfig, c *Config) { assign(&c.Host, f.TestOps.API.Host) }},
	{"testops.api.enterprise", func(f *fileConfig, c *Config) { assign(&c.Enterprise, f.TestOps.API.Enterprise) }},
	{"testops.run.complete", func(f *fileConfig, c *Config) { assign(&c.RunComplete, f.TestOps.Run.Complete) }},
	{"testops.run.id", func(f *fileConfig, c *Config) { assign(&c.RunID, f.TestOps.Run.ID) }},
	{"testops.run.title", func(f *fileConfig, c *Config) { assign(&c.RunTitle, f.TestOps.Run.Title) }},
	{"testops.run.description", func(f *fileConfig, c *Config) { assign(&c.RunDescription, f.TestOps.Run.Description) }},
	{"testops.plan.id", func(f *fileConfig, c *Config) { assign(&c.PlanID, f.TestOps.Plan.ID) }},
	{"testops.batch.size", func(f *fileConfig, c *Config) { assign(&c.BatchSize, f.TestOps.Batch.Size) }},
	{"testops.defect", func(f *fileConfig, c *Config) { assign(&c.Defect, f.TestOps.Defect) }},
	{"testops.report.driver", func(f *fileConfig, c *Config) { assign(&c.ReportDriver, f.TestOps.Report.Driver) }},
	{"testops.report.connection.path", func(f *fileConfig, c *Config) { assign(&c.ReportPath, f.TestOps.Report.Connection.Path) }},
	{"testops.report.connection.format", func(f *fileConfig, c *Config) { assign(&c.ReportFormat, f.TestOps.Report.Connection.Format) }},
	{"testops.report.connection.region", func(f *fileConfig, c *Config) { assign(&c.ReportRegion, f.TestOps.Report.Connection.Region) }},
	{"testops.report.connection.endpoint", func(f *fileConfig, c *Config) { assign(&c.ReportEndpoint, f.TestOps.Report.Connection.Endpoint) }},
	{"testops.report.connection.pathStyle", func(f *fileConfig, c *Config) { assign(&c.ReportPathStyle, f.TestOps.Report.Connection.PathStyle) }},
	{"mode", func(f *fileConfig, c *Config) { assign(&c.Mode, f.Mode) }},
	{"fallback", func(f *fileConfig, c *Config) { assign(&c.Fallback, f.Fallback) }},
	{"environment", func(f *fileConfig, c *Config) { assign(&c.Environment, f.Environment) }},
	{"rootSuite", func(f *fileConfig, c *Config) { assign(&c.RootSuite, f.RootSuite) }},
	{"debug", func(f *fileConfig, c *Config) { assign(&c.Debug, f.Debug) }},
	{"captureLogs", func(f *fileConfig, c *Config) { assign(&c.CaptureLogs, f.CaptureLogs) }},
	{"notify.type", func(f *fileConfig, c *Config) { assign(&c.Notify.Type, f.Notify.Type) }},
	{"notify.url", func(f *fileConfig, c *Config) { assign(&c.Notify.URL, f.Notify.URL) }},
	{"notify.channel", func(f *fileConfig, c *Config) { assign(&c.Notify.Channel, f.Notify.Channel) }},
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// LoadFile reads a YAML or JSON config file. Environment references of the
// form ${VAR} or ${VAR:-default} are expanded before parsing. Keys absent
// from the file keep their default values.
func LoadFile(path string) (Config, error) {
	if !fileLoadingSupported {
		return Config{}, fmt.Errorf("%w: %s", ErrUnsupportedOnPlatform, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: could not open config file %s: %w", ErrNotFound, path, err)
	}

	var fc fileConfig
	if err := decodeFile([]byte(ExpandEnv(string(data))), &fc); err != nil {
		return Config{}, fmt.Errorf("%w: failed to parse %s: %w", ErrParse, path, err)
	}

	for _, req := range requiredFields {
		v := req.value(&fc)
		if v == nil {
			return Config{}, fmt.Errorf("%w: %s in %s", ErrMissingField, req.path, path)
		}
		if *v == "" {
			return Config{}, fmt.Errorf("%w: %s in %s", ErrEmptyField, req.path, path)
		}
	}

	cfg := DefaultsAt(time.Now())
	for _, field := range optionalFields {
		field.apply(&fc, &cfg)
	}
	return cfg, nil
}

// decodeFile parses JSON documents with encoding/json, since tab-indented
// JSON is not valid YAML, and everything else with yaml.v3.
func decodeFile(data []byte, fc *fileConfig) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, fc)
	}
	return yaml.Unmarshal(data, fc)
}
