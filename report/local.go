package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/pithecene-io/qasereport/config"
	"github.com/pithecene-io/qasereport/types"
)

// LocalReport is the document written in report mode and on fallback.
type LocalReport struct {
	FormatVersion string       `json:"format_version" msgpack:"format_version"`
	Title         string       `json:"title" msgpack:"title"`
	Project       string       `json:"project,omitempty" msgpack:"project,omitempty"`
	Environment   string       `json:"environment,omitempty" msgpack:"environment,omitempty"`
	RootSuite     string       `json:"root_suite,omitempty" msgpack:"root_suite,omitempty"`
	RunID         int64        `json:"run_id,omitempty" msgpack:"run_id,omitempty"`
	CreatedAt     string       `json:"created_at" msgpack:"created_at"`
	Stats         types.Counts `json:"stats" msgpack:"stats"`
	Results       []LocalEntry `json:"results" msgpack:"results"`
}

// LocalEntry is one result in a local report.
type LocalEntry struct {
	Title  string            `json:"title" msgpack:"title"`
	Status types.Status      `json:"status" msgpack:"status"`
	CaseID int64             `json:"case_id,omitempty" msgpack:"case_id,omitempty"`
	Fields map[string]string `json:"fields,omitempty" msgpack:"fields,omitempty"`
}

// NewLocalReport builds a local report from results and the effective
// config. now stamps created_at.
func NewLocalReport(results []types.TestResult, cfg config.Config, now time.Time) *LocalReport {
	entries := make([]LocalEntry, 0, len(results))
	for _, r := range results {
		meta := r.Meta.Clone()
		entries = append(entries, LocalEntry{
			Title:  r.CaseTitle(),
			Status: r.Status(),
			CaseID: meta.CaseID,
			Fields: meta.Fields,
		})
	}

	return &LocalReport{
		FormatVersion: types.ReportFormatVersion,
		Title:         cfg.RunTitle,
		Project:       cfg.Project,
		Environment:   cfg.Environment,
		RootSuite:     cfg.RootSuite,
		RunID:         cfg.RunID,
		CreatedAt:     now.UTC().Format(time.RFC3339),
		Stats:         types.CountResults(results),
		Results:       entries,
	}
}

// Encode serializes the report in the given format.
func (r *LocalReport) Encode(format config.Format) ([]byte, error) {
	switch format {
	case config.FormatJSON, "":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return append(data, '\n'), nil
	case config.FormatMsgpack:
		data, err := msgpack.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Decode parses a report previously produced by Encode.
func Decode(data []byte, format config.Format) (*LocalReport, error) {
	var r LocalReport
	var err error
	switch format {
	case config.FormatJSON, "":
		err = json.Unmarshal(data, &r)
	case config.FormatMsgpack:
		err = msgpack.Unmarshal(data, &r)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &r, nil
}

// FileName returns a unique report file name for the format.
func FileName(format config.Format, now time.Time) string {
	ext := string(format)
	if ext == "" {
		ext = string(config.FormatJSON)
	}
	return fmt.Sprintf("qase-report-%s-%s.%s",
		now.UTC().Format("20060102T150405Z"), uuid.NewString()[:8], ext)
}

// WriteTo writes the encoded report to w.
func WriteTo(w io.Writer, r *LocalReport, format config.Format) error {
	data, err := r.Encode(format)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
