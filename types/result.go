// Package types defines the core domain types shared by the reporter packages.
//
//nolint:revive // types is a common Go package naming convention
package types

import "maps"

// Status is the wire status of a single test outcome.
type Status string

const (
	// StatusPassed marks a passing test.
	StatusPassed Status = "passed"
	// StatusFailed marks a failing test.
	StatusFailed Status = "failed"
)

// StatusOf maps a pass/fail flag to its wire status.
func StatusOf(passed bool) Status {
	if passed {
		return StatusPassed
	}
	return StatusFailed
}

// ResultMeta is optional per-result metadata forwarded to the remote case.
type ResultMeta struct {
	// CaseID links the result to an existing remote case. Zero means unlinked.
	CaseID int64 `json:"case_id,omitempty" msgpack:"case_id,omitempty" yaml:"case_id,omitempty"`
	// Title overrides the test name as the case title when non-empty.
	Title string `json:"title,omitempty" msgpack:"title,omitempty" yaml:"title,omitempty"`
	// Fields are custom case attributes. Key order carries no meaning.
	Fields map[string]string `json:"fields,omitempty" msgpack:"fields,omitempty" yaml:"fields,omitempty"`
}

// Clone returns a deep copy so stored results cannot be mutated through
// the caller's map.
func (m ResultMeta) Clone() ResultMeta {
	out := m
	if m.Fields != nil {
		out.Fields = maps.Clone(m.Fields)
	}
	return out
}

// TestResult is one recorded test outcome.
type TestResult struct {
	Name   string     `json:"name" msgpack:"name" yaml:"name"`
	Passed bool       `json:"passed" msgpack:"passed" yaml:"passed"`
	Meta   ResultMeta `json:"meta,omitzero" msgpack:"meta,omitempty" yaml:"meta,omitempty"`
}

// Status returns the wire status of the result.
func (r TestResult) Status() Status {
	return StatusOf(r.Passed)
}

// CaseTitle returns the title override when set, else the test name.
func (r TestResult) CaseTitle() string {
	if r.Meta.Title != "" {
		return r.Meta.Title
	}
	return r.Name
}

// Counts tallies results by status.
type Counts struct {
	Total  int `json:"total" msgpack:"total" yaml:"total"`
	Passed int `json:"passed" msgpack:"passed" yaml:"passed"`
	Failed int `json:"failed" msgpack:"failed" yaml:"failed"`
}

// CountResults tallies the given results.
func CountResults(results []TestResult) Counts {
	c := Counts{Total: len(results)}
	for _, r := range results {
		if r.Passed {
			c.Passed++
		} else {
			c.Failed++
		}
	}
	return c
}
