// Package gotest ingests `go test -json` output into a result collector.
//
// Each test that reaches a pass or fail action becomes one result, in the
// order the terminal events appear. Skipped tests are counted but not
// recorded. A package that fails without any failing test (a build or
// setup failure) produces no result and is reported in Stats.BuildFailures.
package gotest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pithecene-io/qasereport/collector"
	"github.com/pithecene-io/qasereport/types"
)

// Actions emitted by test2json that end a test.
const (
	ActionPass = "pass"
	ActionFail = "fail"
	ActionSkip = "skip"
)

// FieldSuite is the meta field that carries the Go package path.
const FieldSuite = "suite"

// TestEvent is a single event from go test -json output.
type TestEvent struct {
	Time    time.Time `json:"Time"`
	Action  string    `json:"Action"`
	Package string    `json:"Package"`
	Test    string    `json:"Test"`
	Elapsed float64   `json:"Elapsed"`
	Output  string    `json:"Output"`
}

// Stats summarizes an ingested stream.
type Stats struct {
	Passed    int `json:"passed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
	Malformed int `json:"malformed"`
	// BuildFailures lists packages that failed without a failing test.
	BuildFailures []string `json:"build_failures,omitempty"`
}

// Options tunes ingestion.
type Options struct {
	// QualifyNames prefixes each test name with its package path.
	QualifyNames bool
	// SkipSubtests drops results whose name contains a "/".
	SkipSubtests bool
}

// Ingest reads NDJSON events from r and adds one result per finished test
// to c. Lines that are not valid JSON are counted and skipped.
func Ingest(r io.Reader, c *collector.Collector, opts Options) (Stats, error) {
	var stats Stats
	testFailed := make(map[string]bool)
	var pkgFailed []string

	scanner := bufio.NewScanner(r)
	// Allow large lines for verbose test output
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var e TestEvent
		if err := json.Unmarshal(line, &e); err != nil {
			stats.Malformed++
			continue
		}
		if e.Test == "" {
			if e.Action == ActionFail && !slices.Contains(pkgFailed, e.Package) {
				pkgFailed = append(pkgFailed, e.Package)
			}
			continue
		}
		if e.Action == ActionFail {
			testFailed[e.Package] = true
		}
		if opts.SkipSubtests && isSubtest(e.Test) {
			continue
		}

		switch e.Action {
		case ActionPass, ActionFail:
			passed := e.Action == ActionPass
			if err := c.Add(resultName(e, opts), passed, meta(e)); err != nil {
				return stats, err
			}
			if passed {
				stats.Passed++
			} else {
				stats.Failed++
			}
		case ActionSkip:
			stats.Skipped++
		}
	}
	for _, pkg := range pkgFailed {
		if !testFailed[pkg] {
			stats.BuildFailures = append(stats.BuildFailures, pkg)
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("scanning test output: %w", err)
	}
	return stats, nil
}

func resultName(e TestEvent, opts Options) string {
	if opts.QualifyNames && e.Package != "" {
		return e.Package + "." + e.Test
	}
	return e.Test
}

func meta(e TestEvent) types.ResultMeta {
	if e.Package == "" {
		return types.ResultMeta{}
	}
	return types.ResultMeta{Fields: map[string]string{FieldSuite: e.Package}}
}

func isSubtest(name string) bool {
	return strings.Contains(name, "/")
}
