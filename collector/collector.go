// Package collector records test outcomes in insertion order until a run
// is submitted.
//
// A Collector is an explicit instance owned by the test-run context. Default
// is a process-wide instance for host hooks that cannot thread one through;
// callers sharing Default across logical runs must Reset between them.
package collector

import (
	"errors"
	"sync"

	"github.com/pithecene-io/qasereport/types"
)

// ErrInvalidResultName is returned by Add when the test name is empty.
var ErrInvalidResultName = errors.New("invalid argument: test result name must not be empty")

// Default is the process-wide collector. Hooks that only see individual
// tests Add to it; the run-end hook passes it to
// submit.Orchestrator.SubmitCollected and then calls Reset.
var Default = New()

// Collector is an ordered store of recorded test outcomes.
// All methods are nil-receiver safe and guarded by a mutex.
type Collector struct {
	mu      sync.Mutex
	results []types.TestResult
}

// New creates an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add appends a result. At most one meta value is used; extra values are
// ignored. The meta fields map is copied so the stored result is immutable.
func (c *Collector) Add(name string, passed bool, meta ...types.ResultMeta) error {
	if name == "" {
		return ErrInvalidResultName
	}
	if c == nil {
		return errors.New("collector is nil")
	}

	r := types.TestResult{Name: name, Passed: passed}
	if len(meta) > 0 {
		r.Meta = meta[0].Clone()
	}

	c.mu.Lock()
	c.results = append(c.results, r)
	c.mu.Unlock()
	return nil
}

// Results returns the recorded results in insertion order.
// The returned slice is a copy.
func (c *Collector) Results() []types.TestResult {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]types.TestResult, len(c.results))
	for i, r := range c.results {
		r.Meta = r.Meta.Clone()
		out[i] = r
	}
	return out
}

// Len returns the number of recorded results.
func (c *Collector) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

// Reset drops every recorded result.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.results = nil
	c.mu.Unlock()
}
