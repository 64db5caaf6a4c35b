// Package report maps collected results into the bulk-submit wire payload
// and into the local report written in report mode.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/pithecene-io/qasereport/types"
)

// Reserved case attributes. Custom fields with these keys are dropped so
// they cannot mask the title or the case link.
const (
	keyTitle  = "title"
	keyCaseID = "case_id"
)

// Case is the remote case object of one result: title, optional case_id and
// every custom field as a top-level attribute.
type Case map[string]any

// Entry is one element of the bulk-submit payload.
type Entry struct {
	Case   Case         `json:"case"`
	Status types.Status `json:"status"`
}

// Payload is the bulk-submit request body.
type Payload struct {
	Results []Entry `json:"results"`
}

// Serialize maps results to the wire payload, preserving their order.
// It is a pure function of its input.
func Serialize(results []types.TestResult) Payload {
	entries := make([]Entry, 0, len(results))
	for _, r := range results {
		entries = append(entries, Entry{
			Case:   buildCase(r),
			Status: r.Status(),
		})
	}
	return Payload{Results: entries}
}

func buildCase(r types.TestResult) Case {
	c := make(Case, len(r.Meta.Fields)+2)
	for k, v := range r.Meta.Fields {
		if k == keyTitle || k == keyCaseID {
			continue
		}
		c[k] = v
	}
	c[keyTitle] = r.CaseTitle()
	if r.Meta.CaseID > 0 {
		c[keyCaseID] = r.Meta.CaseID
	}
	return c
}

// JSON encodes the payload. Map keys are emitted in sorted order, so equal
// inputs produce equal bytes.
func (p Payload) JSON() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return data, nil
}
