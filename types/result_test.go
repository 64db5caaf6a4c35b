package types //nolint:revive // types is a valid package name

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, StatusPassed, StatusOf(true))
	assert.Equal(t, StatusFailed, StatusOf(false))
}

func TestCaseTitle_PrefersOverride(t *testing.T) {
	r := TestResult{Name: "TestLogin", Meta: ResultMeta{Title: "User can log in"}}
	assert.Equal(t, "User can log in", r.CaseTitle())

	r.Meta.Title = ""
	assert.Equal(t, "TestLogin", r.CaseTitle())
}

func TestResultMeta_CloneIsolatesFields(t *testing.T) {
	orig := ResultMeta{CaseID: 7, Fields: map[string]string{"layer": "unit"}}
	clone := orig.Clone()
	orig.Fields["layer"] = "e2e"

	assert.Equal(t, "unit", clone.Fields["layer"])
	assert.Equal(t, int64(7), clone.CaseID)
}

func TestResultMeta_CloneNilFields(t *testing.T) {
	assert.Nil(t, ResultMeta{}.Clone().Fields)
}

func TestCountResults(t *testing.T) {
	c := CountResults([]TestResult{
		{Name: "a", Passed: true},
		{Name: "b", Passed: false},
		{Name: "c", Passed: true},
	})
	assert.Equal(t, Counts{Total: 3, Passed: 2, Failed: 1}, c)
	assert.Equal(t, Counts{}, CountResults(nil))
}
