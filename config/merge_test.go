package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_OverridesStrings(t *testing.T) {
	base := Config{Token: "base_token", Project: "base_project", Host: "base_host"}
	incoming := Config{Token: "override_token", Host: "override_host"}

	merged := Merge(base, incoming)

	assert.Equal(t, "override_token", merged.Token)
	assert.Equal(t, "override_host", merged.Host)
	assert.Equal(t, "base_project", merged.Project)

	assert.Equal(t, "base_token", base.Token)
	assert.Equal(t, "base_host", base.Host)
	assert.Equal(t, "base_project", base.Project)
}

func TestMerge_NumbersOverrideOnlyWhenPositive(t *testing.T) {
	base := Config{RunID: 7, PlanID: 3, BatchSize: 200}

	merged := Merge(base, Config{RunID: 0, PlanID: -5, BatchSize: 50})

	assert.Equal(t, int64(7), merged.RunID)
	assert.Equal(t, int64(3), merged.PlanID)
	assert.Equal(t, 50, merged.BatchSize)

	assert.Equal(t, int64(99), Merge(base, Config{RunID: 99}).RunID)
}

func TestMerge_FalseNeverClearsTrue(t *testing.T) {
	base := Config{RunComplete: true, Debug: true, CaptureLogs: true, Enterprise: true, Defect: true}

	merged := Merge(base, Config{})

	assert.True(t, merged.RunComplete)
	assert.True(t, merged.Debug)
	assert.True(t, merged.CaptureLogs)
	assert.True(t, merged.Enterprise)
	assert.True(t, merged.Defect)
}

func TestMerge_TrueSetsFalse(t *testing.T) {
	merged := Merge(Config{}, Config{RunComplete: true, Debug: true})
	assert.True(t, merged.RunComplete)
	assert.True(t, merged.Debug)
	assert.False(t, merged.CaptureLogs)
}

func TestMerge_AllStringFields(t *testing.T) {
	incoming := Config{
		Mode:           ModeReport,
		Fallback:       "report",
		Environment:    "staging",
		RootSuite:      "Backend",
		ReportDriver:   DriverS3,
		ReportPath:     "bucket/prefix",
		ReportFormat:   FormatMsgpack,
		RunTitle:       "Nightly",
		RunDescription: "nightly regression",
		Notify:         NotifyConfig{Type: "redis", URL: "redis://localhost:6379", Channel: "runs"},
	}

	merged := Merge(Defaults(), incoming)

	assert.Equal(t, ModeReport, merged.Mode)
	assert.Equal(t, "report", merged.Fallback)
	assert.Equal(t, "staging", merged.Environment)
	assert.Equal(t, "Backend", merged.RootSuite)
	assert.Equal(t, DriverS3, merged.ReportDriver)
	assert.Equal(t, "bucket/prefix", merged.ReportPath)
	assert.Equal(t, FormatMsgpack, merged.ReportFormat)
	assert.Equal(t, "Nightly", merged.RunTitle)
	assert.Equal(t, "nightly regression", merged.RunDescription)
	assert.Equal(t, incoming.Notify, merged.Notify)
}

func TestMerge_EmptyIncomingIsIdentity(t *testing.T) {
	base := Defaults()
	base.Token = "t"
	assert.Equal(t, base, Merge(base, Config{}))
}
