package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_ReadsExpectedFields(t *testing.T) {
	t.Setenv("QASE_TOKEN", "token_from_env")
	t.Setenv("QASE_HOST", "host_from_env")
	t.Setenv("QASE_PROJECT", "project_from_env")

	cfg, err := LoadEnv("QASE_")
	require.NoError(t, err)

	assert.Equal(t, "token_from_env", cfg.Token)
	assert.Equal(t, "host_from_env", cfg.Host)
	assert.Equal(t, "project_from_env", cfg.Project)
	assert.False(t, cfg.RunComplete)
}

func TestLoadEnv_RunCompleteIsCaseSensitive(t *testing.T) {
	for value, want := range map[string]bool{
		"true":  true,
		"TRUE":  false,
		"True":  false,
		"1":     false,
		"false": false,
	} {
		t.Run(value, func(t *testing.T) {
			t.Setenv("QASE_RUN_COMPLETE", value)
			cfg, err := LoadEnv("QASE_")
			require.NoError(t, err)
			assert.Equal(t, want, cfg.RunComplete)
		})
	}
}

func TestLoadEnv_AbsentVariablesLeaveZeroValues(t *testing.T) {
	cfg, err := LoadEnv("QASE_TEST_NOTHING_SET_")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadEnv_ExtendedVariables(t *testing.T) {
	t.Setenv("QR_MODE", "report")
	t.Setenv("QR_ENVIRONMENT", "ci")
	t.Setenv("QR_RUN_ID", "99")
	t.Setenv("QR_RUN_TITLE", "From env")
	t.Setenv("QR_RUN_DESCRIPTION", "described")
	t.Setenv("QR_PLAN_ID", "12")
	t.Setenv("QR_DEBUG", "true")

	cfg, err := LoadEnv("QR_")
	require.NoError(t, err)

	assert.Equal(t, ModeReport, cfg.Mode)
	assert.Equal(t, "ci", cfg.Environment)
	assert.Equal(t, int64(99), cfg.RunID)
	assert.Equal(t, "From env", cfg.RunTitle)
	assert.Equal(t, "described", cfg.RunDescription)
	assert.Equal(t, int64(12), cfg.PlanID)
	assert.True(t, cfg.Debug)
}

func TestLoadEnv_InvalidRunID(t *testing.T) {
	t.Setenv("QR_RUN_ID", "forty-two")
	_, err := LoadEnv("QR_")
	require.ErrorIs(t, err, ErrParse)
	assert.Contains(t, err.Error(), "QR_RUN_ID")
}
