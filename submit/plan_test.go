package submit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pithecene-io/qasereport/config"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		n      int
		want   []Step
	}{
		{"empty", nil, 0, nil},
		{"empty report mode", func(c *config.Config) { c.Mode = config.ModeReport }, 0, nil},
		{"default", nil, 1, []Step{StepStarting, StepSubmitting, StepCompleting}},
		{"existing run", func(c *config.Config) { c.RunID = 99 }, 2, []Step{StepSubmitting, StepCompleting}},
		{"no complete", func(c *config.Config) { c.RunComplete = false }, 1, []Step{StepStarting, StepSubmitting}},
		{"existing run no complete", func(c *config.Config) { c.RunID = 5; c.RunComplete = false }, 1, []Step{StepSubmitting}},
		{"empty mode", func(c *config.Config) { c.Mode = "" }, 1, []Step{StepStarting, StepSubmitting, StepCompleting}},
		{"report mode", func(c *config.Config) { c.Mode = config.ModeReport; c.RunID = 5 }, 3, []Step{StepWritingReport}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Defaults()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}
			assert.Equal(t, tt.want, Plan(cfg, tt.n))
		})
	}
}
