package submit

import "github.com/pithecene-io/qasereport/config"

// Step is one state of the submission state machine.
type Step string

const (
	// StepStarting creates a remote run.
	StepStarting Step = "starting"
	// StepSubmitting bulk-uploads the serialized results.
	StepSubmitting Step = "submitting"
	// StepCompleting closes the remote run.
	StepCompleting Step = "completing"
	// StepWritingReport stores a local report.
	StepWritingReport Step = "writing_report"
)

// Plan returns the ordered steps Submit will take for n results under cfg.
// The machine is linear: each step runs at most once and Done follows the
// last step.
//
//	n == 0                 no steps
//	mode report            WritingReport
//	otherwise              Starting (unless cfg.RunID > 0)
//	                       Submitting
//	                       Completing (unless !cfg.RunComplete)
func Plan(cfg config.Config, n int) []Step {
	if n == 0 {
		return nil
	}
	if cfg.Mode == config.ModeReport {
		return []Step{StepWritingReport}
	}

	steps := make([]Step, 0, 3)
	if cfg.RunID <= 0 {
		steps = append(steps, StepStarting)
	}
	steps = append(steps, StepSubmitting)
	if cfg.RunComplete {
		steps = append(steps, StepCompleting)
	}
	return steps
}
