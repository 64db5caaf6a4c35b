package config

// Merge folds incoming over base and returns the result. base is not
// modified.
//
// Strings override only when non-empty and numbers only when positive.
// Booleans override only when incoming is true, so a false in a later layer
// never clears a flag set by an earlier one.
func Merge(base, incoming Config) Config {
	out := base

	overrideString(&out.Token, incoming.Token)
	overrideString(&out.Host, incoming.Host)
	overrideString(&out.Project, incoming.Project)
	overrideBool(&out.RunComplete, incoming.RunComplete)
	overrideString(&out.Mode, incoming.Mode)
	overrideString(&out.Fallback, incoming.Fallback)
	overrideString(&out.Environment, incoming.Environment)
	overrideString(&out.RootSuite, incoming.RootSuite)
	overrideBool(&out.Debug, incoming.Debug)
	overrideBool(&out.CaptureLogs, incoming.CaptureLogs)
	overrideString(&out.ReportDriver, incoming.ReportDriver)
	overrideString(&out.ReportPath, incoming.ReportPath)
	overrideString(&out.ReportFormat, incoming.ReportFormat)
	overrideString(&out.ReportRegion, incoming.ReportRegion)
	overrideString(&out.ReportEndpoint, incoming.ReportEndpoint)
	overrideBool(&out.ReportPathStyle, incoming.ReportPathStyle)
	overrideBool(&out.Enterprise, incoming.Enterprise)
	overridePositive(&out.RunID, incoming.RunID)
	overrideString(&out.RunTitle, incoming.RunTitle)
	overrideString(&out.RunDescription, incoming.RunDescription)
	overridePositive(&out.PlanID, incoming.PlanID)
	overridePositive(&out.BatchSize, incoming.BatchSize)
	overrideBool(&out.Defect, incoming.Defect)

	overrideString(&out.Notify.Type, incoming.Notify.Type)
	overrideString(&out.Notify.URL, incoming.Notify.URL)
	overrideString(&out.Notify.Channel, incoming.Notify.Channel)

	return out
}

func overrideString[S ~string](dst *S, v S) {
	if v != "" {
		*dst = v
	}
}

func overridePositive[N ~int | ~int64](dst *N, v N) {
	if v > 0 {
		*dst = v
	}
}

// TODO(product): confirm whether flags are meant to be sticky-on. Until then
// false never overrides true.
func overrideBool(dst *bool, v bool) {
	if v {
		*dst = true
	}
}
