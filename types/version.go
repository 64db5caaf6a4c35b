package types

// Version is the canonical project version.
// The CLI, the local report format and notification events share it.
const Version = "0.3.0"

// ReportFormatVersion is stamped into local reports and notification events.
// It tracks Version in lockstep.
const ReportFormatVersion = Version
