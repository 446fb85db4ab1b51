package logging

// Shared attribute keys so log output stays greppable across components.
const (
	FieldComponent = "component"
	FieldJobID     = "job_id"
	FieldSource    = "source"
	FieldCommand   = "command"
	FieldExitCode  = "exit_code"
	FieldOutcome   = "outcome"
	FieldLogPath   = "log_path"
)
