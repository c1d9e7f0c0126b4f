// pkg/schema/events.go
package schema

type SubmissionStatus string

const (
	StatusSubmitted SubmissionStatus = "submitted"
	StatusFailed    SubmissionStatus = "failed"
	StatusSkipped   SubmissionStatus = "skipped"
)

type FailureType string

const (
	FailureTypeRejected    FailureType = "rejected"
	FailureTypeUnavailable FailureType = "unavailable"
)

type JobSubmitted struct {
	RunID       string           `json:"run_id"`
	Job         int              `json:"job"`
	TotalJobs   int              `json:"total_jobs"`
	Name        string           `json:"name"`
	Scheduler   string           `json:"scheduler"`
	Queue       string           `json:"queue"`
	SchedulerID string           `json:"scheduler_id,omitempty"`
	LogPath     string           `json:"log_path"`
	Dump        string           `json:"dump"`
	Files       []string         `json:"files"`
	Status      SubmissionStatus `json:"status"`
	ExitCode    int              `json:"exit_code,omitempty"`
	Error       string           `json:"error,omitempty"`
	FailureType FailureType      `json:"failure_type,omitempty"`
	HappenedAt  int64            `json:"happened_at"`
}

type BatchSubmitted struct {
	RunID          string `json:"run_id"`
	User           string `json:"user"`
	Timestamp      string `json:"timestamp"`
	LogDir         string `json:"log_dir"`
	OutputDir      string `json:"output_dir"`
	TotalFiles     int    `json:"total_files"`
	TotalJobs      int    `json:"total_jobs"`
	TotalSubmitted int    `json:"total_submitted"`
	TotalFailed    int    `json:"total_failed"`
	DryRun         bool   `json:"dry_run,omitempty"`
	HappenedAt     int64  `json:"happened_at"`
}
