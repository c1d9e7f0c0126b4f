// internal/process/adapter.go
package process

// JobStatus represents the lifecycle state of a submitted chunk.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusSubmitted JobStatus = "submitted"
	JobStatusFailed    JobStatus = "failed"
	JobStatusSkipped   JobStatus = "skipped"
)

// Job captures what the submitter tracks for one chunk.
type Job struct {
	Index       int
	Name        string
	Input       any
	Status      JobStatus
	SchedulerID string
	Error       string
}

func NewJob(index int, name string, input any) *Job {
	return &Job{
		Index:  index,
		Name:   name,
		Input:  input,
		Status: JobStatusPending,
	}
}

func MarkSubmitted(j *Job, schedulerID string) {
	j.Status = JobStatusSubmitted
	j.SchedulerID = schedulerID
}

func MarkSkipped(j *Job) { j.Status = JobStatusSkipped }

func MarkFailed(j *Job, err error) {
	j.Status = JobStatusFailed
	if err != nil {
		j.Error = err.Error()
	}
}
