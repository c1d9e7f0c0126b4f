package process

import (
	"errors"
	"testing"
)

func TestNewJobCapturesInput(t *testing.T) {
	payload := []string{"a.root", "b.root"}
	job := NewJob(0, "j1of2", payload)

	if job.Index != 0 || job.Name != "j1of2" {
		t.Fatalf("unexpected job identity: %+v", job)
	}
	if job.Status != JobStatusPending {
		t.Fatalf("new job not pending: %v", job.Status)
	}

	got, ok := job.Input.([]string)
	if !ok {
		t.Fatalf("job input type mismatch: %#v", job.Input)
	}
	if len(got) != 2 || got[1] != "b.root" {
		t.Fatalf("job input not preserved: %#v", got)
	}
}

func TestMarkSubmittedRecordsSchedulerID(t *testing.T) {
	job := NewJob(1, "j2of2", nil)
	MarkSubmitted(job, "4242")

	if job.Status != JobStatusSubmitted || job.SchedulerID != "4242" {
		t.Fatalf("unexpected job after submit: %+v", job)
	}
}

func TestMarkFailedSetsStatusAndError(t *testing.T) {
	job := NewJob(2, "j3of3", nil)
	MarkFailed(job, errors.New("boom"))

	if job.Status != JobStatusFailed {
		t.Fatalf("job status not failed: %v", job.Status)
	}
	if job.Error == "" {
		t.Fatal("job error not recorded")
	}
}

func TestMarkFailedDoesNotOverwriteErrorWhenNil(t *testing.T) {
	job := NewJob(3, "j4of4", nil)
	MarkFailed(job, nil)

	if job.Status != JobStatusFailed {
		t.Fatalf("job status not failed: %v", job.Status)
	}
	if job.Error != "" {
		t.Fatalf("expected empty error string, got %q", job.Error)
	}
}

func TestMarkSkipped(t *testing.T) {
	job := NewJob(0, "j1of1", nil)
	MarkSkipped(job)

	if job.Status != JobStatusSkipped {
		t.Fatalf("job status not skipped: %v", job.Status)
	}
}
