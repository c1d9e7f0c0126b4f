// Package scheduler provides interfaces and implementations for handing
// generated job scripts to a cluster batch system (LSF, Slurm).
package scheduler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// waitDelay bounds how long a cancelled submission may keep its output
// pipes open through leftover child processes.
const waitDelay = 2 * time.Second

// Scheduler defines the interface for submitting one job script.
type Scheduler interface {
	// Name returns the scheduler name (e.g., "lsf", "slurm")
	Name() string

	// CommandLine returns the submission command as a human-readable string
	CommandLine(req Request) string

	// Submit runs the submission command and feeds it script on stdin.
	// It returns once the scheduler accepted (or rejected) the job, not
	// when the job finishes.
	Submit(ctx context.Context, req Request, script string) (*Submission, error)
}

// Request describes one job submission
type Request struct {
	Name    string // Job name shown by the scheduler
	Queue   string // Queue (LSF) or partition (Slurm)
	LogPath string // File receiving the job's stdout and stderr
}

// Submission is the scheduler's answer to an accepted job
type Submission struct {
	JobID  string // Scheduler job ID, empty if it could not be parsed
	Output string // Combined stdout/stderr of the submission command
}

// SubmitError reports a submission the scheduler did not accept.
type SubmitError struct {
	Scheduler string
	Job       string
	ExitCode  int // -1 when the command could not be started
	Output    string
	Err       error
}

func (e *SubmitError) Error() string {
	msg := fmt.Sprintf("%s submission of %s failed (exit %d): %v", e.Scheduler, e.Job, e.ExitCode, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\nOutput: " + out
	}
	return msg
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Get returns the scheduler registered under name.
func Get(name string) (Scheduler, error) {
	switch strings.ToLower(name) {
	case "lsf", "bsub":
		return NewLSF(), nil
	case "slurm", "sbatch":
		return NewSlurm(), nil
	default:
		return nil, fmt.Errorf("unsupported scheduler: %s (supported: %s)", name, strings.Join(Supported(), ", "))
	}
}

// Supported returns the names accepted by Get
func Supported() []string {
	return []string{"lsf", "slurm"}
}

// run executes binary with args, pipes script into stdin and collects the
// combined output.
func run(ctx context.Context, scheduler, binary string, args []string, req Request, script string) (string, error) {
	if _, err := exec.LookPath(binary); err != nil {
		return "", &SubmitError{Scheduler: scheduler, Job: req.Name, ExitCode: -1, Err: fmt.Errorf("%s not found in PATH: %w", binary, err)}
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(script)
	cmd.WaitDelay = waitDelay
	killProcessGroup(cmd)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		return out.String(), &SubmitError{Scheduler: scheduler, Job: req.Name, ExitCode: code, Output: out.String(), Err: err}
	}
	return out.String(), nil
}
