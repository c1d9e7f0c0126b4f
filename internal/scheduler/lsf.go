package scheduler

import (
	"context"
	"fmt"
	"regexp"
)

// LSF submits jobs with IBM Spectrum LSF's bsub
type LSF struct {
	// Binary is the submission command, "bsub" unless overridden
	Binary string
}

// NewLSF creates a new bsub-based scheduler
func NewLSF() *LSF {
	return &LSF{Binary: "bsub"}
}

var lsfJobID = regexp.MustCompile(`Job <(\d+)>`)

// Name returns the scheduler name
func (l *LSF) Name() string {
	return "lsf"
}

// InvokeBsub returns the bsub command line for a named job whose output
// and error streams go to log on queue. bsub then waits for the job script
// on stdin.
func InvokeBsub(name, queue, log string) string {
	return fmt.Sprintf(`bsub -J "%s" -o %s -q %s`, name, log, queue)
}

// CommandLine returns the bsub invocation for req
func (l *LSF) CommandLine(req Request) string {
	return InvokeBsub(req.Name, req.Queue, req.LogPath)
}

// Args returns the bsub arguments for req
// -J: Job name
// -o: Output file (stderr is appended when -e is absent)
// -q: Queue
func (l *LSF) Args(req Request) []string {
	return []string{
		"-J", req.Name,
		"-o", req.LogPath,
		"-q", req.Queue,
	}
}

// Submit pipes script into bsub.
// On success bsub prints "Job <123> is submitted to queue <medium>."
func (l *LSF) Submit(ctx context.Context, req Request, script string) (*Submission, error) {
	out, err := run(ctx, l.Name(), l.binary(), l.Args(req), req, script)
	if err != nil {
		return nil, err
	}

	sub := &Submission{Output: out}
	if m := lsfJobID.FindStringSubmatch(out); m != nil {
		sub.JobID = m[1]
	}
	return sub, nil
}

func (l *LSF) binary() string {
	if l.Binary == "" {
		return "bsub"
	}
	return l.Binary
}
