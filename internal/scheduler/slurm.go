package scheduler

import (
	"context"
	"fmt"
	"strings"
)

// Slurm submits jobs with sbatch. sbatch reads the batch script from stdin
// when no script file is given.
type Slurm struct {
	// Binary is the submission command, "sbatch" unless overridden
	Binary string
}

// NewSlurm creates a new sbatch-based scheduler
func NewSlurm() *Slurm {
	return &Slurm{Binary: "sbatch"}
}

// Name returns the scheduler name
func (s *Slurm) Name() string {
	return "slurm"
}

// CommandLine returns the sbatch invocation for req
func (s *Slurm) CommandLine(req Request) string {
	return fmt.Sprintf(`sbatch -J "%s" -o %s -p %s`, req.Name, req.LogPath, req.Queue)
}

// Args returns the sbatch arguments for req
func (s *Slurm) Args(req Request) []string {
	return []string{
		"-J", req.Name,
		"-o", req.LogPath,
		"-p", req.Queue,
	}
}

// Submit pipes script into sbatch.
// Output looks like "Submitted batch job 49229449".
func (s *Slurm) Submit(ctx context.Context, req Request, script string) (*Submission, error) {
	binary := s.Binary
	if binary == "" {
		binary = "sbatch"
	}

	out, err := run(ctx, s.Name(), binary, s.Args(req), req, withShebang(script))
	if err != nil {
		return nil, err
	}

	sub := &Submission{Output: out}
	fields := strings.Fields(out)
	for i := 0; i+3 < len(fields); i++ {
		if fields[i] == "Submitted" && fields[i+1] == "batch" && fields[i+2] == "job" {
			sub.JobID = fields[i+3]
			break
		}
	}
	return sub, nil
}

// sbatch rejects scripts that do not start with an interpreter line.
func withShebang(script string) string {
	if strings.HasPrefix(script, "#!") {
		return script
	}
	return "#!/bin/bash\n" + script
}
