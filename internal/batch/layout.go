package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TimestampLayout formats the run directory name, e.g. "Mar14-153045".
const TimestampLayout = "Jan02-150405"

// Layout is the directory structure of one submission run. Log and output
// directories share the timestamp token taken at startup.
type Layout struct {
	RunID     string
	Timestamp string
	LogDir    string
	OutputDir string
}

func NewLayout(runID, logRoot, outputRoot string, now time.Time) Layout {
	ts := now.Format(TimestampLayout)
	return Layout{
		RunID:     runID,
		Timestamp: ts,
		LogDir:    filepath.Join(logRoot, ts),
		OutputDir: filepath.Join(outputRoot, ts),
	}
}

// Create makes the log and output directories. Existing directories are
// not an error.
func (l Layout) Create() error {
	if err := os.MkdirAll(l.LogDir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	if err := os.MkdirAll(l.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// LogFile returns the scheduler log path of job.
func (l Layout) LogFile(job int) string {
	return filepath.Join(l.LogDir, fmt.Sprintf("log_job_%d.log", job))
}

// OutputName returns the output file name of job. The job index keeps
// concurrent jobs of one run from writing the same file.
func (l Layout) OutputName(prefix string, job int) string {
	return fmt.Sprintf("%s_timestamp%s_job%d", prefix, l.Timestamp, job)
}

// DumpPath returns the output path prefix passed to the converter.
func (l Layout) DumpPath(prefix string, job int) string {
	return filepath.Join(l.OutputDir, l.OutputName(prefix, job))
}

// JobName returns the scheduler job name, 1-based: "j1of3".
func JobName(job, total int) string {
	return fmt.Sprintf("j%dof%d", job+1, total)
}
