// Package batch chunks converter input files and submits one scheduler job
// per chunk.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/jet-batch/internal/config"
	"github.com/tendant/jet-batch/internal/process"
	"github.com/tendant/jet-batch/internal/scheduler"
	"github.com/tendant/jet-batch/pkg/schema"
)

const (
	DefaultOutputDir     = "./files"
	DefaultFilePrefix    = "PROCESSED"
	DefaultLogDir        = "./logs"
	DefaultQueue         = "medium"
	DefaultEventsSubject = "jets.batch.submitted"
)

// Config describes one submission run.
type Config struct {
	User          string
	Sites         config.Sites
	ChunkSize     int
	OutputDir     string
	FilePrefix    string
	LogDir        string
	Queue         string
	Script        ScriptOptions
	DryRun        bool
	SubmitTimeout time.Duration // 0 waits for the scheduler indefinitely
	EventsSubject string
}

// Validate checks the run configuration before anything touches disk.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk must be greater than zero (got %d)", c.ChunkSize)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output dir is required")
	}
	if c.LogDir == "" {
		return fmt.Errorf("log dir is required")
	}
	if c.Queue == "" {
		return fmt.Errorf("queue is required")
	}
	if c.SubmitTimeout < 0 {
		return fmt.Errorf("submit timeout must not be negative")
	}
	return nil
}

// Publisher receives submission events. *bus.Client satisfies it.
type Publisher interface {
	PublishJSON(subject string, v any) error
}

// Submitter runs the chunk-and-submit loop.
type Submitter struct {
	cfg    Config
	sched  scheduler.Scheduler
	logger *slog.Logger

	// Events is optional; nil disables event publishing.
	Events Publisher
	Now    func() time.Time
	NewID  func() string
}

func New(cfg Config, sched scheduler.Scheduler, logger *slog.Logger) *Submitter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FilePrefix == "" {
		cfg.FilePrefix = DefaultFilePrefix
	}
	if cfg.EventsSubject == "" {
		cfg.EventsSubject = DefaultEventsSubject
	}
	return &Submitter{
		cfg:    cfg,
		sched:  sched,
		logger: logger,
		Now:    time.Now,
		NewID:  uuid.NewString,
	}
}

// Report lists every job of a run.
type Report struct {
	Layout Layout
	Jobs   []*process.Job
}

func (r *Report) count(status process.JobStatus) int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == status {
			n++
		}
	}
	return n
}

func (r *Report) Submitted() int { return r.count(process.JobStatusSubmitted) }
func (r *Report) Failed() int    { return r.count(process.JobStatusFailed) }

// Run resolves the simulation directory, creates the run directories and
// submits one job per chunk of files, sequentially. A rejected submission
// does not stop the remaining chunks; all failures are joined into the
// returned error.
func (s *Submitter) Run(ctx context.Context, files []string) (*Report, error) {
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}

	s.logger.Info("determining output directories")
	simDir, err := s.cfg.Sites.SimulationDir(s.cfg.User)
	if err != nil {
		return nil, fmt.Errorf("resolve simulation dir: %w", err)
	}

	layout := NewLayout(s.NewID(), s.cfg.LogDir, s.cfg.OutputDir, s.Now())
	if err := layout.Create(); err != nil {
		return nil, err
	}
	runLogger := s.logger.With("run_id", layout.RunID)
	runLogger.Info("will write logs", "log_dir", layout.LogDir)
	runLogger.Info("will write samples", "output_dir", layout.OutputDir)

	chunks, err := Chunk(files, s.cfg.ChunkSize)
	if err != nil {
		return nil, err
	}
	total := len(chunks)
	runLogger.Info("generating jobs", "files", len(files), "chunk", s.cfg.ChunkSize, "jobs", total)

	report := &Report{Layout: layout, Jobs: make([]*process.Job, 0, total)}
	var errs []error

	for job, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Errorf("run interrupted before job %d: %w", job, err))
			break
		}

		j, err := s.submitChunk(ctx, runLogger, simDir, layout, job, total, chunk)
		report.Jobs = append(report.Jobs, j)
		if err != nil {
			errs = append(errs, err)
		}
	}

	s.publish(s.cfg.EventsSubject+".summary", schema.BatchSubmitted{
		RunID:          layout.RunID,
		User:           s.cfg.User,
		Timestamp:      layout.Timestamp,
		LogDir:         layout.LogDir,
		OutputDir:      layout.OutputDir,
		TotalFiles:     len(files),
		TotalJobs:      total,
		TotalSubmitted: report.Submitted(),
		TotalFailed:    report.Failed(),
		DryRun:         s.cfg.DryRun,
		HappenedAt:     s.Now().Unix(),
	})
	runLogger.Info("submission complete", "jobs", total, "submitted", report.Submitted(), "failed", report.Failed())

	return report, errors.Join(errs...)
}

func (s *Submitter) submitChunk(ctx context.Context, logger *slog.Logger, simDir string, layout Layout, job, total int, files []string) (*process.Job, error) {
	name := JobName(job, total)
	jobLogger := logger.With("job", name)
	jobLogger.Info("launching job", "number", job+1, "of", total)

	desc := Descriptor{
		Dump:  layout.DumpPath(s.cfg.FilePrefix, job),
		Chunk: s.cfg.ChunkSize,
		Files: files,
	}
	req := scheduler.Request{
		Name:    name,
		Queue:   s.cfg.Queue,
		LogPath: layout.LogFile(job),
	}
	j := process.NewJob(job, name, desc)

	event := schema.JobSubmitted{
		RunID:     layout.RunID,
		Job:       job,
		TotalJobs: total,
		Name:      name,
		Scheduler: s.sched.Name(),
		Queue:     req.Queue,
		LogPath:   req.LogPath,
		Dump:      desc.Dump,
		Files:     files,
	}

	jobLogger.Info("job log", "log_file", req.LogPath)
	jobLogger.Info("job output", "output", desc.Dump)

	script, err := GenerateScript(simDir, desc, s.cfg.Script)
	if err != nil {
		process.MarkFailed(j, err)
		return j, fmt.Errorf("job %s: %w", name, err)
	}
	jobLogger.Info("call", "cmd", s.sched.CommandLine(req))
	jobLogger.Debug("job script", "script", script)

	if s.cfg.DryRun {
		process.MarkSkipped(j)
		event.Status = schema.StatusSkipped
		event.HappenedAt = s.Now().Unix()
		s.publish(s.cfg.EventsSubject, event)
		jobLogger.Info("dry run, not submitted")
		return j, nil
	}

	submitCtx := ctx
	if s.cfg.SubmitTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, s.cfg.SubmitTimeout)
		defer cancel()
	}

	sub, err := s.sched.Submit(submitCtx, req, script)
	event.HappenedAt = s.Now().Unix()
	if err != nil {
		process.MarkFailed(j, err)
		event.Status = schema.StatusFailed
		event.Error = err.Error()
		event.ExitCode, event.FailureType = classifyError(err)
		s.publish(s.cfg.EventsSubject, event)
		jobLogger.Error("submission failed", "exit_code", event.ExitCode, "err", err)
		return j, err
	}

	process.MarkSubmitted(j, sub.JobID)
	event.Status = schema.StatusSubmitted
	event.SchedulerID = sub.JobID
	s.publish(s.cfg.EventsSubject, event)
	jobLogger.Info("success", "scheduler_id", sub.JobID)
	return j, nil
}

func classifyError(err error) (int, schema.FailureType) {
	var subErr *scheduler.SubmitError
	if errors.As(err, &subErr) && subErr.ExitCode >= 0 {
		return subErr.ExitCode, schema.FailureTypeRejected
	}
	return -1, schema.FailureTypeUnavailable
}

func (s *Submitter) publish(subject string, v any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.PublishJSON(subject, v); err != nil {
		s.logger.Warn("publish event failed", "subject", subject, "err", err)
	}
}
