// cmd/batch-submit/main.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli"

	"github.com/tendant/jet-batch/internal/batch"
	"github.com/tendant/jet-batch/internal/bus"
	"github.com/tendant/jet-batch/internal/config"
	"github.com/tendant/jet-batch/internal/scheduler"
)

type settings struct {
	Batch     batch.Config
	Scheduler string
	SitesFile string
	NATSURL   string
	Verbose   bool
	Files     []string
}

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := newApp(submit).Run(os.Args); err != nil {
		fatal(logger, "batch submission failed", err)
	}
}

func newApp(run func(settings) error) *cli.App {
	app := cli.NewApp()
	app.Name = "batch-submit"
	app.Usage = "submit jet conversion jobs to the batch scheduler, one job per chunk of files"
	app.ArgsUsage = "FILE..."
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:   "chunk",
			Usage:  "number of files per job",
			EnvVar: "BATCH_CHUNK",
		},
		cli.StringFlag{
			Name:   "output-dir",
			Value:  batch.DefaultOutputDir,
			Usage:  "directory for processed samples",
			EnvVar: "BATCH_OUTPUT_DIR",
		},
		cli.StringFlag{
			Name:   "file-prefix",
			Value:  batch.DefaultFilePrefix,
			Usage:  "prefix of the output sample names",
			EnvVar: "BATCH_FILE_PREFIX",
		},
		cli.StringFlag{
			Name:   "log-dir",
			Value:  batch.DefaultLogDir,
			Usage:  "directory for scheduler logs",
			EnvVar: "BATCH_LOG_DIR",
		},
		cli.StringFlag{
			Name:   "queue",
			Value:  batch.DefaultQueue,
			Usage:  "scheduler queue (partition for slurm)",
			EnvVar: "BATCH_QUEUE",
		},
		cli.StringFlag{
			Name:   "scheduler",
			Value:  "lsf",
			Usage:  fmt.Sprintf("batch system, one of %v", scheduler.Supported()),
			EnvVar: "BATCH_SCHEDULER",
		},
		cli.StringFlag{
			Name:   "user",
			Usage:  "user whose simulation directory runs the converter (default: current user)",
			EnvVar: "USER",
		},
		cli.StringFlag{
			Name:   "sites",
			Usage:  "YAML `FILE` mapping users to simulation directories",
			EnvVar: "BATCH_SITES_FILE",
		},
		cli.StringFlag{
			Name:   "setup-script",
			Value:  batch.DefaultSetupScript,
			Usage:  "script sourced before the converter runs",
			EnvVar: "BATCH_SETUP_SCRIPT",
		},
		cli.StringFlag{
			Name:   "converter",
			Value:  batch.DefaultConverter,
			Usage:  "converter executable relative to the simulation directory",
			EnvVar: "BATCH_CONVERTER",
		},
		cli.BoolFlag{
			Name:   "dry-run",
			Usage:  "log scripts and commands without submitting",
			EnvVar: "BATCH_DRY_RUN",
		},
		cli.DurationFlag{
			Name:   "submit-timeout",
			Usage:  "abort a single submission after this long (0 waits forever)",
			EnvVar: "BATCH_SUBMIT_TIMEOUT",
		},
		cli.StringFlag{
			Name:   "nats-url",
			Usage:  "NATS server for submission events (empty disables events)",
			EnvVar: "NATS_URL",
		},
		cli.StringFlag{
			Name:   "events-subject",
			Value:  batch.DefaultEventsSubject,
			Usage:  "subject of job events; the run summary goes to <subject>.summary",
			EnvVar: "BATCH_EVENTS_SUBJECT",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "log job scripts",
		},
	}
	app.Action = func(c *cli.Context) error {
		s, err := settingsFromContext(c)
		if err != nil {
			return err
		}
		return run(s)
	}
	return app
}

func settingsFromContext(c *cli.Context) (settings, error) {
	s := settings{
		Batch: batch.Config{
			User:       c.String("user"),
			ChunkSize:  c.Int("chunk"),
			OutputDir:  c.String("output-dir"),
			FilePrefix: c.String("file-prefix"),
			LogDir:     c.String("log-dir"),
			Queue:      c.String("queue"),
			Script: batch.ScriptOptions{
				Setup:     c.String("setup-script"),
				Converter: c.String("converter"),
			},
			DryRun:        c.Bool("dry-run"),
			SubmitTimeout: c.Duration("submit-timeout"),
			EventsSubject: c.String("events-subject"),
		},
		Scheduler: c.String("scheduler"),
		SitesFile: c.String("sites"),
		NATSURL:   c.String("nats-url"),
		Verbose:   c.Bool("verbose"),
		Files:     []string(c.Args()),
	}

	if s.Batch.User == "" {
		u, err := user.Current()
		if err != nil {
			return settings{}, fmt.Errorf("resolve current user: %w", err)
		}
		s.Batch.User = u.Username
	}
	if err := s.Batch.Validate(); err != nil {
		return settings{}, err
	}
	return s, nil
}

func submit(s settings) error {
	level := slog.LevelInfo
	if s.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	sched, err := scheduler.Get(s.Scheduler)
	if err != nil {
		return err
	}
	sites, err := config.LoadSites(s.SitesFile)
	if err != nil {
		return err
	}
	s.Batch.Sites = sites

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	submitter := batch.New(s.Batch, sched, logger)
	if s.NATSURL != "" {
		nc, err := bus.Connect(s.NATSURL)
		if err != nil {
			return fmt.Errorf("connect to NATS %s: %w", s.NATSURL, err)
		}
		defer nc.Close()
		submitter.Events = nc
		logger.Info("connected to NATS", "nats_url", s.NATSURL, "subject", s.Batch.EventsSubject)
	}

	logger.Info("batch submit starting",
		"user", s.Batch.User,
		"scheduler", sched.Name(),
		"queue", s.Batch.Queue,
		"files", len(s.Files),
		"chunk", s.Batch.ChunkSize,
		"dry_run", s.Batch.DryRun)

	start := time.Now()
	report, err := submitter.Run(ctx, s.Files)
	if err != nil {
		if report != nil {
			logger.Error("some jobs were not submitted", "failed", report.Failed(), "jobs", len(report.Jobs))
		}
		return err
	}
	logger.Info("done", "jobs", len(report.Jobs), "elapsed_ms", time.Since(start).Milliseconds())
	return nil
}

func fatal(logger *slog.Logger, msg string, err error, attrs ...any) {
	attrs = append(attrs, "err", err)
	logger.Error(msg, attrs...)
	os.Exit(1)
}
