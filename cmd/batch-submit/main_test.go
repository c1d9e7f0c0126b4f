package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tendant/jet-batch/internal/batch"
)

// unsetenv clears keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func parseArgs(t *testing.T, args ...string) (settings, error) {
	t.Helper()
	var got settings
	app := newApp(func(s settings) error {
		got = s
		return nil
	})
	err := app.Run(append([]string{"batch-submit"}, args...))
	return got, err
}

func TestSettingsDefaults(t *testing.T) {
	t.Setenv("USER", "lukedeo")
	unsetenv(t, "BATCH_CHUNK", "BATCH_QUEUE", "BATCH_SCHEDULER", "BATCH_SUBMIT_TIMEOUT", "BATCH_DRY_RUN", "NATS_URL", "BATCH_EVENTS_SUBJECT")

	s, err := parseArgs(t, "--chunk", "2", "a.root", "b.root", "c.root")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if s.Batch.ChunkSize != 2 {
		t.Fatalf("unexpected chunk: %d", s.Batch.ChunkSize)
	}
	if s.Batch.User != "lukedeo" {
		t.Fatalf("unexpected user: %s", s.Batch.User)
	}
	if s.Batch.OutputDir != batch.DefaultOutputDir || s.Batch.LogDir != batch.DefaultLogDir {
		t.Fatalf("unexpected dirs: %s %s", s.Batch.OutputDir, s.Batch.LogDir)
	}
	if s.Batch.FilePrefix != "PROCESSED" || s.Batch.Queue != "medium" {
		t.Fatalf("unexpected prefix/queue: %s %s", s.Batch.FilePrefix, s.Batch.Queue)
	}
	if s.Scheduler != "lsf" {
		t.Fatalf("unexpected scheduler: %s", s.Scheduler)
	}
	if s.Batch.Script.Setup != "./setup.sh" || s.Batch.Script.Converter != "./jetconverter.py" {
		t.Fatalf("unexpected script options: %+v", s.Batch.Script)
	}
	if s.NATSURL != "" || s.Batch.EventsSubject != "jets.batch.submitted" {
		t.Fatalf("unexpected events settings: %q %q", s.NATSURL, s.Batch.EventsSubject)
	}
	if len(s.Files) != 3 || s.Files[2] != "c.root" {
		t.Fatalf("unexpected files: %v", s.Files)
	}
}

func TestSettingsFromEnv(t *testing.T) {
	t.Setenv("USER", "someone")
	t.Setenv("BATCH_CHUNK", "5")
	t.Setenv("BATCH_QUEUE", "long")
	t.Setenv("BATCH_SCHEDULER", "slurm")
	t.Setenv("BATCH_DRY_RUN", "true")
	t.Setenv("BATCH_SUBMIT_TIMEOUT", "30s")
	t.Setenv("BATCH_EVENTS_SUBJECT", "jets.test")

	s, err := parseArgs(t, "--user", "bpn7", "x.root")
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}

	if s.Batch.ChunkSize != 5 || s.Batch.Queue != "long" || s.Scheduler != "slurm" {
		t.Fatalf("env not applied: %+v", s)
	}
	if !s.Batch.DryRun || s.Batch.SubmitTimeout != 30*time.Second {
		t.Fatalf("unexpected dry-run/timeout: %v %v", s.Batch.DryRun, s.Batch.SubmitTimeout)
	}
	if s.Batch.User != "bpn7" {
		t.Fatalf("flag should win over env, got user %s", s.Batch.User)
	}
	if s.Batch.EventsSubject != "jets.test" {
		t.Fatalf("unexpected subject: %s", s.Batch.EventsSubject)
	}
}

func TestSettingsRequireChunk(t *testing.T) {
	t.Setenv("USER", "lukedeo")
	unsetenv(t, "BATCH_CHUNK", "BATCH_SUBMIT_TIMEOUT", "BATCH_DRY_RUN")

	if _, err := parseArgs(t, "a.root"); err == nil {
		t.Fatal("expected error without --chunk")
	}
	if _, err := parseArgs(t, "--chunk", "-1", "a.root"); err == nil {
		t.Fatal("expected error for negative chunk")
	}
}

func TestSubmitDryRun(t *testing.T) {
	tmp := t.TempDir()
	s := settings{
		Batch: batch.Config{
			User:       "lukedeo",
			ChunkSize:  2,
			OutputDir:  filepath.Join(tmp, "files"),
			FilePrefix: batch.DefaultFilePrefix,
			LogDir:     filepath.Join(tmp, "logs"),
			Queue:      batch.DefaultQueue,
			DryRun:     true,
		},
		Scheduler: "lsf",
		Files:     []string{"a.root", "b.root", "c.root"},
	}

	if err := submit(s); err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(tmp, "logs"))
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 || !entries[0].IsDir() {
		t.Fatalf("expected one timestamp directory, got %v", entries)
	}
}

func TestSubmitUnknownUser(t *testing.T) {
	tmp := t.TempDir()
	s := settings{
		Batch: batch.Config{
			User:      "nobody",
			ChunkSize: 1,
			OutputDir: filepath.Join(tmp, "files"),
			LogDir:    filepath.Join(tmp, "logs"),
			Queue:     batch.DefaultQueue,
			DryRun:    true,
		},
		Scheduler: "lsf",
		Files:     []string{"a.root"},
	}

	if err := submit(s); err == nil {
		t.Fatal("expected error for unknown user")
	}
	if _, err := os.Stat(filepath.Join(tmp, "logs")); !os.IsNotExist(err) {
		t.Fatalf("log dir should not exist, stat err: %v", err)
	}
}

func TestSubmitUnknownScheduler(t *testing.T) {
	s := settings{
		Batch:     batch.Config{User: "lukedeo", ChunkSize: 1, OutputDir: t.TempDir(), LogDir: t.TempDir(), Queue: "q"},
		Scheduler: "pbs",
	}
	if err := submit(s); err == nil {
		t.Fatal("expected error for unsupported scheduler")
	}
}
