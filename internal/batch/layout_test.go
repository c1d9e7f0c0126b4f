package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewLayout(t *testing.T) {
	now := time.Date(2015, time.March, 14, 15, 30, 45, 0, time.Local)
	l := NewLayout("run-1", "./logs", "./files", now)

	if l.Timestamp != "Mar14-153045" {
		t.Fatalf("unexpected timestamp: %s", l.Timestamp)
	}
	if l.LogDir != filepath.Join("logs", "Mar14-153045") {
		t.Fatalf("unexpected log dir: %s", l.LogDir)
	}
	if l.OutputDir != filepath.Join("files", "Mar14-153045") {
		t.Fatalf("unexpected output dir: %s", l.OutputDir)
	}
	if got := l.LogFile(3); got != filepath.Join("logs", "Mar14-153045", "log_job_3.log") {
		t.Fatalf("unexpected log file: %s", got)
	}
	if got := l.OutputName("PROCESSED", 0); got != "PROCESSED_timestampMar14-153045_job0" {
		t.Fatalf("unexpected output name: %s", got)
	}
	if l.OutputName("PROCESSED", 0) == l.OutputName("PROCESSED", 1) {
		t.Fatal("output names must differ between jobs")
	}
}

func TestLayoutCreateIsIdempotent(t *testing.T) {
	tmp := t.TempDir()
	l := NewLayout("run-1", filepath.Join(tmp, "logs"), filepath.Join(tmp, "files"), time.Now())

	for i := 0; i < 2; i++ {
		if err := l.Create(); err != nil {
			t.Fatalf("Create #%d returned error: %v", i+1, err)
		}
	}

	for _, dir := range []string{l.LogDir, l.OutputDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("directory not created: %v", err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}
}

func TestJobName(t *testing.T) {
	tests := []struct {
		job, total int
		want       string
	}{
		{0, 3, "j1of3"},
		{2, 3, "j3of3"},
		{0, 1, "j1of1"},
	}
	for _, tt := range tests {
		if got := JobName(tt.job, tt.total); got != tt.want {
			t.Errorf("JobName(%d, %d) = %s, want %s", tt.job, tt.total, got, tt.want)
		}
	}
}
