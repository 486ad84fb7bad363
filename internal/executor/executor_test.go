package executor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"queueCtl/internal/logsink"
	"queueCtl/internal/model"
)

func newExecutor(t *testing.T) *Executor {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "logs")
	return New(logsink.New(dir))
}

func TestRunSuccess(t *testing.T) {
	e := newExecutor(t)
	job := &model.Job{ID: "s", Command: "exit 0", TimeoutSeconds: 5}

	res := e.Run(context.Background(), job)
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	e := newExecutor(t)
	job := &model.Job{ID: "f", Command: "exit 7", TimeoutSeconds: 5}

	res := e.Run(context.Background(), job)
	if res.Success() {
		t.Fatalf("expected failure, got %+v", res)
	}
	if res.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", res.ExitCode)
	}
}

func TestRunTimeout(t *testing.T) {
	e := newExecutor(t)
	job := &model.Job{ID: "t", Command: "sleep 5", TimeoutSeconds: 1}

	start := time.Now()
	res := e.Run(context.Background(), job)
	if !res.TimedOut {
		t.Fatalf("expected timeout, got %+v", res)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("timeout handling took too long: %s", time.Since(start))
	}
}

func TestRunCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	e := New(logsink.New(dir))
	job := &model.Job{ID: "out", Command: "echo hello", TimeoutSeconds: 5}

	if res := e.Run(context.Background(), job); !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}

	data, err := os.ReadFile(filepath.Join(dir, "job_out.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected captured output, got empty log")
	}
}
