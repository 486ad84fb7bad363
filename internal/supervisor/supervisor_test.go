package supervisor_test

import (
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"queueCtl/internal/apierr"
	"queueCtl/internal/logsink"
	"queueCtl/internal/model"
	"queueCtl/internal/store"
	"queueCtl/internal/supervisor"
)

func newTestSupervisor(t *testing.T) (*store.Store, *supervisor.Supervisor) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	logger := log.New(io.Discard, "", 0)
	return st, supervisor.New(st, logsink.New(t.TempDir()), logger)
}

func TestStatusWhenNoSupervisorRecorded(t *testing.T) {
	_, sup := newTestSupervisor(t)

	st, err := sup.Status()
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if st.Running {
		t.Fatalf("expected not running, got %+v", st)
	}
}

func TestStartRejectsWhenAlreadyRunning(t *testing.T) {
	db, sup := newTestSupervisor(t)

	if err := db.SaveSupervisorRecord(model.SupervisorRecord{
		PID: os.Getpid(), StartedAt: time.Now().UTC(), WorkerCount: 1,
	}); err != nil {
		t.Fatalf("save record: %v", err)
	}

	if err := sup.Start(1); !errors.Is(err, apierr.ErrAlreadyRunning) {
		t.Fatalf("expected AlreadyRunning, got %v", err)
	}
}

func TestStopWithNoSupervisorReturnsNotFound(t *testing.T) {
	_, sup := newTestSupervisor(t)

	if err := sup.Stop(time.Second); !errors.Is(err, apierr.ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestStatusReflectsStaleRecordAsNotRunning(t *testing.T) {
	db, sup := newTestSupervisor(t)

	if err := db.SaveSupervisorRecord(model.SupervisorRecord{
		PID: 999999, StartedAt: time.Now().UTC(), WorkerCount: 2,
	}); err != nil {
		t.Fatalf("save record: %v", err)
	}

	st, err := sup.Status()
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	if st.Running {
		t.Fatalf("expected a dead pid to be reported as not running, got %+v", st)
	}
}
