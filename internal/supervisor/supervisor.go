// Package supervisor owns the worker pool for one supervisor process:
// it records its identity in the store, reclaims orphaned jobs on
// startup, and propagates OS shutdown signals to the pool
// cooperatively, escalating on a second signal.
package supervisor

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"queueCtl/internal/apierr"
	"queueCtl/internal/executor"
	"queueCtl/internal/logsink"
	"queueCtl/internal/model"
	"queueCtl/internal/store"
	"queueCtl/internal/worker"
)

const stopPollInterval = 200 * time.Millisecond

type Supervisor struct {
	store  *store.Store
	sink   *logsink.Sink
	logger *log.Logger
}

func New(st *store.Store, sink *logsink.Sink, logger *log.Logger) *Supervisor {
	return &Supervisor{store: st, sink: sink, logger: logger}
}

// Start rejects AlreadyRunning if a live supervisor is already
// recorded, reclaims orphaned jobs, then blocks running count workers
// until an OS signal (or a second one) brings the pool down.
func (sup *Supervisor) Start(count int) error {
	if rec, err := sup.store.SupervisorRecord(); err != nil {
		return err
	} else if rec != nil && isLive(rec.PID) {
		return fmt.Errorf("%w: pid %d", apierr.ErrAlreadyRunning, rec.PID)
	}

	now := time.Now().UTC()
	reclaimed, err := sup.store.ReclaimOrphans(now, func(claimedBy string) bool {
		return isWorkerLive(claimedBy)
	})
	if err != nil {
		return err
	}
	if reclaimed > 0 {
		sup.logger.Printf("supervisor: reclaimed %d orphaned job(s)", reclaimed)
	}

	pid := os.Getpid()
	if err := sup.store.SaveSupervisorRecord(model.SupervisorRecord{
		PID: pid, StartedAt: now, WorkerCount: count,
	}); err != nil {
		return err
	}
	defer sup.store.ClearSupervisorRecord()

	ctx, cancel := context.WithCancel(context.Background())
	forceCtx, forceCancel := context.WithCancel(context.Background())
	defer cancel()
	defer forceCancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		signaled := false
		for sig := range sigCh {
			if !signaled {
				sup.logger.Printf("supervisor: received %v, shutting down gracefully", sig)
				_ = sup.store.MarkSupervisorShuttingDown()
				cancel()
				signaled = true
				continue
			}
			sup.logger.Printf("supervisor: received second %v, forcing job termination", sig)
			forceCancel()
		}
	}()

	exec := executor.New(sup.sink)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		id := workerID(pid, i)
		w := worker.New(id, sup.store, exec, sup.logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Run(ctx, forceCtx)
		}()
	}
	wg.Wait()
	return nil
}

// Stop signals the recorded supervisor process and waits (bounded) for
// it to clear its record.
func (sup *Supervisor) Stop(timeout time.Duration) error {
	rec, err := sup.store.SupervisorRecord()
	if err != nil {
		return err
	}
	if rec == nil || !isLive(rec.PID) {
		return fmt.Errorf("%w: no running supervisor", apierr.ErrNotFound)
	}

	proc, err := os.FindProcess(rec.PID)
	if err != nil {
		return err
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return err
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		cur, err := sup.store.SupervisorRecord()
		if err != nil {
			return err
		}
		if cur == nil {
			return nil
		}
		time.Sleep(stopPollInterval)
	}
	return fmt.Errorf("supervisor did not shut down within %s", timeout)
}

// Status reports the recorded supervisor plus aggregate job counts.
func (sup *Supervisor) Status() (model.Status, error) {
	counts, err := sup.store.Counts()
	if err != nil {
		return model.Status{}, err
	}

	rec, err := sup.store.SupervisorRecord()
	if err != nil {
		return model.Status{}, err
	}
	if rec == nil || !isLive(rec.PID) {
		return model.Status{Running: false, Counts: counts}, nil
	}
	return model.Status{
		Running:     true,
		PID:         rec.PID,
		StartedAt:   rec.StartedAt,
		WorkerCount: rec.WorkerCount,
		Counts:      counts,
	}, nil
}

func workerID(pid, index int) string {
	return fmt.Sprintf("w-%d-%d-%s", pid, index, uuid.New().String()[:8])
}

// isLive reports whether a process with pid exists on this host.
func isLive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}

// isWorkerLive checks the supervisor pid embedded in a worker id
// (format "w-<supervisor-pid>-<index>-<suffix>"); a worker can only be
// live if the supervisor process that spawned it still is.
func isWorkerLive(claimedBy string) bool {
	var pid, index int
	var suffix string
	if _, err := fmt.Sscanf(claimedBy, "w-%d-%d-%s", &pid, &index, &suffix); err != nil {
		return false
	}
	return isLive(pid)
}
