// Package worker implements the claim-execute-finalize loop that
// drives jobs through the store's state machine. Process spawning
// lives in the executor; the worker only maps outcomes onto
// finalize calls.
package worker

import (
	"context"
	"log"
	"strconv"
	"time"

	"queueCtl/internal/executor"
	"queueCtl/internal/model"
	"queueCtl/internal/store"
)

type Worker struct {
	ID       string
	store    *store.Store
	executor *executor.Executor
	logger   *log.Logger
}

func New(id string, st *store.Store, exec *executor.Executor, logger *log.Logger) *Worker {
	return &Worker{ID: id, store: st, executor: exec, logger: logger}
}

// Run polls for and drives jobs until ctx is done. force, if non-nil,
// is forwarded to the executor so a second shutdown signal can
// escalate termination of a job that is currently running; ctx alone
// only stops the worker from claiming further jobs — a running job is
// always allowed to finish (or hit its own timeout) first.
func (w *Worker) Run(ctx context.Context, force context.Context) {
	if force == nil {
		force = context.Background()
	}
	w.logger.Printf("worker %s: starting", w.ID)
	defer w.logger.Printf("worker %s: stopped", w.ID)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		job, err := w.store.Claim(w.ID, time.Now().UTC())
		if err != nil {
			w.logger.Printf("worker %s: claim error: %v", w.ID, err)
			if !w.sleep(ctx) {
				return
			}
			continue
		}
		if job == nil {
			if !w.sleep(ctx) {
				return
			}
			continue
		}

		w.runJob(force, job)
	}
}

func (w *Worker) runJob(force context.Context, job *model.Job) {
	w.logger.Printf("worker %s: claimed job %s (attempt %d): %s", w.ID, job.ID, job.Attempts+1, job.Command)

	res := w.executor.Run(force, job)
	now := time.Now().UTC()

	if res.Success() {
		if err := w.store.FinalizeSuccess(job.ID, res.ExitCode, now); err != nil {
			w.logger.Printf("worker %s: finalize success %s: %v", w.ID, job.ID, err)
		} else {
			w.logger.Printf("worker %s: job %s completed", w.ID, job.ID)
		}
		return
	}

	errMsg := failureMessage(res)
	if err := w.store.FinalizeFailure(job.ID, res.ExitCode, errMsg, now); err != nil {
		w.logger.Printf("worker %s: finalize failure %s: %v", w.ID, job.ID, err)
		return
	}
	w.logger.Printf("worker %s: job %s failed: %s", w.ID, job.ID, errMsg)
}

func failureMessage(res executor.Result) string {
	if res.TimedOut {
		return "timeout"
	}
	if res.Err != nil {
		return res.Err.Error()
	}
	return "exit status " + strconv.Itoa(res.ExitCode)
}

// sleep waits the configured idle poll interval, returning false if ctx
// was canceled while sleeping.
func (w *Worker) sleep(ctx context.Context) bool {
	interval := w.pollInterval()
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (w *Worker) pollInterval() time.Duration {
	value, ok, err := w.store.ConfigGet("poll_interval_ms")
	if err != nil || !ok {
		return 500 * time.Millisecond
	}
	ms, err := strconv.Atoi(value)
	if err != nil || ms <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(ms) * time.Millisecond
}
