package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"queueCtl/internal/apierr"
	"queueCtl/internal/model"
)

const jobColumns = `id, command, priority, max_retries, attempts, timeout_seconds, run_at, state, created_at, updated_at, claimed_by, last_error, exit_code`

func scanJob(row *sql.Row) (*model.Job, error) {
	var j model.Job
	var claimedBy, lastError sql.NullString
	var exitCode sql.NullInt64
	err := row.Scan(
		&j.ID, &j.Command, &j.Priority, &j.MaxRetries, &j.Attempts, &j.TimeoutSeconds, &j.RunAt,
		&j.State, &j.CreatedAt, &j.UpdatedAt, &claimedBy, &lastError, &exitCode,
	)
	if err != nil {
		return nil, err
	}
	if claimedBy.Valid {
		j.ClaimedBy = &claimedBy.String
	}
	if lastError.Valid {
		j.LastError = &lastError.String
	}
	if exitCode.Valid {
		v := int(exitCode.Int64)
		j.ExitCode = &v
	}
	return &j, nil
}

func scanJobRows(rows *sql.Rows) (*model.Job, error) {
	var j model.Job
	var claimedBy, lastError sql.NullString
	var exitCode sql.NullInt64
	err := rows.Scan(
		&j.ID, &j.Command, &j.Priority, &j.MaxRetries, &j.Attempts, &j.TimeoutSeconds, &j.RunAt,
		&j.State, &j.CreatedAt, &j.UpdatedAt, &claimedBy, &lastError, &exitCode,
	)
	if err != nil {
		return nil, err
	}
	if claimedBy.Valid {
		j.ClaimedBy = &claimedBy.String
	}
	if lastError.Valid {
		j.LastError = &lastError.String
	}
	if exitCode.Valid {
		v := int(exitCode.Int64)
		j.ExitCode = &v
	}
	return &j, nil
}

func (s *Store) getJob(id string) (*model.Job, error) {
	row := s.db.QueryRow(`SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	j, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, apierr.ErrNotFound
	}
	if err != nil {
		return nil, apierr.WrapStore(err)
	}
	return j, nil
}

// Enqueue validates spec and inserts a new pending job. Defaults for
// max_retries and timeout_seconds are read through from store config.
func (s *Store) Enqueue(spec model.Spec) (string, error) {
	if spec.ID == "" {
		return "", fmt.Errorf("%w: id must be non-empty", apierr.ErrInvalidSpec)
	}
	if spec.Command == "" {
		return "", fmt.Errorf("%w: command must be non-empty", apierr.ErrInvalidSpec)
	}
	if spec.MaxRetries != nil && *spec.MaxRetries < 0 {
		return "", fmt.Errorf("%w: max_retries must be >= 0", apierr.ErrInvalidSpec)
	}
	if spec.TimeoutSeconds != nil && *spec.TimeoutSeconds <= 0 {
		return "", fmt.Errorf("%w: timeout_seconds must be > 0", apierr.ErrInvalidSpec)
	}

	now := time.Now().UTC()

	maxRetries := spec.MaxRetries
	if maxRetries == nil {
		v, err := s.intConfig("max_retries", 3)
		if err != nil {
			return "", err
		}
		maxRetries = &v
	}
	timeoutSeconds := spec.TimeoutSeconds
	if timeoutSeconds == nil {
		v, err := s.intConfig("default_timeout", 30)
		if err != nil {
			return "", err
		}
		timeoutSeconds = &v
	}
	runAt := now
	if spec.RunAt != nil {
		runAt = spec.RunAt.UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO jobs(id, command, priority, max_retries, attempts, timeout_seconds, run_at, state, created_at, updated_at)
		VALUES(?,?,?,?,0,?,?,?,?,?)`,
		spec.ID, spec.Command, spec.Priority, *maxRetries, *timeoutSeconds, runAt, model.StatePending, now, now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%w: job %q already exists", apierr.ErrDuplicateId, spec.ID)
		}
		return "", apierr.WrapStore(err)
	}
	return spec.ID, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Claim atomically transitions the highest-priority, earliest-eligible
// pending job to processing and returns it, or (nil, nil) if none is
// eligible. Uses a serializable transaction with a conditional UPDATE
// and rowcount check, retrying selection if another caller won the race.
func (s *Store) Claim(workerID string, now time.Time) (*model.Job, error) {
	for {
		tx, err := s.db.BeginTx(context.Background(), &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return nil, apierr.WrapStore(err)
		}

		var id string
		err = tx.QueryRow(`
			SELECT id FROM jobs
			WHERE state=? AND run_at<=?
			ORDER BY priority DESC, run_at ASC, created_at ASC
			LIMIT 1`, model.StatePending, now).Scan(&id)
		if err == sql.ErrNoRows {
			tx.Rollback()
			return nil, nil
		}
		if err != nil {
			tx.Rollback()
			return nil, apierr.WrapStore(err)
		}

		res, err := tx.Exec(`
			UPDATE jobs SET state=?, claimed_by=?, updated_at=?
			WHERE id=? AND state=?`,
			model.StateProcessing, workerID, now, id, model.StatePending)
		if err != nil {
			tx.Rollback()
			return nil, apierr.WrapStore(err)
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			tx.Rollback()
			continue
		}
		if err := tx.Commit(); err != nil {
			return nil, apierr.WrapStore(err)
		}
		return s.getJob(id)
	}
}

// FinalizeSuccess marks a claimed job completed. attempts counts
// executions, so the run that completed the job is recorded too.
func (s *Store) FinalizeSuccess(jobID string, exitCode int, now time.Time) error {
	_, err := s.db.Exec(`
		UPDATE jobs SET state=?, claimed_by=NULL, attempts=attempts+1, exit_code=?, updated_at=?
		WHERE id=?`, model.StateCompleted, exitCode, now, jobID)
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}

// FinalizeFailure records a failed execution, routing to dead once
// attempts exceeds max_retries and otherwise rescheduling with
// exponential backoff: run_at = now + backoff_base^attempts seconds.
func (s *Store) FinalizeFailure(jobID string, exitCode int, jobErr string, now time.Time) error {
	var attempts, maxRetries int
	err := s.db.QueryRow(`SELECT attempts, max_retries FROM jobs WHERE id=?`, jobID).Scan(&attempts, &maxRetries)
	if err == sql.ErrNoRows {
		return apierr.ErrNotFound
	}
	if err != nil {
		return apierr.WrapStore(err)
	}

	attempts++
	if attempts > maxRetries {
		_, err = s.db.Exec(`
			UPDATE jobs SET state=?, claimed_by=NULL, attempts=?, last_error=?, exit_code=?, updated_at=?
			WHERE id=?`, model.StateDead, attempts, jobErr, exitCode, now, jobID)
	} else {
		base, cfgErr := s.intConfig("backoff_base", 2)
		if cfgErr != nil {
			return cfgErr
		}
		delay := time.Duration(math.Pow(float64(base), float64(attempts))) * time.Second
		runAt := now.Add(delay)
		_, err = s.db.Exec(`
			UPDATE jobs SET state=?, claimed_by=NULL, attempts=?, last_error=?, exit_code=?, run_at=?, updated_at=?
			WHERE id=?`, model.StatePending, attempts, jobErr, exitCode, runAt, now, jobID)
	}
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}

// RequeueDead resets a dead job back to pending with a clean slate.
func (s *Store) RequeueDead(jobID string) error {
	now := time.Now().UTC()
	res, err := s.db.Exec(`
		UPDATE jobs SET state=?, attempts=0, run_at=?, last_error=NULL, exit_code=NULL, updated_at=?
		WHERE id=? AND state=?`, model.StatePending, now, now, jobID, model.StateDead)
	if err != nil {
		return apierr.WrapStore(err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		var one int
		scanErr := s.db.QueryRow(`SELECT 1 FROM jobs WHERE id=?`, jobID).Scan(&one)
		if scanErr == sql.ErrNoRows {
			return apierr.ErrNotFound
		}
		if scanErr != nil {
			return apierr.WrapStore(scanErr)
		}
		return apierr.ErrNotDead
	}
	return nil
}

// ReclaimOrphans scans processing rows and, for any whose claimant is
// not live per isLive, applies FinalizeFailure with error
// "worker-crashed" so they flow through the normal retry/dead path.
func (s *Store) ReclaimOrphans(now time.Time, isLive func(claimedBy string) bool) (int, error) {
	rows, err := s.db.Query(`SELECT id, claimed_by FROM jobs WHERE state=?`, model.StateProcessing)
	if err != nil {
		return 0, apierr.WrapStore(err)
	}
	type orphan struct{ id, claimedBy string }
	var orphans []orphan
	for rows.Next() {
		var id string
		var claimedBy sql.NullString
		if err := rows.Scan(&id, &claimedBy); err != nil {
			rows.Close()
			return 0, apierr.WrapStore(err)
		}
		orphans = append(orphans, orphan{id: id, claimedBy: claimedBy.String})
	}
	rows.Close()

	reclaimed := 0
	for _, o := range orphans {
		if isLive(o.claimedBy) {
			continue
		}
		if err := s.FinalizeFailure(o.id, -1, "worker-crashed", now); err != nil {
			return reclaimed, err
		}
		reclaimed++
	}
	return reclaimed, nil
}

// List returns jobs matching filter, ordered (priority DESC, run_at ASC).
func (s *Store) List(filter model.Filter) ([]model.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE 1=1`
	var args []any
	if filter.State != "" {
		query += ` AND state=?`
		args = append(args, filter.State)
	}
	if filter.IDPrefix != "" {
		query += ` AND id LIKE ?`
		args = append(args, filter.IDPrefix+"%")
	}
	query += ` ORDER BY priority DESC, run_at ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apierr.WrapStore(err)
	}
	defer rows.Close()

	var jobs []model.Job
	for rows.Next() {
		j, err := scanJobRows(rows)
		if err != nil {
			return nil, apierr.WrapStore(err)
		}
		jobs = append(jobs, *j)
	}
	return jobs, nil
}

// Counts returns the number of jobs in each state.
func (s *Store) Counts() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return nil, apierr.WrapStore(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, apierr.WrapStore(err)
		}
		counts[state] = n
	}
	return counts, nil
}

// Purge deletes jobs in the given state and returns the count removed.
// The CLI only exposes the completed selector; enforcement lives in
// the admin layer so this stays a plain delete-by-state.
func (s *Store) Purge(state string) (int, error) {
	res, err := s.db.Exec(`DELETE FROM jobs WHERE state=?`, state)
	if err != nil {
		return 0, apierr.WrapStore(err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
