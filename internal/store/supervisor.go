package store

import (
	"database/sql"

	"queueCtl/internal/apierr"
	"queueCtl/internal/model"
)

// SupervisorRecord returns the persisted record, or nil if none exists.
func (s *Store) SupervisorRecord() (*model.SupervisorRecord, error) {
	var rec model.SupervisorRecord
	var shuttingDown int
	err := s.db.QueryRow(`SELECT pid, started_at, worker_count, shutting_down FROM supervisor WHERE id=1`).
		Scan(&rec.PID, &rec.StartedAt, &rec.WorkerCount, &shuttingDown)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.WrapStore(err)
	}
	rec.ShuttingDown = shuttingDown != 0
	return &rec, nil
}

// SaveSupervisorRecord writes the single supervisor row, replacing any
// prior record.
func (s *Store) SaveSupervisorRecord(rec model.SupervisorRecord) error {
	_, err := s.db.Exec(`
		INSERT INTO supervisor(id, pid, started_at, worker_count, shutting_down)
		VALUES(1, ?, ?, ?, 0)
		ON CONFLICT(id) DO UPDATE SET
			pid=excluded.pid, started_at=excluded.started_at,
			worker_count=excluded.worker_count, shutting_down=0`,
		rec.PID, rec.StartedAt, rec.WorkerCount)
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}

// MarkSupervisorShuttingDown flips the shutdown flag in the record.
// Supervisor.Stop does not read the flag; it waits for the record to
// be cleared.
func (s *Store) MarkSupervisorShuttingDown() error {
	_, err := s.db.Exec(`UPDATE supervisor SET shutting_down=1 WHERE id=1`)
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}

// ClearSupervisorRecord removes the record once the supervisor has
// exited cleanly.
func (s *Store) ClearSupervisorRecord() error {
	_, err := s.db.Exec(`DELETE FROM supervisor WHERE id=1`)
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}
