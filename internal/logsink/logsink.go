// Package logsink is the append-only byte-stream sink the executor
// writes a job's interleaved stdout/stderr into, one file per job id
// under the configured log directory.
package logsink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

type Sink struct {
	dir string
}

func New(dir string) *Sink {
	return &Sink{dir: dir}
}

// Open returns an append-only writer for jobID's log file, creating the
// log directory if needed. Callers must Close it.
func (s *Sink) Open(jobID string) (*os.File, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(s.dir, fmt.Sprintf("job_%s.log", jobID))
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// Annotate appends a single timestamped line to jobID's log file. The
// executor does not call it: a job's log holds only the command's own
// output.
func (s *Sink) Annotate(jobID, line string) error {
	f, err := s.Open(jobID)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "[%s] %s\n", time.Now().UTC().Format(time.RFC3339), line)
	return err
}
