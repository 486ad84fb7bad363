package model

import "time"

// Job states. failed is intentionally absent: a retryable failure is
// represented as state=pending with attempts>0, not a distinct row state.
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateDead       = "dead"
)

// Job is the unit of work persisted by the store.
type Job struct {
	ID             string     `json:"id"`
	Command        string     `json:"command"`
	Priority       int        `json:"priority"`
	MaxRetries     int        `json:"max_retries"`
	Attempts       int        `json:"attempts"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	RunAt          time.Time  `json:"run_at"`
	State          string     `json:"state"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	ClaimedBy      *string    `json:"claimed_by,omitempty"`
	LastError      *string    `json:"last_error,omitempty"`
	ExitCode       *int       `json:"exit_code,omitempty"`
}

// Spec is the job submission accepted by enqueue; Store.Enqueue
// validates it and fills in defaults for unset fields.
// Unknown JSON keys are rejected at the decoding boundary in cmd/enqueue.go.
type Spec struct {
	ID             string     `json:"id"`
	Command        string     `json:"command"`
	Priority       int        `json:"priority,omitempty"`
	MaxRetries     *int       `json:"max_retries,omitempty"`
	TimeoutSeconds *int       `json:"timeout_seconds,omitempty"`
	RunAt          *time.Time `json:"run_at,omitempty"`
}

// Filter selects jobs for Store.List.
type Filter struct {
	State    string
	IDPrefix string
}

// SupervisorRecord identifies the single supervisor process recorded
// for this host.
type SupervisorRecord struct {
	PID          int
	StartedAt    time.Time
	WorkerCount  int
	ShuttingDown bool
}

// Status is the aggregate view returned by Supervisor.Status and the
// admin API's status call.
type Status struct {
	Running     bool
	PID         int
	StartedAt   time.Time
	WorkerCount int
	Counts      map[string]int
}
