package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/Authcult/tradingagents-api/internal/analysis"
)

// Status represents the current state of a task.
type Status string

// Possible task status values. Pending and running are transient;
// completed and failed are terminal.
const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status. No transition ever
// leaves a terminal status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record tracks one submitted analysis through its lifecycle.
//
// Progress is an integer in [0, 100] and never decreases while the record
// is non-terminal. Result is non-nil if and only if Status is completed.
type Record struct {
	ID        uuid.UUID
	Status    Status
	Progress  int
	Message   string
	Request   analysis.Request
	Result    *analysis.Result
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the record so callers can never observe or
// mutate registry-internal state.
func (r *Record) Clone() *Record {
	out := *r
	if r.Request.SelectedAnalysts != nil {
		out.Request.SelectedAnalysts = append([]analysis.Analyst(nil), r.Request.SelectedAnalysts...)
	}
	if r.Result != nil {
		res := *r.Result
		if r.Result.AnalystsUsed != nil {
			res.AnalystsUsed = append([]analysis.Analyst(nil), r.Result.AnalystsUsed...)
		}
		out.Result = &res
	}
	return &out
}
