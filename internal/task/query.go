package task

import (
	"time"

	"github.com/google/uuid"

	"github.com/Authcult/tradingagents-api/internal/analysis"
)

// DefaultListLimit is the number of tasks returned by List when the
// caller does not specify a limit.
const DefaultListLimit = 20

// StatusSnapshot is the read-only view of a task's lifecycle exposed to
// pollers. It deliberately omits the result payload.
type StatusSnapshot struct {
	ID        uuid.UUID
	Status    Status
	Progress  int
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResultOutcome is the answer to a result query. Ready is true only when
// the task completed and Result is present; otherwise Status and Progress
// describe where the task currently is. A not-ready outcome is a normal
// response, not an error.
type ResultOutcome struct {
	TaskID   uuid.UUID
	Ready    bool
	Status   Status
	Progress int
	Result   *analysis.Result
}

// QueryService is the read/delete facade over the task registry consumed
// by the HTTP layer.
type QueryService struct {
	registry Registry
}

// NewQueryService creates a QueryService over the given registry.
func NewQueryService(registry Registry) *QueryService {
	return &QueryService{registry: registry}
}

// Status returns the lifecycle snapshot for a task, or ErrTaskNotFound.
func (s *QueryService) Status(id uuid.UUID) (StatusSnapshot, error) {
	rec, err := s.registry.Get(id)
	if err != nil {
		return StatusSnapshot{}, err
	}
	return snapshotOf(rec), nil
}

// Result returns the task's result when completed, and a not-ready
// outcome carrying the current status and progress otherwise.
// The only error is ErrTaskNotFound.
func (s *QueryService) Result(id uuid.UUID) (ResultOutcome, error) {
	rec, err := s.registry.Get(id)
	if err != nil {
		return ResultOutcome{}, err
	}

	out := ResultOutcome{
		TaskID:   rec.ID,
		Status:   rec.Status,
		Progress: rec.Progress,
	}
	if rec.Status == StatusCompleted {
		out.Ready = true
		out.Result = rec.Result
	}
	return out, nil
}

// List returns snapshots of tasks matching the optional status filter,
// newest first. A non-positive limit falls back to DefaultListLimit.
func (s *QueryService) List(status Status, limit int) []StatusSnapshot {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	recs := s.registry.List(ListFilter{Status: status}, limit)
	out := make([]StatusSnapshot, 0, len(recs))
	for _, rec := range recs {
		out = append(out, snapshotOf(rec))
	}
	return out
}

// Delete removes the task permanently, or returns ErrTaskNotFound.
func (s *QueryService) Delete(id uuid.UUID) error {
	return s.registry.Delete(id)
}

func snapshotOf(rec *Record) StatusSnapshot {
	return StatusSnapshot{
		ID:        rec.ID,
		Status:    rec.Status,
		Progress:  rec.Progress,
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
