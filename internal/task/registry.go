package task

import "github.com/google/uuid"

// ListFilter narrows the records returned by Registry.List.
// A zero filter matches every record.
type ListFilter struct {
	// Status restricts the listing to records in the given state.
	// Empty means no status filtering.
	Status Status
}

// Registry is an in-process store of task records keyed by ID.
//
// Implementations must serialize mutations so that concurrent readers
// never observe a partially written record: Update swaps a full record
// atomically and List returns a snapshot unaffected by later writes.
// Registry operations never block on I/O.
type Registry interface {
	// Insert adds a new record. Returns ErrDuplicateTask if the ID is
	// already present.
	Insert(rec *Record) error

	// Get returns a copy of the record with the given ID, or
	// ErrTaskNotFound.
	Get(id uuid.UUID) (*Record, error)

	// Update atomically applies mutate to the stored record and returns
	// a copy of the result. The mutator runs under the registry lock and
	// must not block. Returns ErrTaskNotFound if the ID is unknown.
	Update(id uuid.UUID, mutate func(*Record)) (*Record, error)

	// List returns copies of the records matching filter, ordered by
	// creation time descending (newest first). A positive limit
	// truncates the result; limit <= 0 returns all matches.
	List(filter ListFilter, limit int) []*Record

	// Delete permanently removes the record, or returns ErrTaskNotFound.
	Delete(id uuid.UUID) error

	// PruneFinished removes the oldest terminal (completed or failed)
	// records so that at most max remain. It returns the number of
	// records removed. max <= 0 disables pruning.
	PruneFinished(max int) int
}
