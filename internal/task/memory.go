package task

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRegistry is the in-memory Registry implementation. State lives for
// the process lifetime only; there is no persistence across restarts.
//
// All access goes through a single RWMutex. Records are cloned on the way
// in and on the way out, so a stored record is only ever replaced whole
// and callers can never tear one mid-update.
type MemoryRegistry struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*Record
	now     func() time.Time
}

// NewMemoryRegistry creates an empty registry using the wall clock.
func NewMemoryRegistry() *MemoryRegistry {
	return NewMemoryRegistryWithClock(time.Now)
}

// NewMemoryRegistryWithClock creates an empty registry with an injected
// clock, letting tests control created_at/updated_at deterministically.
func NewMemoryRegistryWithClock(now func() time.Time) *MemoryRegistry {
	if now == nil {
		now = time.Now
	}
	return &MemoryRegistry{
		records: make(map[uuid.UUID]*Record),
		now:     now,
	}
}

// Insert implements Registry.
func (m *MemoryRegistry) Insert(rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; exists {
		return ErrDuplicateTask
	}

	stored := rec.Clone()
	ts := m.now().UTC()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = ts
	}
	stored.UpdatedAt = ts
	m.records[rec.ID] = stored
	return nil
}

// Get implements Registry.
func (m *MemoryRegistry) Get(id uuid.UUID) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return rec.Clone(), nil
}

// Update implements Registry. The mutator receives a private copy; the
// stored record is swapped in one step under the write lock.
func (m *MemoryRegistry) Update(id uuid.UUID, mutate func(*Record)) (*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, ErrTaskNotFound
	}

	next := rec.Clone()
	mutate(next)
	next.ID = rec.ID // the identifier is immutable
	next.CreatedAt = rec.CreatedAt
	next.UpdatedAt = m.now().UTC()
	m.records[id] = next
	return next.Clone(), nil
}

// List implements Registry.
func (m *MemoryRegistry) List(filter ListFilter, limit int) []*Record {
	m.mu.RLock()
	out := make([]*Record, 0, len(m.records))
	for _, rec := range m.records {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		out = append(out, rec.Clone())
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Delete implements Registry.
func (m *MemoryRegistry) Delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrTaskNotFound
	}
	delete(m.records, id)
	return nil
}

// PruneFinished implements Registry.
func (m *MemoryRegistry) PruneFinished(max int) int {
	if max <= 0 {
		return 0
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	finished := make([]*Record, 0)
	for _, rec := range m.records {
		if rec.Status.Terminal() {
			finished = append(finished, rec)
		}
	}
	if len(finished) <= max {
		return 0
	}

	// Oldest terminal records go first.
	sort.Slice(finished, func(i, j int) bool {
		return finished[i].CreatedAt.Before(finished[j].CreatedAt)
	})
	pruned := 0
	for _, rec := range finished[:len(finished)-max] {
		delete(m.records, rec.ID)
		pruned++
	}
	return pruned
}

// Len returns the number of records currently held.
func (m *MemoryRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
