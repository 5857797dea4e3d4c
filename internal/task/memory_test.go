package task

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Authcult/tradingagents-api/internal/analysis"
)

func newTestRecord(status Status) *Record {
	return &Record{
		ID:       uuid.New(),
		Status:   status,
		Progress: 0,
		Message:  "queued",
		Request:  analysis.Request{Symbol: "NVDA", ResearchDepth: 1},
	}
}

// fakeClock returns a clock that advances one second per call, giving
// every insert a distinct, ordered creation time.
func fakeClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func TestMemoryRegistry_InsertAndGet(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	rec := newTestRecord(StatusPending)

	require.NoError(t, reg.Insert(rec))

	got, err := reg.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, StatusPending, got.Status)
	assert.False(t, got.CreatedAt.IsZero())

	t.Run("duplicate id rejected", func(t *testing.T) {
		err := reg.Insert(rec)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDuplicateTask)
		assert.ErrorIs(t, err, ErrDuplicate)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := reg.Get(uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrTaskNotFound)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("stored record is isolated from caller", func(t *testing.T) {
		rec.Message = "mutated by caller"
		fresh, err := reg.Get(rec.ID)
		require.NoError(t, err)
		assert.Equal(t, "queued", fresh.Message)
	})
}

func TestMemoryRegistry_Update(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	rec := newTestRecord(StatusPending)
	require.NoError(t, reg.Insert(rec))

	updated, err := reg.Update(rec.ID, func(r *Record) {
		r.Status = StatusRunning
		r.Progress = 42
		r.Message = "working"
	})
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, updated.Status)
	assert.Equal(t, 42, updated.Progress)

	got, err := reg.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 42, got.Progress)
	assert.Equal(t, "working", got.Message)

	t.Run("identifier is immutable", func(t *testing.T) {
		rogue := uuid.New()
		_, err := reg.Update(rec.ID, func(r *Record) { r.ID = rogue })
		require.NoError(t, err)

		_, err = reg.Get(rogue)
		assert.ErrorIs(t, err, ErrTaskNotFound)
		_, err = reg.Get(rec.ID)
		assert.NoError(t, err)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := reg.Update(uuid.New(), func(r *Record) {})
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestMemoryRegistry_ConcurrentUpdates(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	rec := newTestRecord(StatusRunning)
	rec.Message = "update 0"
	require.NoError(t, reg.Insert(rec))

	const writers = 8
	const updatesPerWriter = 50

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < updatesPerWriter; i++ {
				_, err := reg.Update(rec.ID, func(r *Record) {
					r.Progress++
					r.Message = fmt.Sprintf("update %d", r.Progress)
				})
				assert.NoError(t, err)
			}
		}()
	}

	// Concurrent readers must never observe a torn record.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			got, err := reg.Get(rec.ID)
			if assert.NoError(t, err) {
				assert.Equal(t, fmt.Sprintf("update %d", got.Progress), got.Message)
			}
		}
	}()

	wg.Wait()
	<-done

	got, err := reg.Get(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, writers*updatesPerWriter, got.Progress,
		"every update must be applied exactly once")
}

func TestMemoryRegistry_List(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistryWithClock(fakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		rec := newTestRecord(StatusCompleted)
		require.NoError(t, reg.Insert(rec))
		ids = append(ids, rec.ID)
	}
	pending := newTestRecord(StatusPending)
	require.NoError(t, reg.Insert(pending))

	t.Run("newest first", func(t *testing.T) {
		out := reg.List(ListFilter{}, 0)
		require.Len(t, out, 4)
		assert.Equal(t, pending.ID, out[0].ID)
		assert.Equal(t, ids[2], out[1].ID)
		assert.Equal(t, ids[0], out[3].ID)
	})

	t.Run("status filter with limit returns the newest match", func(t *testing.T) {
		out := reg.List(ListFilter{Status: StatusCompleted}, 1)
		require.Len(t, out, 1)
		assert.Equal(t, ids[2], out[0].ID)
	})

	t.Run("limit truncates", func(t *testing.T) {
		out := reg.List(ListFilter{}, 2)
		assert.Len(t, out, 2)
	})

	t.Run("no matches", func(t *testing.T) {
		out := reg.List(ListFilter{Status: StatusFailed}, 0)
		assert.Empty(t, out)
	})
}

func TestMemoryRegistry_Delete(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistry()
	rec := newTestRecord(StatusCompleted)
	require.NoError(t, reg.Insert(rec))

	require.NoError(t, reg.Delete(rec.ID))

	_, err := reg.Get(rec.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	err = reg.Delete(rec.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestMemoryRegistry_PruneFinished(t *testing.T) {
	t.Parallel()

	reg := NewMemoryRegistryWithClock(fakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))

	oldest := newTestRecord(StatusCompleted)
	require.NoError(t, reg.Insert(oldest))
	middle := newTestRecord(StatusFailed)
	require.NoError(t, reg.Insert(middle))
	newest := newTestRecord(StatusCompleted)
	require.NoError(t, reg.Insert(newest))
	running := newTestRecord(StatusRunning)
	require.NoError(t, reg.Insert(running))

	t.Run("under the cap is a no-op", func(t *testing.T) {
		assert.Equal(t, 0, reg.PruneFinished(3))
		assert.Equal(t, 4, reg.Len())
	})

	t.Run("oldest terminal records go first", func(t *testing.T) {
		assert.Equal(t, 2, reg.PruneFinished(1))

		_, err := reg.Get(oldest.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
		_, err = reg.Get(middle.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)

		// The newest terminal record and the running one survive.
		_, err = reg.Get(newest.ID)
		assert.NoError(t, err)
		_, err = reg.Get(running.ID)
		assert.NoError(t, err)
	})

	t.Run("zero cap disables pruning", func(t *testing.T) {
		assert.Equal(t, 0, reg.PruneFinished(0))
	})
}
