package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Authcult/tradingagents-api/internal/analysis"
	"github.com/Authcult/tradingagents-api/internal/platform/engine"
)

// EngineProvider hands out the engine selected by the capability probe.
type EngineProvider interface {
	Engine() engine.Engine
}

// ExecutorConfig holds configuration for the task executor.
type ExecutorConfig struct {
	// MaxConcurrent bounds simultaneously running analyses.
	// If zero or negative, defaults to 4.
	MaxConcurrent int

	// ExecutionTimeout caps one analysis run. Zero disables the timeout.
	ExecutionTimeout time.Duration

	// MaxFinished caps retained terminal records. Zero disables pruning.
	MaxFinished int
}

// DefaultExecutorConfig returns an ExecutorConfig with reasonable defaults.
func DefaultExecutorConfig() ExecutorConfig {
	return ExecutorConfig{
		MaxConcurrent:    4,
		ExecutionTimeout: 10 * time.Minute,
		MaxFinished:      500,
	}
}

// Executor drives each submitted task through its lifecycle: it creates
// the pending record, runs the analysis engine on a detached goroutine,
// relays progress into registry updates and finalizes the record.
//
// Errors inside an execution are contained to that task's record; they
// are never propagated back to the submitter, which has already received
// its task ID, and never affect other in-flight tasks.
type Executor struct {
	registry Registry
	engines  EngineProvider
	logger   *slog.Logger
	config   ExecutorConfig

	sem chan struct{}
	wg  sync.WaitGroup
}

// NewExecutor creates an Executor writing into the given registry.
func NewExecutor(
	registry Registry,
	engines EngineProvider,
	config ExecutorConfig,
	logger *slog.Logger,
) *Executor {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 4
	}

	return &Executor{
		registry: registry,
		engines:  engines,
		logger:   logger.With("component", "task_executor"),
		config:   config,
		sem:      make(chan struct{}, config.MaxConcurrent),
	}
}

// Submit registers a new analysis task and schedules its execution.
// It returns the generated task ID immediately and never blocks on the
// analysis itself; tasks past the concurrency bound wait in pending.
func (e *Executor) Submit(ctx context.Context, req analysis.Request) (uuid.UUID, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	rec := &Record{
		ID:       id,
		Status:   StatusPending,
		Progress: 0,
		Message:  "Task created, waiting to run...",
		Request:  req,
	}
	if err := e.registry.Insert(rec); err != nil {
		// Duplicate IDs mean broken identifier generation. Fail the
		// submission loudly; the process stays up.
		return uuid.Nil, fmt.Errorf("failed to register task: %w", err)
	}

	e.logger.Info("task submitted",
		"task_id", id,
		"symbol", req.Symbol,
		"research_depth", req.ResearchDepth)

	e.wg.Add(1)
	go e.execute(id, req)

	return id, nil
}

// execute runs one task to a terminal state. It runs detached from any
// request/response cycle and therefore never returns an error; everything
// that goes wrong becomes a failed record.
func (e *Executor) execute(id uuid.UUID, req analysis.Request) {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic during task execution", "task_id", id, "panic", r)
			e.finalizeFailure(id, fmt.Errorf("internal error: %v", r))
		}
	}()

	// Wait for an execution slot; the record stays pending meanwhile.
	e.sem <- struct{}{}
	defer func() { <-e.sem }()

	ctx := context.Background()
	if e.config.ExecutionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.ExecutionTimeout)
		defer cancel()
	}

	logger := e.logger.With("task_id", id, "symbol", req.Symbol)
	logger.Info("starting analysis")

	// Resolve the analysis date at execution time; the record keeps the
	// caller's original request untouched.
	runReq := req
	runReq.AnalysisDate = req.ResolveDate(time.Now())

	eng := e.engines.Engine()

	onProgress := func(percent int, message string) {
		_, err := e.registry.Update(id, func(rec *Record) {
			if rec.Status.Terminal() {
				return
			}
			rec.Status = StatusRunning
			if percent > rec.Progress {
				rec.Progress = percent
			}
			if rec.Progress > 100 {
				rec.Progress = 100
			}
			rec.Message = message
		})
		if err != nil {
			// The record may have been deleted mid-flight; the run
			// continues but has nowhere to report.
			logger.Warn("failed to record progress", "error", err)
		}
	}

	decision, err := eng.Run(ctx, runReq, onProgress)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		e.finalizeFailure(id, err)
		return
	}

	result := &analysis.Result{
		Symbol:        runReq.Symbol,
		AnalysisDate:  runReq.AnalysisDate,
		Decision:      decision,
		AnalystsUsed:  runReq.SelectedAnalysts,
		ResearchDepth: runReq.ResearchDepth,
		IsSimulated:   eng.Simulated(),
	}

	_, err = e.registry.Update(id, func(rec *Record) {
		if rec.Status.Terminal() {
			return
		}
		rec.Status = StatusCompleted
		rec.Progress = 100
		rec.Message = "Analysis complete"
		rec.Result = result
	})
	if err != nil {
		logger.Warn("failed to record completion", "error", err)
		return
	}

	logger.Info("analysis completed",
		"action", decision.Action,
		"simulated", eng.Simulated())
	e.prune()
}

// finalizeFailure marks the task failed with a diagnostic message,
// leaving progress at its last reported value.
func (e *Executor) finalizeFailure(id uuid.UUID, cause error) {
	_, err := e.registry.Update(id, func(rec *Record) {
		if rec.Status.Terminal() {
			return
		}
		rec.Status = StatusFailed
		rec.Message = fmt.Sprintf("Analysis failed: %v", cause)
	})
	if err != nil {
		e.logger.Warn("failed to record task failure", "task_id", id, "error", err)
		return
	}
	e.prune()
}

func (e *Executor) prune() {
	if n := e.registry.PruneFinished(e.config.MaxFinished); n > 0 {
		e.logger.Debug("pruned finished tasks", "count", n)
	}
}

// Shutdown waits for in-flight executions to finish or the context to
// expire, whichever comes first.
func (e *Executor) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown wait aborted: %w", ctx.Err())
	}
}
