package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Authcult/tradingagents-api/internal/analysis"
	"github.com/Authcult/tradingagents-api/internal/api/shared"
	"github.com/Authcult/tradingagents-api/internal/task"
)

// TaskSubmitter accepts analysis requests for asynchronous execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, req analysis.Request) (uuid.UUID, error)
}

// TaskQuerier exposes the read/delete operations over submitted tasks.
type TaskQuerier interface {
	Status(id uuid.UUID) (task.StatusSnapshot, error)
	Result(id uuid.UUID) (task.ResultOutcome, error)
	List(status task.Status, limit int) []task.StatusSnapshot
	Delete(id uuid.UUID) error
}

// AnalysisHandler handles analysis task HTTP requests.
type AnalysisHandler struct {
	submitter TaskSubmitter
	querier   TaskQuerier
	logger    *slog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(
	submitter TaskSubmitter,
	querier TaskQuerier,
	logger *slog.Logger,
) *AnalysisHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AnalysisHandler")
	}

	return &AnalysisHandler{
		submitter: submitter,
		querier:   querier,
		logger:    logger.With(slog.String("component", "analysis_handler")),
	}
}

// Submit handles POST /api/analysis/single requests. It registers the
// task and returns its identifier immediately; the analysis itself runs
// in the background.
func (h *AnalysisHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	taskID, err := h.submitter.Submit(r.Context(), req.ToDomain())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("analysis submitted",
		slog.String("task_id", taskID.String()),
		slog.String("symbol", req.Symbol))
	shared.RespondWithData(w, r, http.StatusOK, SubmitResponse{
		TaskID:  taskID.String(),
		Status:  string(task.StatusPending),
		Message: "Analysis task submitted",
	})
}

// SubmitBatch handles POST /api/analysis/batch requests, creating one
// task per symbol.
func (h *AnalysisHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchAnalysisRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("invalid request body", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Validation error", err)
		return
	}

	tasks := make([]SubmitResponse, 0, len(req.Symbols))
	for _, symbol := range req.Symbols {
		single := AnalysisRequest{
			Symbol:           symbol,
			AnalysisDate:     req.AnalysisDate,
			ResearchDepth:    req.ResearchDepth,
			SelectedAnalysts: req.SelectedAnalysts,
		}
		taskID, err := h.submitter.Submit(r.Context(), single.ToDomain())
		if err != nil {
			// One bad symbol should not discard the rest of the batch.
			tasks = append(tasks, SubmitResponse{
				Status:  string(task.StatusFailed),
				Message: fmt.Sprintf("%s: %s", symbol, GetSafeErrorMessage(err)),
			})
			continue
		}
		tasks = append(tasks, SubmitResponse{
			TaskID:  taskID.String(),
			Status:  string(task.StatusPending),
			Message: "Analysis task submitted",
		})
	}

	shared.RespondWithData(w, r, http.StatusOK, BatchSubmitResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}

// GetStatus handles GET /api/analysis/tasks/{id}/status requests.
func (h *AnalysisHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	snapshot, err := h.querier.Status(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, statusToResponse(snapshot))
}

// GetResult handles GET /api/analysis/tasks/{id}/result requests. A task
// that has not completed yet yields a not-ready response with HTTP 200;
// only unknown identifiers are errors.
func (h *AnalysisHandler) GetResult(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	outcome, err := h.querier.Result(id)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !outcome.Ready {
		shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
			Success: false,
			Message: fmt.Sprintf("Task not completed, current status: %s", outcome.Status),
			Data: NotReadyResponse{
				TaskID:   outcome.TaskID.String(),
				Status:   string(outcome.Status),
				Progress: outcome.Progress,
			},
		})
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, outcome.Result)
}

// ListTasks handles GET /api/analysis/tasks requests with optional
// status and limit query parameters.
func (h *AnalysisHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	status := task.Status(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	snapshots := h.querier.List(status, limit)
	tasks := make([]TaskStatusResponse, 0, len(snapshots))
	for _, s := range snapshots {
		tasks = append(tasks, statusToResponse(s))
	}

	shared.RespondWithData(w, r, http.StatusOK, TaskListResponse{
		Tasks: tasks,
		Total: len(tasks),
	})
}

// DeleteTask handles DELETE /api/analysis/tasks/{id} requests.
func (h *AnalysisHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.taskIDFromPath(w, r)
	if !ok {
		return
	}

	if err := h.querier.Delete(id); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.logger.Info("task deleted", slog.String("task_id", id.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, shared.Envelope{
		Success: true,
		Message: "Task deleted",
	})
}

// GetAnalysts handles GET /api/analysis/analysts requests: the static
// catalog of analyst identifiers with display metadata.
func (h *AnalysisHandler) GetAnalysts(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithData(w, r, http.StatusOK, analysis.Catalog())
}

// taskIDFromPath extracts and parses the task ID path parameter. Task
// identifiers are opaque, so a malformed one is indistinguishable from an
// unknown one and yields the same not-found response.
func (h *AnalysisHandler) taskIDFromPath(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Debug("malformed task id", slog.String("task_id", raw))
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return uuid.Nil, false
	}
	return id, true
}
