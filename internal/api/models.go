package api

import (
	"time"

	"github.com/Authcult/tradingagents-api/internal/analysis"
	"github.com/Authcult/tradingagents-api/internal/task"
)

// AnalysisRequest is the request body for submitting a single analysis.
type AnalysisRequest struct {
	Symbol           string   `json:"symbol"                     validate:"required"`
	AnalysisDate     string   `json:"analysis_date,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	ResearchDepth    int      `json:"research_depth"             validate:"omitempty,gte=1,lte=3"`
	SelectedAnalysts []string `json:"selected_analysts"          validate:"omitempty,dive,oneof=market social news fundamentals"`
}

// ToDomain converts the request body into the domain request type.
func (r AnalysisRequest) ToDomain() analysis.Request {
	analysts := make([]analysis.Analyst, 0, len(r.SelectedAnalysts))
	for _, a := range r.SelectedAnalysts {
		analysts = append(analysts, analysis.Analyst(a))
	}
	return analysis.Request{
		Symbol:           r.Symbol,
		AnalysisDate:     r.AnalysisDate,
		ResearchDepth:    r.ResearchDepth,
		SelectedAnalysts: analysts,
	}
}

// BatchAnalysisRequest is the request body for submitting one analysis
// per symbol.
type BatchAnalysisRequest struct {
	Symbols          []string `json:"symbols"                    validate:"required,min=1,dive,required"`
	AnalysisDate     string   `json:"analysis_date,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	ResearchDepth    int      `json:"research_depth"             validate:"omitempty,gte=1,lte=3"`
	SelectedAnalysts []string `json:"selected_analysts"          validate:"omitempty,dive,oneof=market social news fundamentals"`
}

// SubmitResponse acknowledges one accepted task.
type SubmitResponse struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// BatchSubmitResponse acknowledges a batch submission.
type BatchSubmitResponse struct {
	Tasks []SubmitResponse `json:"tasks"`
	Total int              `json:"total"`
}

// TaskStatusResponse is the polling view of one task.
type TaskStatusResponse struct {
	TaskID    string    `json:"task_id"`
	Status    string    `json:"status"`
	Progress  int       `json:"progress"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListResponse carries a page of task status snapshots, newest first.
type TaskListResponse struct {
	Tasks []TaskStatusResponse `json:"tasks"`
	Total int                  `json:"total"`
}

// NotReadyResponse describes a task whose result is not available yet.
type NotReadyResponse struct {
	TaskID   string `json:"task_id"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
}

func statusToResponse(s task.StatusSnapshot) TaskStatusResponse {
	return TaskStatusResponse{
		TaskID:    s.ID.String(),
		Status:    string(s.Status),
		Progress:  s.Progress,
		Message:   s.Message,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
