// Package analysis defines the domain types for stock analysis requests
// and the decisions produced by the analyst engine.
package analysis

import (
	"errors"
	"fmt"
	"time"
)

// Analyst identifies one member of the analyst team.
type Analyst string

// Known analyst identifiers.
const (
	AnalystMarket       Analyst = "market"
	AnalystSocial       Analyst = "social"
	AnalystNews         Analyst = "news"
	AnalystFundamentals Analyst = "fundamentals"
)

// Research depth bounds accepted by the API.
const (
	MinResearchDepth = 1
	MaxResearchDepth = 3
)

// DateLayout is the wire format for analysis dates.
const DateLayout = "2006-01-02"

// Validation errors for analysis requests.
var (
	ErrInvalidRequest = errors.New("invalid analysis request")
	ErrEmptySymbol    = fmt.Errorf("%w: symbol cannot be empty", ErrInvalidRequest)
	ErrUnknownAnalyst = fmt.Errorf("%w: unknown analyst", ErrInvalidRequest)
	ErrInvalidDepth   = fmt.Errorf("%w: research depth out of range", ErrInvalidRequest)
	ErrInvalidDate    = fmt.Errorf("%w: analysis date must be YYYY-MM-DD", ErrInvalidRequest)
)

// Valid reports whether a is one of the known analyst identifiers.
func (a Analyst) Valid() bool {
	switch a {
	case AnalystMarket, AnalystSocial, AnalystNews, AnalystFundamentals:
		return true
	}
	return false
}

// DefaultAnalysts returns the analyst team used when a request does not
// select one explicitly.
func DefaultAnalysts() []Analyst {
	return []Analyst{AnalystMarket, AnalystNews, AnalystFundamentals}
}

// Request is the immutable snapshot of one submitted analysis.
type Request struct {
	Symbol           string    `json:"symbol"`
	AnalysisDate     string    `json:"analysis_date,omitempty"`
	ResearchDepth    int       `json:"research_depth"`
	SelectedAnalysts []Analyst `json:"selected_analysts"`
}

// Normalize fills in the documented defaults for optional fields.
// It does not resolve an empty AnalysisDate; that happens at execution
// time so the snapshot records what the caller actually sent.
func (r *Request) Normalize() {
	if r.ResearchDepth == 0 {
		r.ResearchDepth = MinResearchDepth
	}
	if len(r.SelectedAnalysts) == 0 {
		r.SelectedAnalysts = DefaultAnalysts()
	}
}

// Validate checks the request against the documented constraints.
func (r Request) Validate() error {
	if r.Symbol == "" {
		return ErrEmptySymbol
	}
	if r.ResearchDepth < MinResearchDepth || r.ResearchDepth > MaxResearchDepth {
		return fmt.Errorf("%w: got %d", ErrInvalidDepth, r.ResearchDepth)
	}
	for _, a := range r.SelectedAnalysts {
		if !a.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownAnalyst, a)
		}
	}
	if r.AnalysisDate != "" {
		if _, err := time.Parse(DateLayout, r.AnalysisDate); err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidDate, r.AnalysisDate)
		}
	}
	return nil
}

// ResolveDate returns the analysis date to run against: the requested
// date if present, otherwise the given reference time formatted as a day.
func (r Request) ResolveDate(now time.Time) string {
	if r.AnalysisDate != "" {
		return r.AnalysisDate
	}
	return now.UTC().Format(DateLayout)
}

// Action is the trading action recommended by a Decision.
type Action string

// Possible decision actions.
const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// Valid reports whether a is a recognized action.
func (a Action) Valid() bool {
	switch a {
	case ActionBuy, ActionSell, ActionHold:
		return true
	}
	return false
}

// Decision is the structured output of one analysis run.
type Decision struct {
	Action              Action  `json:"action"`
	Confidence          float64 `json:"confidence"`
	Summary             string  `json:"summary"`
	TechnicalAnalysis   string  `json:"technical_analysis"`
	FundamentalAnalysis string  `json:"fundamental_analysis"`
	NewsSentiment       string  `json:"news_sentiment"`
	RiskAssessment      string  `json:"risk_assessment"`
}

// Result is the completed outcome of a task: the decision plus an echo of
// the request it answered. IsSimulated marks decisions produced by the
// canned fallback pipeline rather than the real engine.
type Result struct {
	Symbol        string    `json:"symbol"`
	AnalysisDate  string    `json:"analysis_date"`
	Decision      Decision  `json:"decision"`
	AnalystsUsed  []Analyst `json:"analysts_used"`
	ResearchDepth int       `json:"research_depth"`
	IsSimulated   bool      `json:"is_simulated"`
}
