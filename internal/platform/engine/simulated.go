package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Authcult/tradingagents-api/internal/analysis"
)

// simulatedStep is one canned stage of the fallback pipeline.
type simulatedStep struct {
	percent int
	message string
}

// The simulated pipeline walks the same conceptual stages the real
// analyst team does: data retrieval, per-analyst analysis, debate,
// decision synthesis.
var simulatedSteps = []simulatedStep{
	{10, "Initializing analysis engine..."},
	{20, "Fetching market data..."},
	{40, "Market analyst reviewing technical indicators..."},
	{60, "News analyst reviewing recent headlines..."},
	{80, "Fundamentals analyst reviewing financial data..."},
	{90, "Research team debating positions..."},
	{95, "Synthesizing final decision..."},
}

// SimulatedEngine emits a fixed ascending progress sequence separated by
// short delays and returns a canned HOLD decision marked as simulated.
type SimulatedEngine struct {
	stepDelay time.Duration
	logger    *slog.Logger
}

// NewSimulatedEngine creates the fallback engine. stepDelay is the pause
// between stages; tests inject a near-zero delay.
func NewSimulatedEngine(stepDelay time.Duration, logger *slog.Logger) *SimulatedEngine {
	return &SimulatedEngine{
		stepDelay: stepDelay,
		logger:    logger.With("component", "simulated_engine"),
	}
}

// Simulated implements Engine.
func (e *SimulatedEngine) Simulated() bool { return true }

// Run implements Engine. It honors context cancellation between stages
// but otherwise always succeeds.
func (e *SimulatedEngine) Run(
	ctx context.Context,
	req analysis.Request,
	report ProgressFunc,
) (analysis.Decision, error) {
	e.logger.Info("running simulated analysis",
		"symbol", req.Symbol,
		"analysis_date", req.AnalysisDate)

	for _, step := range simulatedSteps {
		report(step.percent, step.message)

		select {
		case <-time.After(e.stepDelay):
		case <-ctx.Done():
			return analysis.Decision{}, ctx.Err()
		}
	}

	return cannedDecision(req.Symbol), nil
}

// cannedDecision builds the fixed fallback decision for a symbol.
func cannedDecision(symbol string) analysis.Decision {
	return analysis.Decision{
		Action:     analysis.ActionHold,
		Confidence: 0.75,
		Summary: fmt.Sprintf(
			"Based on a comprehensive review of %s, the analyst team recommends holding. "+
				"Technical indicators show the stock consolidating, fundamentals remain solid, "+
				"and we suggest watching market developments before acting.", symbol),
		TechnicalAnalysis: "RSI sits in neutral territory, MACD shows a weak bullish signal, " +
			"and short-term moving averages are close to crossing the long-term trend.",
		FundamentalAnalysis: "Financials are healthy with steady revenue growth, " +
			"though the current valuation is somewhat rich.",
		NewsSentiment: "Recent news sentiment is broadly neutral with no major " +
			"positive or negative catalysts.",
		RiskAssessment: "Market volatility is elevated; keep position sizes moderate " +
			"and maintain stop-loss levels.",
	}
}
