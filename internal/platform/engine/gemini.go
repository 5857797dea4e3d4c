package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/Authcult/tradingagents-api/internal/analysis"
	"github.com/Authcult/tradingagents-api/internal/config"
)

// Engine execution errors.
var (
	// ErrClientConstruction is returned when the Gemini client cannot be
	// built at run time. This surfaces as a failed task, not a fallback.
	ErrClientConstruction = errors.New("failed to construct gemini client")

	// ErrInvalidResponse is returned when the model's output cannot be
	// turned into a decision.
	ErrInvalidResponse = errors.New("invalid engine response")
)

// analystRoles maps each analyst to the perspective it argues in the
// debate. Mirrors the roles of the multi-agent trading framework.
var analystRoles = map[analysis.Analyst]string{
	analysis.AnalystMarket:       "a market analyst focused on price action, trend and technical indicators (RSI, MACD, moving averages)",
	analysis.AnalystSocial:       "a social media analyst focused on retail sentiment and public opinion",
	analysis.AnalystNews:         "a news analyst focused on recent headlines, macro events and industry developments",
	analysis.AnalystFundamentals: "a fundamentals analyst focused on financial statements, valuation and company health",
}

// GeminiEngine runs the multi-agent analysis against the Gemini API: one
// generation call per selected analyst, then a synthesis call that debates
// the analyst reports for the configured number of rounds and emits the
// final decision as JSON.
type GeminiEngine struct {
	cfg    config.EngineConfig
	logger *slog.Logger
}

// NewGeminiEngine creates the real engine. The genai client itself is
// constructed per run so that construction failures are attributed to the
// execution that hit them.
func NewGeminiEngine(cfg config.EngineConfig, logger *slog.Logger) *GeminiEngine {
	return &GeminiEngine{
		cfg:    cfg,
		logger: logger.With("component", "gemini_engine"),
	}
}

// Simulated implements Engine.
func (e *GeminiEngine) Simulated() bool { return false }

// Run implements Engine.
func (e *GeminiEngine) Run(
	ctx context.Context,
	req analysis.Request,
	report ProgressFunc,
) (analysis.Decision, error) {
	report(10, "Initializing analysis engine...")

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  e.cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return analysis.Decision{}, fmt.Errorf("%w: %v", ErrClientConstruction, err)
	}

	report(20, "Configuring analysis parameters...")
	debateRounds := req.ResearchDepth

	report(30, "Initializing analyst agents...")
	analysts := req.SelectedAnalysts

	report(50, "Analyst team analyzing...")
	sections := make(map[analysis.Analyst]string, len(analysts))
	for _, a := range analysts {
		section, err := e.generateWithRetry(ctx, client, analystPrompt(a, req))
		if err != nil {
			return analysis.Decision{}, fmt.Errorf("%s analyst failed: %w", a, err)
		}
		sections[a] = section
	}

	report(90, "Generating analysis report...")
	raw, err := e.generateWithRetry(ctx, client, synthesisPrompt(req, sections, debateRounds))
	if err != nil {
		return analysis.Decision{}, fmt.Errorf("decision synthesis failed: %w", err)
	}

	decision, err := parseDecision(raw)
	if err != nil {
		return analysis.Decision{}, err
	}
	return decision, nil
}

// generateWithRetry calls the Gemini API with exponential backoff and
// jitter on transient failures. Parse-level failures are not retried; the
// model is unlikely to do better on an identical prompt.
func (e *GeminiEngine) generateWithRetry(
	ctx context.Context,
	client *genai.Client,
	prompt string,
) (string, error) {
	maxRetries := e.cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 2s, 4s, 8s... plus up to 1s of jitter.
			delay := time.Duration(1<<uint(attempt))*time.Second +
				time.Duration(rng.Intn(1000))*time.Millisecond
			e.logger.Warn("retrying gemini call",
				"attempt", attempt+1,
				"max_attempts", maxRetries+1,
				"delay", delay,
				"error", lastErr)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := client.Models.GenerateContent(ctx, e.cfg.ModelName, genai.Text(prompt), nil)
		if err != nil {
			lastErr = err
			continue
		}
		text := resp.Text()
		if text == "" {
			lastErr = fmt.Errorf("%w: empty response", ErrInvalidResponse)
			continue
		}
		return text, nil
	}
	return "", fmt.Errorf("gemini call failed after %d attempts: %w", maxRetries+1, lastErr)
}

// analystPrompt builds the generation prompt for one analyst agent.
func analystPrompt(a analysis.Analyst, req analysis.Request) string {
	return fmt.Sprintf(
		"You are %s on a trading research team.\n"+
			"Write a concise assessment (4-6 sentences) of the stock %s as of %s "+
			"from your specialty's point of view. Research depth level: %d of 3.",
		analystRoles[a], req.Symbol, req.AnalysisDate, req.ResearchDepth)
}

// synthesisPrompt builds the final debate-and-decide prompt.
func synthesisPrompt(
	req analysis.Request,
	sections map[analysis.Analyst]string,
	debateRounds int,
) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"You are the portfolio manager of a trading research team deciding on %s as of %s.\n"+
			"Your analysts reported:\n\n", req.Symbol, req.AnalysisDate)
	for _, a := range req.SelectedAnalysts {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", a, sections[a])
	}
	fmt.Fprintf(&b,
		"Weigh the bull and bear cases over %d debate round(s), then output ONLY a JSON object "+
			"with exactly these fields:\n"+
			`{"action": "BUY"|"SELL"|"HOLD", "confidence": <0..1>, "summary": "...", `+
			`"technical_analysis": "...", "fundamental_analysis": "...", `+
			`"news_sentiment": "...", "risk_assessment": "..."}`,
		debateRounds)
	return b.String()
}

// parseDecision extracts and validates the decision JSON from model output,
// tolerating surrounding prose or markdown code fences.
func parseDecision(raw string) (analysis.Decision, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return analysis.Decision{}, fmt.Errorf("%w: no JSON object in output", ErrInvalidResponse)
	}

	var decision analysis.Decision
	if err := json.Unmarshal([]byte(raw[start:end+1]), &decision); err != nil {
		return analysis.Decision{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	decision.Action = analysis.Action(strings.ToUpper(string(decision.Action)))
	if !decision.Action.Valid() {
		return analysis.Decision{}, fmt.Errorf("%w: unrecognized action %q",
			ErrInvalidResponse, decision.Action)
	}
	if decision.Confidence < 0 {
		decision.Confidence = 0
	}
	if decision.Confidence > 1 {
		decision.Confidence = 1
	}
	return decision, nil
}
