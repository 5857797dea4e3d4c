// Package engine provides the analysis engine behind submitted tasks: a
// Gemini-backed multi-agent analyst pipeline when an API key is
// configured, and a simulated pipeline producing a canned decision when
// it is not.
package engine

import (
	"context"

	"github.com/Authcult/tradingagents-api/internal/analysis"
)

// ProgressFunc reports coarse-grained stage advancement during a run.
// Implementations of Engine call it with a non-decreasing percentage in
// [0, 100] and a human-readable stage description.
type ProgressFunc func(percent int, message string)

// Engine runs one analysis to completion. Run blocks until it either
// returns a decision or fails; it makes exactly one of those terminal
// outcomes per invocation. Callers are expected to invoke Run off their
// request path.
type Engine interface {
	// Run executes the analysis for the given request. The request's
	// AnalysisDate has already been resolved to a concrete day.
	Run(ctx context.Context, req analysis.Request, report ProgressFunc) (analysis.Decision, error)

	// Simulated reports whether this engine produces canned,
	// non-authoritative decisions.
	Simulated() bool
}
