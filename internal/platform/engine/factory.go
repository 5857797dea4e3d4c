package engine

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Authcult/tradingagents-api/internal/config"
)

// Availability is the outcome of the capability probe: either the real
// engine can be constructed, or it cannot and Reason says why.
type Availability struct {
	Available bool
	Reason    string
}

// Factory decides once, up front, whether the real engine is usable and
// hands out the matching Engine. The decision is a capability check on
// configuration, not a trial execution: a failure while the real engine
// is actually running (including client construction at run time) is an
// execution failure, never a silent downgrade to the simulated path.
type Factory struct {
	cfg    config.EngineConfig
	logger *slog.Logger

	once   sync.Once
	avail  Availability
	engine Engine
}

// NewFactory creates a factory for the given engine configuration.
func NewFactory(cfg config.EngineConfig, logger *slog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger.With("component", "engine_factory"),
	}
}

// Availability returns the cached capability probe result.
func (f *Factory) Availability() Availability {
	f.probe()
	return f.avail
}

// Engine returns the engine selected by the capability probe. The choice
// is made once and cached for the factory's lifetime.
func (f *Factory) Engine() Engine {
	f.probe()
	return f.engine
}

func (f *Factory) probe() {
	f.once.Do(func() {
		if f.cfg.GeminiAPIKey == "" {
			f.avail = Availability{
				Available: false,
				Reason:    "no Gemini API key configured",
			}
			delay := f.cfg.SimulatedStepDelay
			if delay <= 0 {
				delay = 1500 * time.Millisecond
			}
			f.engine = NewSimulatedEngine(delay, f.logger)
			f.logger.Warn("real analysis engine unavailable, using simulated fallback",
				"reason", f.avail.Reason)
			return
		}

		f.avail = Availability{Available: true}
		f.engine = NewGeminiEngine(f.cfg, f.logger)
		f.logger.Info("real analysis engine selected",
			"model", f.cfg.ModelName)
	})
}
