package storage

import "go.uber.org/zap"

type EngineOption func(*Engine)

// WithLogger sets the engine's logger. The default is a no-op logger.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(engine *Engine) {
		engine.logger = logger
	}
}

// WithIDGenerator sets the generator used when an inserted document carries
// no id of its own. The default generates UUIDs.
func WithIDGenerator(gen func() string) EngineOption {
	return func(engine *Engine) {
		engine.newID = gen
	}
}
