package core

import "log/slog"

// ProcessorConfig defines the processing settings shared by every node of a graph.
type ProcessorConfig struct {
	SampleRate float64
	BlockSize  int

	// Seed seeds the context random source. Zero selects a time-derived seed.
	Seed int64

	// Strict makes out-of-range modulated parameter values fail instead of
	// being clamped into the declared slot range.
	Strict bool

	Logger *slog.Logger
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for offline and streaming use.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		BlockSize:  512,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithBlockSize sets the processing block size.
func WithBlockSize(blockSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if blockSize > 0 {
			cfg.BlockSize = blockSize
		}
	}
}

// WithSeed makes the context random source reproducible.
func WithSeed(seed int64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Seed = seed
	}
}

// WithStrict selects fail-fast range checking for modulated parameters.
func WithStrict(strict bool) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		cfg.Strict = strict
	}
}

// WithLogger sets the structured logger used by nodes and graphs.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
