package core

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"
)

// Context is the processing environment handed to every processor handle on
// Init and Compute. One Context is built by the owner of a graph and shared
// by all of its nodes.
//
// Context is not safe for concurrent use; a graph is evaluated by one
// goroutine at a time.
type Context struct {
	cfg    ProcessorConfig
	rng    *rand.Rand
	logger *slog.Logger
	tick   uint64
}

// NewContext creates a Context from the default config and opts.
func NewContext(opts ...ProcessorOption) (*Context, error) {
	cfg := ApplyProcessorOptions(opts...)
	if err := validateSampleRate(cfg.SampleRate); err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Context{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}, nil
}

// MustContext is like NewContext but panics on error.
func MustContext(opts ...ProcessorOption) *Context {
	ctx, err := NewContext(opts...)
	if err != nil {
		panic("core: " + err.Error())
	}
	return ctx
}

// Config returns a copy of the context configuration.
func (c *Context) Config() ProcessorConfig { return c.cfg }

// SampleRate returns the sample rate in Hz.
func (c *Context) SampleRate() float64 { return c.cfg.SampleRate }

// BlockSize returns the preferred render block size in samples.
func (c *Context) BlockSize() int { return c.cfg.BlockSize }

// Strict reports whether out-of-range modulated values are errors.
func (c *Context) Strict() bool { return c.cfg.Strict }

// Logger returns the context logger. It is never nil.
func (c *Context) Logger() *slog.Logger { return c.logger }

// Rand returns the context random source.
func (c *Context) Rand() *rand.Rand { return c.rng }

// Tick returns the number of completed ticks.
func (c *Context) Tick() uint64 { return c.tick }

// Advance marks the end of one tick.
func (c *Context) Advance() { c.tick++ }

// SetSampleRate changes the sample rate. Handles initialized with the old
// rate must be re-created by their owner.
func (c *Context) SetSampleRate(sampleRate float64) error {
	if err := validateSampleRate(sampleRate); err != nil {
		return err
	}
	c.cfg.SampleRate = sampleRate
	return nil
}

func validateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || !IsFinite(sampleRate) {
		return fmt.Errorf("core: sample rate must be > 0: %f", sampleRate)
	}
	return nil
}
