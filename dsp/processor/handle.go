package processor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cwbudde/algo-modgraph/dsp/core"
)

var (
	// ErrUnknownField is returned by Field for names the handle does not expose.
	ErrUnknownField = errors.New("processor: unknown field")
	// ErrDestroyed is returned by Field once the handle has been destroyed.
	ErrDestroyed = errors.New("processor: handle destroyed")
)

// Handle is the opaque per-algorithm state owned by exactly one node.
type Handle interface {
	// Init prepares the handle for the context sample rate. args are the
	// construction-only arguments of the algorithm, in declaration order.
	Init(ctx *core.Context, args ...float64) error
	// Compute advances the handle by one sample.
	Compute(ctx *core.Context, in float64) float64
	// Field returns the address of a named runtime parameter.
	Field(name string) (*float64, error)
	// Destroy releases the handle state. The handle must not be used afterwards.
	Destroy()
}

// StereoHandle is implemented by handles that produce independent left and
// right channels.
type StereoHandle interface {
	Handle
	ComputeStereo(ctx *core.Context, in float64) (left, right float64)
}

// Factory creates an uninitialized handle. samples is the recorded buffer of
// a playback handle and nil for every other algorithm.
type Factory func(samples []float64) Handle

// fields maps parameter names to handle storage.
type fields map[string]*float64

func (f fields) lookup(name string) (*float64, error) {
	if f == nil {
		return nil, ErrDestroyed
	}

	ptr, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownField, name, f.names())
	}

	return ptr, nil
}

func (f fields) names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// arg returns args[i] or def when the argument was not supplied.
func arg(args []float64, i int, def float64) float64 {
	if i < len(args) {
		return args[i]
	}
	return def
}
