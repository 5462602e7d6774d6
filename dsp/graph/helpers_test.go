package graph

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/processor"
	"github.com/cwbudde/algo-modgraph/internal/testutil"
)

func newTestContext(t testing.TB, opts ...core.ProcessorOption) *core.Context {
	t.Helper()
	ctx, err := core.NewContext(append([]core.ProcessorOption{core.WithSeed(1)}, opts...)...)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

// mustNode returns a function that fails t when a node constructor errs.
func mustNode(t testing.TB) func(*Node, error) *Node {
	return func(n *Node, err error) *Node {
		t.Helper()
		if err != nil {
			t.Fatalf("build node: %v", err)
		}
		return n
	}
}

// dcSource returns a playback node holding value for length samples.
func dcSource(t testing.TB, ctx *core.Context, value float64, length int) *Node {
	t.Helper()
	return mustNode(t)(NewPlayback(ctx, testutil.DC(value, length), Constant(1), WithName("dc")))
}

// kindOptions returns the options that make kind constructible with src as
// its input.
func kindOptions(kind Kind, src *Node) []NodeOption {
	v := variants[kind]
	if v.minInputs == 0 {
		return nil
	}
	return []NodeOption{WithInput(src)}
}

// kindRefusing is a test-only kind whose handle always fails Init.
const kindRefusing Kind = 250

var (
	errInitRefused   = errors.New("init refused")
	refusingDestroys atomic.Int64
)

type refusingHandle struct{ level float64 }

func (h *refusingHandle) Init(*core.Context, ...float64) error { return errInitRefused }

func (h *refusingHandle) Compute(*core.Context, float64) float64 { return 0 }

func (h *refusingHandle) Field(name string) (*float64, error) {
	if name != "level" {
		return nil, processor.ErrUnknownField
	}
	return &h.level, nil
}

func (h *refusingHandle) Destroy() { refusingDestroys.Add(1) }

func init() {
	variants[kindRefusing] = &variant{
		kind:    kindRefusing,
		name:    "refusing",
		slots:   []Slot{{Name: "level", Field: "level", Max: 1}},
		factory: func([]float64) processor.Handle { return &refusingHandle{} },
	}
}
