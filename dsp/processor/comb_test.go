package processor

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-modgraph/dsp/core"
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

func TestCombImpulseLatency(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, core.WithSampleRate(44100))
	c := NewComb()
	if err := c.Init(ctx, 0.1); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := c.LoopSamples(); got != 4410 {
		t.Fatalf("LoopSamples = %d, want 4410", got)
	}

	in := testutil.Impulse(3*4410, 0)
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = c.Compute(ctx, x)
	}

	testutil.RequireSilent(t, out, 0, 4410, 1e-6)
	if out[4410] != 1 {
		t.Fatalf("first echo = %v, want 1", out[4410])
	}

	want := math.Pow(0.001, 0.1/1.0)
	if math.Abs(out[2*4410]-want) > 1e-12 {
		t.Fatalf("second echo = %v, want %v", out[2*4410], want)
	}
	testutil.RequireFinite(t, out)
}

func TestCombFeedbackFollowsReverbTime(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	c := NewComb()
	if err := c.Init(ctx, 0.05); err != nil {
		t.Fatalf("Init: %v", err)
	}

	rev, err := c.Field("revtime")
	if err != nil {
		t.Fatalf("Field: %v", err)
	}

	tests := []struct {
		rev  float64
		want float64
	}{
		{rev: 1, want: math.Pow(0.001, 0.05)},
		{rev: 2, want: math.Pow(0.001, 0.025)},
		{rev: 0, want: 0},
	}

	for _, tt := range tests {
		*rev = tt.rev
		c.Compute(ctx, 0)
		if math.Abs(c.Feedback()-tt.want) > 1e-9 {
			t.Fatalf("revtime %v: feedback = %v, want %v", tt.rev, c.Feedback(), tt.want)
		}
	}
}

func TestCombInitRejectsShortLoop(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	for _, loop := range []float64{0, -1, 1e-6, math.NaN()} {
		if err := NewComb().Init(ctx, loop); err == nil {
			t.Fatalf("Init(%v): expected error", loop)
		}
	}
}

func TestCombDefaultLoopTime(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t, core.WithSampleRate(48000))
	c := NewComb()
	if err := c.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if got := c.LoopSamples(); got != 4800 {
		t.Fatalf("LoopSamples = %d, want 4800", got)
	}
}

func TestCombDestroyInvalidatesFields(t *testing.T) {
	t.Parallel()

	c := NewComb()
	if err := c.Init(newTestContext(t)); err != nil {
		t.Fatalf("Init: %v", err)
	}
	c.Destroy()

	if _, err := c.Field("revtime"); !errors.Is(err, ErrDestroyed) {
		t.Fatalf("Field after Destroy: err = %v, want ErrDestroyed", err)
	}
	if c.LoopSamples() != 0 {
		t.Fatal("LoopSamples after Destroy should be 0")
	}
}
