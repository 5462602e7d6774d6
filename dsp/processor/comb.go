package processor

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/delay"
)

const (
	defaultCombLoopTime   = 0.1
	defaultCombReverbTime = 1.0
	combDecayLevel        = 0.001 // -60 dB
)

// Comb is a feedback comb filter that reiterates its input with an echo
// density set by the loop time. Output starts after one loop time: the
// first floor(loopTime*sampleRate) samples are silent.
//
// Fields: "revtime" is the time in seconds for an echo to decay by 60 dB.
// Init args: loop time in seconds (default 0.1).
type Comb struct {
	revtime float64

	loopTime   float64
	lastRev    float64
	coef       float64
	line       *delay.Line
	fieldTable fields
}

// NewComb creates an uninitialized comb filter handle.
func NewComb() *Comb {
	c := &Comb{revtime: defaultCombReverbTime}
	c.fieldTable = fields{"revtime": &c.revtime}
	return c
}

// Init allocates the loop buffer for args[0] seconds at the context rate.
func (c *Comb) Init(ctx *core.Context, args ...float64) error {
	loopTime := arg(args, 0, defaultCombLoopTime)

	size, err := delay.Samples(loopTime, ctx.SampleRate())
	if err != nil {
		return fmt.Errorf("comb: loop time: %w", err)
	}

	line, err := delay.New(size)
	if err != nil {
		return fmt.Errorf("comb: %w", err)
	}

	c.loopTime = loopTime
	c.line = line
	c.lastRev = math.NaN()

	return nil
}

// Compute processes one input sample.
func (c *Comb) Compute(_ *core.Context, in float64) float64 {
	if c.revtime != c.lastRev {
		c.lastRev = c.revtime
		c.coef = combFeedback(c.loopTime, c.revtime)
	}

	out := c.line.Oldest()
	c.line.Write(core.FlushDenormals(out*c.coef + in))

	return out
}

// Field exposes "revtime".
func (c *Comb) Field(name string) (*float64, error) { return c.fieldTable.lookup(name) }

// Destroy releases the loop buffer.
func (c *Comb) Destroy() {
	c.line = nil
	c.fieldTable = nil
}

// LoopSamples returns the loop length in samples, or 0 before Init.
func (c *Comb) LoopSamples() int {
	if c.line == nil {
		return 0
	}
	return c.line.Len()
}

// Feedback returns the feedback coefficient used by the last Compute.
func (c *Comb) Feedback() float64 { return c.coef }

// combFeedback returns the gain applied per loop so that an echo decays
// by 60 dB after reverbTime seconds.
func combFeedback(loopTime, reverbTime float64) float64 {
	if reverbTime <= 0 || math.IsNaN(reverbTime) {
		return 0
	}
	return mathExp(math.Log(combDecayLevel) * loopTime / reverbTime)
}
