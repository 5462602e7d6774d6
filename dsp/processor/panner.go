package processor

import (
	"math"

	"github.com/cwbudde/algo-modgraph/dsp/core"
)

// Panner places a mono input in the stereo field with an equal-power law.
//
// Fields: "pan" in [-1, 1], -1 is hard left.
type Panner struct {
	pan float64

	fieldTable fields
}

var _ StereoHandle = (*Panner)(nil)

// NewPanner creates a centered panner.
func NewPanner() *Panner {
	p := &Panner{}
	p.fieldTable = fields{"pan": &p.pan}
	return p
}

// Init is a no-op; the panner holds no sample-rate dependent state.
func (p *Panner) Init(_ *core.Context, _ ...float64) error { return nil }

// Compute returns the left channel.
func (p *Panner) Compute(ctx *core.Context, in float64) float64 {
	left, _ := p.ComputeStereo(ctx, in)
	return left
}

// ComputeStereo returns both channels for one input sample.
func (p *Panner) ComputeStereo(_ *core.Context, in float64) (float64, float64) {
	angle := (core.Clamp(p.pan, -1, 1) + 1) * math.Pi / 4
	return in * math.Cos(angle), in * math.Sin(angle)
}

// Field exposes "pan".
func (p *Panner) Field(name string) (*float64, error) { return p.fieldTable.lookup(name) }

// Destroy invalidates the field table.
func (p *Panner) Destroy() { p.fieldTable = nil }
