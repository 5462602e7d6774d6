package processor

import "github.com/cwbudde/algo-modgraph/dsp/core"

// Playback plays a fixed sample buffer once and then outputs silence.
//
// Fields: "amp" linear.
type Playback struct {
	amp float64

	samples    []float64
	pos        int
	fieldTable fields
}

// NewPlayback creates a player for a copy of samples.
func NewPlayback(samples []float64) *Playback {
	p := &Playback{amp: 1, samples: append([]float64(nil), samples...)}
	p.fieldTable = fields{"amp": &p.amp}
	return p
}

// Init rewinds to the first sample.
func (p *Playback) Init(_ *core.Context, _ ...float64) error {
	p.pos = 0
	return nil
}

// Compute returns the next buffered sample. The input is ignored.
func (p *Playback) Compute(_ *core.Context, _ float64) float64 {
	if p.pos >= len(p.samples) {
		return 0
	}
	out := p.samples[p.pos] * p.amp
	p.pos++
	return out
}

// Field exposes "amp".
func (p *Playback) Field(name string) (*float64, error) { return p.fieldTable.lookup(name) }

// Destroy releases the sample buffer.
func (p *Playback) Destroy() {
	p.samples = nil
	p.fieldTable = nil
}

// Remaining returns the number of samples left to play.
func (p *Playback) Remaining() int { return max(len(p.samples)-p.pos, 0) }
