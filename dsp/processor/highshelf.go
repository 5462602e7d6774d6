package processor

import (
	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/filter/biquad"
	"github.com/cwbudde/algo-modgraph/dsp/filter/design"
)

// HighShelf is a high-shelf parametric equalizer. Coefficients are
// redesigned whenever a field changes; values the designer rejects keep
// the previous response.
//
// Fields: "fc" corner frequency in Hz, "v" linear shelf gain, "q".
type HighShelf struct {
	fc float64
	v  float64
	q  float64

	sampleRate float64
	last       [3]float64
	section    *biquad.Section
	fieldTable fields
}

// NewHighShelf creates an uninitialized shelf at 1 kHz, unity gain, q=0.707.
func NewHighShelf() *HighShelf {
	h := &HighShelf{fc: 1000, v: 1, q: 0.707}
	h.fieldTable = fields{"fc": &h.fc, "v": &h.v, "q": &h.q}
	return h
}

// Init designs the initial response for the context sample rate.
func (h *HighShelf) Init(ctx *core.Context, _ ...float64) error {
	h.sampleRate = ctx.SampleRate()
	h.section = biquad.NewSection(biquad.Coefficients{B0: 1})
	h.redesign()
	return nil
}

// Compute filters one sample.
func (h *HighShelf) Compute(_ *core.Context, in float64) float64 {
	if h.last != [3]float64{h.fc, h.v, h.q} {
		h.redesign()
	}
	return h.section.ProcessSample(in)
}

// Field exposes "fc", "v" and "q".
func (h *HighShelf) Field(name string) (*float64, error) { return h.fieldTable.lookup(name) }

// Destroy releases the filter section.
func (h *HighShelf) Destroy() {
	h.section = nil
	h.fieldTable = nil
}

// Coefficients returns the active biquad coefficients.
func (h *HighShelf) Coefficients() biquad.Coefficients {
	if h.section == nil {
		return biquad.Coefficients{}
	}
	return h.section.Coefficients
}

func (h *HighShelf) redesign() {
	h.last = [3]float64{h.fc, h.v, h.q}
	if h.v <= 0 {
		return
	}

	c := design.HighShelf(h.fc, core.LinearToDB(h.v), h.q, h.sampleRate)
	if c.IsZero() {
		return
	}
	h.section.SetCoefficients(c)
}
