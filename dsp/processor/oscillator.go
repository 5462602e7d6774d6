package processor

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modgraph/dsp/core"
)

// Waveform selectors accepted as the first Init argument of an Oscillator.
const (
	WaveformSine     = 0
	WaveformTriangle = 1
)

// Oscillator is a sine or triangle generator. Both waveforms start at zero
// and rise towards +amp.
//
// Fields: "freq" in Hz, "amp" linear.
type Oscillator struct {
	freq float64
	amp  float64

	waveform   int
	phase      float64
	sampleRate float64
	fieldTable fields
}

// NewOscillator creates an uninitialized 440 Hz oscillator at amplitude 0.5.
func NewOscillator() *Oscillator {
	o := &Oscillator{freq: 440, amp: 0.5}
	o.fieldTable = fields{"freq": &o.freq, "amp": &o.amp}
	return o
}

// Init resets the phase. args[0] selects the waveform and defaults to
// WaveformSine.
func (o *Oscillator) Init(ctx *core.Context, args ...float64) error {
	switch w := arg(args, 0, WaveformSine); w {
	case WaveformSine, WaveformTriangle:
		o.waveform = int(w)
	default:
		return fmt.Errorf("oscillator: unknown waveform %g", w)
	}

	o.sampleRate = ctx.SampleRate()
	o.phase = 0
	return nil
}

// Compute returns the next sample. The input is ignored.
func (o *Oscillator) Compute(_ *core.Context, _ float64) float64 {
	var out float64
	if o.waveform == WaveformTriangle {
		out = o.amp * triangle(o.phase)
	} else {
		out = o.amp * math.Sin(2*math.Pi*o.phase)
	}

	o.phase += o.freq / o.sampleRate
	o.phase -= math.Floor(o.phase)

	return out
}

// Field exposes "freq" and "amp".
func (o *Oscillator) Field(name string) (*float64, error) { return o.fieldTable.lookup(name) }

// Destroy invalidates the field table.
func (o *Oscillator) Destroy() { o.fieldTable = nil }

// triangle maps a phase in [0, 1) onto a unit triangle in phase with sin.
func triangle(phase float64) float64 {
	t := phase + 0.25
	t -= math.Floor(t)
	return 1 - 4*math.Abs(t-0.5)
}
