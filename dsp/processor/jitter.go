package processor

import (
	"math/rand"

	"github.com/cwbudde/algo-modgraph/dsp/core"
)

// Jitter generates a segmented line whose breakpoints are drawn uniformly
// from [-amp, amp]. Each segment lasts 1/cps seconds, with cps drawn
// uniformly from [cpsMin, cpsMax] when the segment starts. The random
// source is seeded from the context at Init and cannot be driven from
// outside.
//
// Fields: "amp", "cpsMin", "cpsMax".
type Jitter struct {
	amp    float64
	cpsMin float64
	cpsMax float64

	rng        *rand.Rand
	sampleRate float64
	phase      float64
	cps        float64
	from, to   float64
	segments   uint64
	rateDrawn  bool
	fieldTable fields
}

// NewJitter creates an uninitialized jitter handle with amp=1,
// cpsMin=0.5 and cpsMax=60.
func NewJitter() *Jitter {
	j := &Jitter{amp: 1, cpsMin: 0.5, cpsMax: 60}
	j.fieldTable = fields{
		"amp":    &j.amp,
		"cpsMin": &j.cpsMin,
		"cpsMax": &j.cpsMax,
	}
	return j
}

// Init seeds the private random source and draws the first breakpoints. The
// first segment rate is drawn on the first Compute, once the bound fields
// hold their configured values.
func (j *Jitter) Init(ctx *core.Context, _ ...float64) error {
	j.rng = rand.New(rand.NewSource(ctx.Rand().Int63()))
	j.sampleRate = ctx.SampleRate()
	j.phase = 0
	j.segments = 0
	j.from = j.draw()
	j.to = j.draw()
	j.cps = 0
	j.rateDrawn = false

	return nil
}

// Compute returns the next point on the line. The input is ignored.
func (j *Jitter) Compute(_ *core.Context, _ float64) float64 {
	if !j.rateDrawn {
		j.cps = j.drawRate()
		j.rateDrawn = true
	}

	out := (j.from + (j.to-j.from)*j.phase) * j.amp

	j.phase += j.cps / j.sampleRate
	for j.phase >= 1 {
		j.phase--
		j.from = j.to
		j.to = j.draw()
		j.cps = j.drawRate()
		j.segments++
	}

	return out
}

// Field exposes "amp", "cpsMin" and "cpsMax".
func (j *Jitter) Field(name string) (*float64, error) { return j.fieldTable.lookup(name) }

// Destroy releases the random source.
func (j *Jitter) Destroy() {
	j.rng = nil
	j.fieldTable = nil
}

// Segments returns the number of completed segments since Init.
func (j *Jitter) Segments() uint64 { return j.segments }

func (j *Jitter) draw() float64 {
	return j.rng.Float64()*2 - 1
}

// drawRate swaps inverted bounds and floors negative ones at zero.
func (j *Jitter) drawRate() float64 {
	lo, hi := j.cpsMin, j.cpsMax
	if lo > hi {
		lo, hi = hi, lo
	}
	lo = max(lo, 0)
	hi = max(hi, 0)
	return lo + j.rng.Float64()*(hi-lo)
}
