package processor

import "github.com/cwbudde/algo-modgraph/dsp/core"

// Gain scales its input.
//
// Fields: "gain" linear.
type Gain struct {
	gain float64

	fieldTable fields
}

// NewGain creates a unity gain stage.
func NewGain() *Gain {
	g := &Gain{gain: 1}
	g.fieldTable = fields{"gain": &g.gain}
	return g
}

// Init is a no-op.
func (g *Gain) Init(_ *core.Context, _ ...float64) error { return nil }

// Compute scales one sample.
func (g *Gain) Compute(_ *core.Context, in float64) float64 { return in * g.gain }

// Field exposes "gain".
func (g *Gain) Field(name string) (*float64, error) { return g.fieldTable.lookup(name) }

// Destroy invalidates the field table.
func (g *Gain) Destroy() { g.fieldTable = nil }
