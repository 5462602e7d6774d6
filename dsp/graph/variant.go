package graph

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-modgraph/dsp/processor"
)

// Kind identifies a node variant.
type Kind uint8

const (
	KindCombFilter Kind = iota + 1
	KindJitter
	KindOscillator
	KindHighShelfFilter
	KindPanner
	KindMixer
	KindPlayback
)

// unbounded marks a variant without an input limit.
const unbounded = -1

// Slot declares one rebindable parameter of a variant.
type Slot struct {
	Name     string
	Field    string
	Default  float64
	Min, Max float64
}

// Contains reports whether v lies inside the slot range.
func (s Slot) Contains(v float64) bool {
	return v >= s.Min && v <= s.Max
}

func (s Slot) clamp(v float64) float64 {
	return math.Min(math.Max(v, s.Min), s.Max)
}

// Argument declares one construction-only value of a variant, passed to the
// handle Init in declaration order.
type Argument struct {
	Name     string
	Default  float64
	Min, Max float64
}

// ordering requires the value of slot low not to exceed the value of slot
// high.
type ordering struct {
	low, high string
}

type variant struct {
	kind      Kind
	name      string
	minInputs int
	maxInputs int
	slots     []Slot
	ordered   []ordering
	args      []Argument
	samples   bool
	factory   processor.Factory
}

func (v *variant) arg(name string) (int, bool) {
	for i := range v.args {
		if v.args[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

var variants = map[Kind]*variant{
	KindCombFilter: {
		name:      "comb",
		minInputs: 1,
		maxInputs: 1,
		slots: []Slot{
			{Name: "reverbDuration", Field: "revtime", Default: 1, Min: 0, Max: 100},
		},
		args: []Argument{
			{Name: "loopDuration", Default: 0.1, Min: 1e-4, Max: 10},
		},
		factory: func([]float64) processor.Handle { return processor.NewComb() },
	},
	KindJitter: {
		name: "jitter",
		slots: []Slot{
			{Name: "amplitude", Field: "amp", Default: 1, Min: 0, Max: 100},
			{Name: "minimumFrequency", Field: "cpsMin", Default: 0.5, Min: 0, Max: 1000},
			{Name: "maximumFrequency", Field: "cpsMax", Default: 60, Min: 0, Max: 1000},
		},
		ordered: []ordering{{low: "minimumFrequency", high: "maximumFrequency"}},
		factory: func([]float64) processor.Handle { return processor.NewJitter() },
	},
	KindOscillator: {
		name: "oscillator",
		slots: []Slot{
			{Name: "frequency", Field: "freq", Default: 440, Min: 0, Max: 20000},
			{Name: "amplitude", Field: "amp", Default: 0.5, Min: 0, Max: 100},
		},
		args: []Argument{
			{Name: "waveform", Default: processor.WaveformSine, Min: processor.WaveformSine, Max: processor.WaveformTriangle},
		},
		factory: func([]float64) processor.Handle { return processor.NewOscillator() },
	},
	KindHighShelfFilter: {
		name:      "highshelf",
		minInputs: 1,
		maxInputs: 1,
		slots: []Slot{
			{Name: "centerFrequency", Field: "fc", Default: 1000, Min: 10, Max: 20000},
			{Name: "gain", Field: "v", Default: 1, Min: 0, Max: 10},
			{Name: "q", Field: "q", Default: 0.707, Min: 0.01, Max: 10},
		},
		factory: func([]float64) processor.Handle { return processor.NewHighShelf() },
	},
	KindPanner: {
		name:      "panner",
		minInputs: 1,
		maxInputs: 1,
		slots: []Slot{
			{Name: "pan", Field: "pan", Default: 0, Min: -1, Max: 1},
		},
		factory: func([]float64) processor.Handle { return processor.NewPanner() },
	},
	KindMixer: {
		name:      "mixer",
		minInputs: 1,
		maxInputs: unbounded,
		slots: []Slot{
			{Name: "gain", Field: "gain", Default: 1, Min: 0, Max: 10},
		},
		factory: func([]float64) processor.Handle { return processor.NewGain() },
	},
	KindPlayback: {
		name: "playback",
		slots: []Slot{
			{Name: "amplitude", Field: "amp", Default: 1, Min: 0, Max: 100},
		},
		samples: true,
		factory: func(samples []float64) processor.Handle { return processor.NewPlayback(samples) },
	},
}

func init() {
	for kind, v := range variants {
		v.kind = kind
	}
}

func lookupVariant(kind Kind) (*variant, error) {
	v, ok := variants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(kind))
	}
	return v, nil
}

func (k Kind) String() string {
	if v, ok := variants[k]; ok {
		return v.name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	return []Kind{
		KindCombFilter,
		KindJitter,
		KindOscillator,
		KindHighShelfFilter,
		KindPanner,
		KindMixer,
		KindPlayback,
	}
}

// SlotsOf returns the slot declarations of kind.
func SlotsOf(kind Kind) ([]Slot, error) {
	v, err := lookupVariant(kind)
	if err != nil {
		return nil, err
	}
	return append([]Slot(nil), v.slots...), nil
}

// ArgumentsOf returns the construction arguments of kind.
func ArgumentsOf(kind Kind) ([]Argument, error) {
	v, err := lookupVariant(kind)
	if err != nil {
		return nil, err
	}
	return append([]Argument(nil), v.args...), nil
}
