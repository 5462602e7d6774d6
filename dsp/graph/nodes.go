package graph

import "github.com/cwbudde/algo-modgraph/dsp/core"

// NewCombFilter builds a comb filter on input. Its output starts after
// loopDuration seconds; reverbDuration is the 60 dB decay time.
func NewCombFilter(ctx *core.Context, input *Node, reverbDuration Parameter, loopDuration float64, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindCombFilter, append([]NodeOption{
		WithInput(input),
		WithParameter("reverbDuration", reverbDuration),
		WithArgument("loopDuration", loopDuration),
	}, opts...)...)
}

// NewJitter builds a random line generator.
func NewJitter(ctx *core.Context, amplitude, minimumFrequency, maximumFrequency Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindJitter, append([]NodeOption{
		WithParameter("amplitude", amplitude),
		WithParameter("minimumFrequency", minimumFrequency),
		WithParameter("maximumFrequency", maximumFrequency),
	}, opts...)...)
}

// NewOscillator builds a sine generator. Pass
// WithArgument("waveform", processor.WaveformTriangle) for a triangle.
func NewOscillator(ctx *core.Context, frequency, amplitude Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindOscillator, append([]NodeOption{
		WithParameter("frequency", frequency),
		WithParameter("amplitude", amplitude),
	}, opts...)...)
}

// NewHighShelfFilter builds a high-shelf equalizer on input. gain is linear.
func NewHighShelfFilter(ctx *core.Context, input *Node, centerFrequency, gain, q Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindHighShelfFilter, append([]NodeOption{
		WithInput(input),
		WithParameter("centerFrequency", centerFrequency),
		WithParameter("gain", gain),
		WithParameter("q", q),
	}, opts...)...)
}

// NewPanner builds an equal-power stereo panner on input.
func NewPanner(ctx *core.Context, input *Node, pan Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindPanner, append([]NodeOption{
		WithInput(input),
		WithParameter("pan", pan),
	}, opts...)...)
}

// NewMixer builds a mixer that averages inputs and applies gain.
func NewMixer(ctx *core.Context, inputs []*Node, gain Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindMixer, append([]NodeOption{
		WithInput(inputs...),
		WithParameter("gain", gain),
	}, opts...)...)
}

// NewPlayback builds a one-shot player of samples.
func NewPlayback(ctx *core.Context, samples []float64, amplitude Parameter, opts ...NodeOption) (*Node, error) {
	return New(ctx, KindPlayback, append([]NodeOption{
		WithSamples(samples),
		WithParameter("amplitude", amplitude),
	}, opts...)...)
}
