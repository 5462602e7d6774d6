// Package processor provides the per-algorithm processor handles driven by
// dsp/graph nodes.
//
// A handle is created by its constructor, initialized once with the
// processing context and any construction-only arguments, stepped one
// sample at a time with Compute, and released with Destroy. Runtime
// parameters are plain float64 fields exposed by name through Field so a
// node can bind its parameters to them.
//
// Included handles:
//   - Comb: feedback comb filter (loop time fixed at Init, reverb time live).
//   - Jitter: segmented random line generator.
//   - Oscillator: sine generator.
//   - HighShelf: RBJ high-shelf parametric equalizer.
//   - Panner: equal-power mono-to-stereo panner.
//   - Gain: linear gain stage.
//   - Playback: one-shot sample buffer player.
package processor
