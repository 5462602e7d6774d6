// Package testutil holds signal fixtures and tolerance assertions shared by
// the package tests.
package testutil

import "math"

// Sine returns length samples of a sine wave starting at phase 0.
func Sine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Impulse returns a unit impulse at pos. Out of range positions yield silence.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC returns a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// PeakAbs returns the largest absolute sample value and its index, or
// (0, -1) for an empty slice.
func PeakAbs(data []float64) (float64, int) {
	peak, at := 0.0, -1
	for i, v := range data {
		if a := math.Abs(v); at < 0 || a > peak {
			peak, at = a, i
		}
	}
	return peak, at
}

// FirstAbove returns the index of the first sample whose magnitude exceeds
// threshold, or -1.
func FirstAbove(data []float64, threshold float64) int {
	for i, v := range data {
		if math.Abs(v) > threshold {
			return i
		}
	}
	return -1
}
