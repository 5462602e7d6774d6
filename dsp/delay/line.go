// Package delay provides the circular sample buffer used by feedback
// processors such as the comb filter.
package delay

import (
	"fmt"
	"math"
)

// Line is a circular delay line.
type Line struct {
	buffer   []float64
	writePos int
}

// New returns a delay line of fixed size.
func New(size int) (*Line, error) {
	if size <= 0 {
		return nil, fmt.Errorf("delay size must be > 0: %d", size)
	}
	return &Line{buffer: make([]float64, size)}, nil
}

// Samples converts a duration to a whole number of samples, rounding down.
func Samples(seconds, sampleRate float64) (int, error) {
	if seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("delay duration must be > 0: %f", seconds)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, fmt.Errorf("delay sample rate must be > 0: %f", sampleRate)
	}
	// The small bias keeps products such as 0.1*44100 from landing just
	// below the integer they denote.
	n := int(math.Floor(seconds*sampleRate + 1e-9))
	if n < 1 {
		return 0, fmt.Errorf("delay duration %f s is shorter than one sample at %f Hz", seconds, sampleRate)
	}
	return n, nil
}

// Len returns internal buffer size.
func (d *Line) Len() int {
	return len(d.buffer)
}

// Write writes one sample.
func (d *Line) Write(sample float64) {
	d.buffer[d.writePos] = sample
	d.writePos++
	if d.writePos >= len(d.buffer) {
		d.writePos = 0
	}
}

// Read reads an integer delay in samples. Read(1) is the most recent
// sample, Read(Len()) the oldest.
func (d *Line) Read(delay int) float64 {
	size := len(d.buffer)
	if size == 0 {
		return 0
	}
	readPos := ((d.writePos-delay)%size + size) % size
	return d.buffer[readPos]
}

// Oldest returns the sample written Len() writes ago.
func (d *Line) Oldest() float64 {
	return d.buffer[d.writePos]
}

// Reset clears line state.
func (d *Line) Reset() {
	for i := range d.buffer {
		d.buffer[i] = 0
	}
	d.writePos = 0
}
