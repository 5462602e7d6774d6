// Package render drives a graph offline and exports the result.
package render

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/graph"
)

// Seconds renders seconds of g output in blocks of the context block size.
// On error the samples rendered so far are returned with it.
func Seconds(g *graph.Graph, seconds float64) (left, right []float64, err error) {
	if seconds < 0 || !core.IsFinite(seconds) {
		return nil, nil, fmt.Errorf("render: duration must be >= 0: %f", seconds)
	}

	ctx := g.Context()
	frames := int(math.Round(seconds * ctx.SampleRate()))
	left = make([]float64, frames)
	right = make([]float64, frames)

	block := ctx.BlockSize()
	for off := 0; off < frames; off += block {
		end := min(off+block, frames)
		n, err := g.Render(left[off:end], right[off:end])
		if err != nil {
			return left[:off+n], right[:off+n], fmt.Errorf("render: frame %d: %w", off+n, err)
		}
	}

	return left, right, nil
}

// Fade applies linear fade-in and fade-out ramps of the given lengths in
// place. Lengths are clamped to the buffer.
func Fade(samples []float64, fadeIn, fadeOut int) {
	fadeIn = min(max(fadeIn, 0), len(samples))
	fadeOut = min(max(fadeOut, 0), len(samples))

	if fadeIn > 0 {
		vecmath.MulBlockInPlace(samples[:fadeIn], ramp(fadeIn, false))
	}
	if fadeOut > 0 {
		vecmath.MulBlockInPlace(samples[len(samples)-fadeOut:], ramp(fadeOut, true))
	}
}

func ramp(n int, down bool) []float64 {
	r := make([]float64, n)
	for i := range r {
		v := float64(i) / float64(n)
		if down {
			v = float64(n-1-i) / float64(n)
		}
		r[i] = v
	}
	return r
}

// PCM16 interleaves left and right into clamped 16-bit sample values.
func PCM16(left, right []float64) []int {
	inter := core.Interleave(nil, left, right)

	out := make([]int, len(inter))
	for i, v := range inter {
		out[i] = int(math.Round(core.Clamp(v, -1, 1) * math.MaxInt16))
	}
	return out
}

// Checksum returns the hex MD5 of the little-endian 16-bit PCM rendering of
// left and right. Identical renders yield identical checksums.
func Checksum(left, right []float64) string {
	pcm := PCM16(left, right)
	buf := make([]byte, 2*len(pcm))
	for i, v := range pcm {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(int16(v)))
	}
	sum := md5.Sum(buf)
	return hex.EncodeToString(sum[:])
}
