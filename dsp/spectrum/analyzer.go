package spectrum

import (
	"fmt"
	"math"
	"slices"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-modgraph/dsp/window"
)

// Analyzer computes single-frame magnitude spectra with a periodic Hann
// window. Buffers are reused between calls; an Analyzer is not safe for
// concurrent use.
type Analyzer struct {
	size       int
	sampleRate float64
	plan       *algofft.Plan[complex128]
	window     []float64
	scale      float64

	frame  []float64
	in     []complex128
	out    []complex128
	re, im []float64
}

// Peak is a local maximum of a magnitude spectrum.
type Peak struct {
	Bin       int
	Frequency float64
	Magnitude float64
}

// NewAnalyzer creates an analyzer for frames of size samples.
func NewAnalyzer(size int, sampleRate float64) (*Analyzer, error) {
	if size < 2 {
		return nil, fmt.Errorf("spectrum: frame size must be >= 2: %d", size)
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan: %w", err)
	}

	w, err := window.Hann(size, window.WithPeriodic())
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}
	gain, err := window.CoherentGain(w)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	bins := size/2 + 1
	return &Analyzer{
		size:       size,
		sampleRate: sampleRate,
		plan:       plan,
		window:     w,
		scale:      2 / (gain * float64(size)),
		frame:      make([]float64, size),
		in:         make([]complex128, size),
		out:        make([]complex128, size),
		re:         make([]float64, bins),
		im:         make([]float64, bins),
	}, nil
}

// Size returns the frame size.
func (a *Analyzer) Size() int { return a.size }

// Bins returns the number of magnitude bins, size/2+1.
func (a *Analyzer) Bins() int { return a.size/2 + 1 }

// Frequency returns the center frequency of bin in Hz.
func (a *Analyzer) Frequency(bin int) float64 {
	return float64(bin) * a.sampleRate / float64(a.size)
}

// Magnitude returns the single-sided magnitude spectrum of the first Size()
// samples. Shorter input is zero padded. A sine centered on a bin reads as
// its amplitude.
func (a *Analyzer) Magnitude(samples []float64) ([]float64, error) {
	n := copy(a.frame, samples)
	clear(a.frame[n:])
	vecmath.MulBlockInPlace(a.frame, a.window)

	for i, v := range a.frame {
		a.in[i] = complex(v, 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: forward fft: %w", err)
	}

	for k := range a.re {
		a.re[k] = real(a.out[k]) * a.scale
		a.im[k] = imag(a.out[k]) * a.scale
	}

	mag := make([]float64, a.Bins())
	vecmath.Magnitude(mag, a.re, a.im)
	return mag, nil
}

// Peaks returns up to count local maxima of mag, loudest first.
func (a *Analyzer) Peaks(mag []float64, count int) []Peak {
	var peaks []Peak
	for k := 1; k < len(mag)-1; k++ {
		if mag[k] > mag[k-1] && mag[k] >= mag[k+1] {
			peaks = append(peaks, Peak{Bin: k, Frequency: a.Frequency(k), Magnitude: mag[k]})
		}
	}

	slices.SortStableFunc(peaks, func(x, y Peak) int {
		switch {
		case x.Magnitude > y.Magnitude:
			return -1
		case x.Magnitude < y.Magnitude:
			return 1
		default:
			return 0
		}
	})

	if count >= 0 && len(peaks) > count {
		peaks = peaks[:count]
	}
	return peaks
}
