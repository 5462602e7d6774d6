// Package window provides the analysis window used by the spectrum analyzer.
package window

import (
	"errors"
	"fmt"
	"math"
)

var errEmptyCoeffs = errors.New("window coefficients must not be empty")

var hannCoeffs = []float64{0.5, -0.5}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	if err := validateLength(size); err != nil {
		return nil, err
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, size)
	for i := range out {
		out[i] = cosineFromCoeffs(samplePosition(i, size, cfg.periodic), hannCoeffs)
	}
	return out, nil
}

// CoherentGain returns the mean of the coefficients, the amplitude a
// windowed bin-centred sinusoid keeps.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	sum := 0.0
	for _, v := range coeffs {
		sum += v
	}
	return sum / float64(len(coeffs)), nil
}

func validateLength(size int) error {
	if size <= 0 {
		return fmt.Errorf("window size must be > 0: %d", size)
	}
	return nil
}

func cosineFromCoeffs(x float64, coeffs []float64) float64 {
	phase := 2 * math.Pi * x

	sum := 0.0
	for k, c := range coeffs {
		sum += c * math.Cos(float64(k)*phase)
	}
	return sum
}

func samplePosition(n, size int, periodic bool) float64 {
	if size <= 1 {
		return 0
	}

	den := float64(size - 1)
	if periodic {
		den = float64(size)
	}
	return float64(n) / den
}
