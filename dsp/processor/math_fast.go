//go:build fastmath

package processor

import "github.com/meko-christian/algo-approx"

// mathExp computes e^x using fast approximation. It runs only when the
// reverb time changes.
func mathExp(x float64) float64 {
	return approx.FastExp(x)
}
