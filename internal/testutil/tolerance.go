package testutil

import (
	"math"
	"testing"
)

// RequireSliceNearlyEqual fails t if got and want differ in length or if
// any element pair exceeds eps (absolute tolerance).
func RequireSliceNearlyEqual(t testing.TB, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff > eps {
			t.Fatalf("index %d: got %v, want %v (diff %v > eps %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t if any element is NaN or Inf.
func RequireFinite(t testing.TB, data []float64) {
	t.Helper()
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("index %d: non-finite value %v", i, v)
		}
	}
}

// RequireSilent fails t if any sample in data[from:to] exceeds eps in magnitude.
func RequireSilent(t testing.TB, data []float64, from, to int, eps float64) {
	t.Helper()
	if from < 0 || to > len(data) || from > to {
		t.Fatalf("silent range [%d, %d) outside %d samples", from, to, len(data))
	}
	for i := from; i < to; i++ {
		if math.Abs(data[i]) > eps {
			t.Fatalf("index %d: got %v, want silence within %v", i, data[i], eps)
		}
	}
}

// RequireBounded fails t if any sample magnitude exceeds limit.
func RequireBounded(t testing.TB, data []float64, limit float64) {
	t.Helper()
	for i, v := range data {
		if math.Abs(v) > limit {
			t.Fatalf("index %d: |%v| exceeds bound %v", i, v, limit)
		}
	}
}
