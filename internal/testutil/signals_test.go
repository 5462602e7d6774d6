package testutil

import (
	"math"
	"testing"
)

func TestSine(t *testing.T) {
	s := Sine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1 (quarter period)", s[12])
	}
}

func TestImpulse(t *testing.T) {
	imp := Impulse(8, 3)
	for i, v := range imp {
		want := 0.0
		if i == 3 {
			want = 1
		}
		if v != want {
			t.Fatalf("imp[%d] = %v, want %v", i, v, want)
		}
	}

	for i, v := range Impulse(4, 10) {
		if v != 0 {
			t.Fatalf("out of range impulse: imp[%d] = %v", i, v)
		}
	}
}

func TestDC(t *testing.T) {
	for i, v := range DC(0.5, 4) {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestPeakAbs(t *testing.T) {
	peak, at := PeakAbs([]float64{0.1, -0.8, 0.5})
	if peak != 0.8 || at != 1 {
		t.Fatalf("PeakAbs = (%v, %d), want (0.8, 1)", peak, at)
	}

	if _, at := PeakAbs(nil); at != -1 {
		t.Fatalf("PeakAbs(nil) index = %d, want -1", at)
	}
}

func TestFirstAbove(t *testing.T) {
	data := []float64{0, 1e-9, -0.2, 0.3}
	if got := FirstAbove(data, 1e-6); got != 2 {
		t.Fatalf("FirstAbove = %d, want 2", got)
	}
	if got := FirstAbove(data, 1); got != -1 {
		t.Fatalf("FirstAbove = %d, want -1", got)
	}
}
