package spectrum

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-modgraph/internal/testutil"
)

func TestAnalyzerBinCenteredSine(t *testing.T) {
	t.Parallel()

	const (
		size       = 1024
		sampleRate = 48000.0
		bin        = 30
		amplitude  = 0.6
	)

	a, err := NewAnalyzer(size, sampleRate)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	freq := a.Frequency(bin)
	mag, err := a.Magnitude(testutil.Sine(freq, sampleRate, amplitude, size))
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}
	if len(mag) != a.Bins() {
		t.Fatalf("len = %d, want %d", len(mag), a.Bins())
	}
	testutil.RequireFinite(t, mag)

	peaks := a.Peaks(mag, 1)
	if len(peaks) != 1 {
		t.Fatalf("peaks = %v", peaks)
	}
	if peaks[0].Bin != bin {
		t.Fatalf("peak bin = %d, want %d", peaks[0].Bin, bin)
	}
	if math.Abs(peaks[0].Magnitude-amplitude) > 1e-9 {
		t.Fatalf("peak magnitude = %v, want %v", peaks[0].Magnitude, amplitude)
	}
	if math.Abs(peaks[0].Frequency-freq) > 1e-9 {
		t.Fatalf("peak frequency = %v, want %v", peaks[0].Frequency, freq)
	}
}

func TestAnalyzerTwoTonesOrdered(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(2048, 44100)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	loud := testutil.Sine(a.Frequency(100), 44100, 0.8, 2048)
	quiet := testutil.Sine(a.Frequency(300), 44100, 0.2, 2048)
	for i := range loud {
		loud[i] += quiet[i]
	}

	mag, err := a.Magnitude(loud)
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}

	peaks := a.Peaks(mag, 2)
	if len(peaks) != 2 || peaks[0].Bin != 100 || peaks[1].Bin != 300 {
		t.Fatalf("peaks = %+v, want bins 100 then 300", peaks)
	}
}

func TestAnalyzerZeroPadsShortInput(t *testing.T) {
	t.Parallel()

	a, err := NewAnalyzer(256, 8000)
	if err != nil {
		t.Fatalf("NewAnalyzer: %v", err)
	}

	mag, err := a.Magnitude(nil)
	if err != nil {
		t.Fatalf("Magnitude: %v", err)
	}
	testutil.RequireBounded(t, mag, 0)
	if got := a.Peaks(mag, 4); len(got) != 0 {
		t.Fatalf("peaks of silence = %v", got)
	}
}

func TestNewAnalyzerValidates(t *testing.T) {
	t.Parallel()

	if _, err := NewAnalyzer(1, 48000); err == nil {
		t.Fatal("size 1: expected error")
	}
	if _, err := NewAnalyzer(1024, 0); err == nil {
		t.Fatal("sample rate 0: expected error")
	}
}
