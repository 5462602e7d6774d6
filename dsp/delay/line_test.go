package delay

import "testing"

func TestNewValidation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Fatal("expected error for size=0")
	}

	if _, err := New(-1); err == nil {
		t.Fatal("expected error for size=-1")
	}
}

func TestSamples(t *testing.T) {
	tests := []struct {
		name       string
		seconds    float64
		sampleRate float64
		want       int
		wantErr    bool
	}{
		{name: "loop default", seconds: 0.1, sampleRate: 44100, want: 4410},
		{name: "rounds down", seconds: 0.00105, sampleRate: 1000, want: 1},
		{name: "one sample", seconds: 1.0 / 48000, sampleRate: 48000, want: 1},
		{name: "too short", seconds: 1e-6, sampleRate: 1000, wantErr: true},
		{name: "negative", seconds: -0.1, sampleRate: 44100, wantErr: true},
		{name: "zero rate", seconds: 0.1, sampleRate: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Samples(tt.seconds, tt.sampleRate)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Samples() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReadWrite(t *testing.T) {
	d, err := New(8)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 8; i++ {
		d.Write(float64(i))
	}
	// delay=1 => most recently written (7)
	if got := d.Read(1); got != 7 {
		t.Fatalf("got %v want 7", got)
	}
	// delay=3 => 3 samples back from write head
	if got := d.Read(3); got != 5 {
		t.Fatalf("got %v want 5", got)
	}
}

func TestOldestMatchesFullDelay(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}
	// buffer holds [8, 9, 6, 7] with writePos=2, so the oldest is 6.
	if got := d.Oldest(); got != 6 {
		t.Fatalf("Oldest: got %v want 6", got)
	}

	if got := d.Read(d.Len()); got != 6 {
		t.Fatalf("Read(Len): got %v want 6", got)
	}
}

func TestReadWraparound(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		d.Write(float64(i))
	}

	if got := d.Read(1); got != 9 {
		t.Fatalf("got %v want 9", got)
	}
}

func TestReset(t *testing.T) {
	d, err := New(4)
	if err != nil {
		t.Fatal(err)
	}

	d.Write(1)
	d.Write(2)
	d.Reset()

	for i := 0; i < 4; i++ {
		if got := d.Read(i); got != 0 {
			t.Fatalf("after reset Read(%d): got %v want 0", i, got)
		}
	}
}
