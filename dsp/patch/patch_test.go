package patch

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/graph"
	"github.com/cwbudde/algo-modgraph/internal/testutil"
	"github.com/cwbudde/algo-modgraph/render"
)

func newTestContext(t *testing.T) *core.Context {
	t.Helper()
	ctx, err := core.NewContext(core.WithSeed(1))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx
}

func TestParseParamForms(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{
		"output": "mix",
		"nodes": [
			{"id": "mix", "type": "mixer", "inputs": ["osc"], "params": {"gain": {"node": "lfo", "channel": "right"}}},
			{"id": "osc", "type": "Oscillator", "params": {"frequency": 110.5}},
			{"id": "lfo", "type": "jitter"}
		]
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	gain := p.Nodes[0].Params["gain"]
	if gain.Constant() || gain.Node != "lfo" || gain.Channel != "right" {
		t.Fatalf("gain = %+v", gain)
	}
	freq := p.Nodes[1].Params["frequency"]
	if !freq.Constant() || freq.Value != 110.5 {
		t.Fatalf("frequency = %+v", freq)
	}

	order, err := p.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	if !slices.Equal(order, []string{"osc", "lfo", "mix"}) {
		t.Fatalf("order = %v", order)
	}
}

func TestParseRejects(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"bad json":         `{"nodes": [`,
		"missing type":     `{"nodes": [{"id": "a"}]}`,
		"duplicate id":     `{"nodes": [{"id": "a", "type": "jitter"}, {"id": "a", "type": "jitter"}]}`,
		"unknown input":    `{"nodes": [{"id": "a", "type": "comb", "inputs": ["b"]}]}`,
		"unknown param":    `{"nodes": [{"id": "a", "type": "jitter", "params": {"amplitude": {"node": "x"}}}]}`,
		"empty reference":  `{"nodes": [{"id": "a", "type": "jitter", "params": {"amplitude": {}}}]}`,
		"string parameter": `{"nodes": [{"id": "a", "type": "jitter", "params": {"amplitude": "loud"}}]}`,
		"unknown output":   `{"output": "z", "nodes": [{"id": "a", "type": "jitter"}]}`,
	}

	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := Parse([]byte(raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestOrderDetectsCycle(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"nodes": [
		{"id": "a", "type": "mixer", "inputs": ["b"]},
		{"id": "b", "type": "mixer", "inputs": ["a"]}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if _, err := p.Order(); !errors.Is(err, graph.ErrDependencyCycle) {
		t.Fatalf("Order err = %v, want ErrDependencyCycle", err)
	}
	if _, err := p.Build(newTestContext(t)); !errors.Is(err, graph.ErrDependencyCycle) {
		t.Fatalf("Build err = %v, want ErrDependencyCycle", err)
	}
}

func TestDemoRoundTripAndBuild(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Demo())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	p, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(p, Demo()) {
		t.Fatalf("round trip changed the patch:\n%s", data)
	}

	g, err := p.Build(newTestContext(t))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(func() { _ = g.Teardown() })

	order, err := g.Order()
	if err != nil {
		t.Fatalf("Order: %v", err)
	}
	var names []string
	for _, n := range order {
		names = append(names, n.Name())
	}
	if !slices.Equal(names, []string{"osc", "lfo", "drift", "comb", "pan"}) {
		t.Fatalf("order = %v", names)
	}

	left, right, err := render.Seconds(g, 0.2)
	if err != nil {
		t.Fatalf("Seconds: %v", err)
	}
	testutil.RequireFinite(t, left)
	testutil.RequireFinite(t, right)
	if peak, _ := testutil.PeakAbs(left); peak == 0 {
		t.Fatal("demo rendered silence")
	}
}

func TestBuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want error
	}{
		{name: "unknown type", raw: `{"nodes": [{"id": "a", "type": "theremin"}]}`, want: graph.ErrUnknownKind},
		{name: "missing input", raw: `{"nodes": [{"id": "a", "type": "comb"}]}`, want: graph.ErrMissingInput},
		{name: "out of range", raw: `{"nodes": [{"id": "a", "type": "oscillator", "params": {"frequency": -5}}]}`, want: graph.ErrInvalidParameterRange},
		{name: "unknown slot", raw: `{"nodes": [{"id": "a", "type": "oscillator", "params": {"detune": 1}}]}`, want: graph.ErrUnknownSlot},
		{name: "inverted jitter bounds", raw: `{"nodes": [{"id": "a", "type": "jitter", "params": {"minimumFrequency": 9, "maximumFrequency": 3}}]}`, want: graph.ErrInvalidParameterRange},
		{name: "unknown waveform", raw: `{"nodes": [{"id": "a", "type": "oscillator", "args": {"waveform": 3}}]}`, want: graph.ErrInvalidParameterRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := Parse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if _, err := p.Build(newTestContext(t)); !errors.Is(err, tt.want) {
				t.Fatalf("Build err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildBadChannel(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"nodes": [
		{"id": "osc", "type": "oscillator"},
		{"id": "mix", "type": "mixer", "inputs": ["osc"], "params": {"gain": {"node": "osc", "channel": "middle"}}}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := p.Build(newTestContext(t)); err == nil {
		t.Fatal("expected error for unknown channel")
	}
}

func TestBuildSamples(t *testing.T) {
	t.Parallel()

	p, err := Parse([]byte(`{"output": "b", "nodes": [
		{"id": "a", "type": "playback", "samples": [0.5, 0.25]},
		{"id": "b", "type": "playback", "wav": "kick.wav", "params": {"amplitude": 2}}
	]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var loaded []string
	loader := func(path string) ([]float64, error) {
		loaded = append(loaded, path)
		return []float64{0.125, 0.0625}, nil
	}

	g, err := p.Build(newTestContext(t), WithSampleLoader(loader))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	left := make([]float64, 3)
	if _, err := g.Render(left, make([]float64, 3)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, left, []float64{0.25, 0.125, 0}, 0)
	if !slices.Equal(loaded, []string{"kick.wav"}) {
		t.Fatalf("loaded = %v", loaded)
	}

	a, _ := g.Lookup("a")
	if a.Left() != 0 {
		t.Fatalf("inline playback after 3 ticks = %v, want 0", a.Left())
	}
}

func TestLoadWAV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	sig := testutil.Sine(100, 8000, 0.5, 80)
	if err := render.WriteWAV(f, 8000, sig, sig); err != nil {
		t.Fatalf("WriteWAV: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, sig, 1e-4)

	if _, err := LoadWAV(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Fatal("missing file: expected error")
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "patch.json")
	data, err := json.Marshal(Demo())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Nodes) != len(Demo().Nodes) {
		t.Fatalf("nodes = %d", len(p.Nodes))
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	for _, name := range []string{"comb", "COMB", "combfilter", "HighShelf", "gain"} {
		if _, ok := r.Lookup(name); !ok {
			t.Fatalf("Lookup(%q) failed", name)
		}
	}
	if kind, _ := r.Lookup("gain"); kind != graph.KindMixer {
		t.Fatalf("gain alias = %s, want mixer", kind)
	}

	if err := r.Register("comb", graph.KindCombFilter); !errors.Is(err, errDuplicateType) {
		t.Fatalf("duplicate Register err = %v", err)
	}
	if err := r.Register("", graph.KindJitter); err == nil {
		t.Fatal("empty name: expected error")
	}
	if err := r.Register("mystery", graph.Kind(99)); !errors.Is(err, graph.ErrUnknownKind) {
		t.Fatalf("unknown kind err = %v", err)
	}
}
