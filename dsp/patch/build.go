package patch

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/graph"
	"github.com/cwbudde/algo-modgraph/render"
)

// SampleLoader returns the mono samples stored at path.
type SampleLoader func(path string) ([]float64, error)

// BuildOption configures Build.
type BuildOption func(*buildConfig)

type buildConfig struct {
	registry *Registry
	loader   SampleLoader
}

// WithRegistry selects the type name registry. The default is DefaultRegistry.
func WithRegistry(r *Registry) BuildOption {
	return func(cfg *buildConfig) {
		if r != nil {
			cfg.registry = r
		}
	}
}

// WithSampleLoader replaces the WAV file loader used for "wav" fields.
func WithSampleLoader(loader SampleLoader) BuildOption {
	return func(cfg *buildConfig) {
		if loader != nil {
			cfg.loader = loader
		}
	}
}

// Build constructs every node in dependency order and returns the graph.
// Nodes built before a failure are torn down.
func (p *Patch) Build(ctx *core.Context, opts ...BuildOption) (*graph.Graph, error) {
	cfg := buildConfig{registry: DefaultRegistry(), loader: LoadWAV}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	order, err := p.Order()
	if err != nil {
		return nil, err
	}

	g := graph.NewGraph(ctx)
	built := make(map[string]*graph.Node, len(order))

	for _, id := range order {
		spec, _ := p.node(id)
		n, err := buildNode(ctx, cfg, spec, built)
		if err == nil {
			err = g.Add(n)
		}
		if err != nil {
			return nil, errors.Join(fmt.Errorf("patch: node %q: %w", id, err), g.Teardown())
		}
		built[id] = n
	}

	if p.Output != "" {
		if err := g.SetOutput(built[p.Output]); err != nil {
			return nil, errors.Join(err, g.Teardown())
		}
	}

	ctx.Logger().Info("patch built", "nodes", len(order), "output", p.Output)
	return g, nil
}

func buildNode(ctx *core.Context, cfg buildConfig, spec NodeSpec, built map[string]*graph.Node) (*graph.Node, error) {
	kind, ok := cfg.registry.Lookup(spec.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", graph.ErrUnknownKind, spec.Type)
	}

	opts := []graph.NodeOption{graph.WithName(spec.ID)}
	for _, in := range spec.Inputs {
		opts = append(opts, graph.WithInput(built[in]))
	}
	for _, name := range sortedKeys(spec.Args) {
		opts = append(opts, graph.WithArgument(name, spec.Args[name]))
	}
	for _, name := range sortedKeys(spec.Params) {
		param, err := resolveParam(spec.Params[name], built)
		if err != nil {
			return nil, fmt.Errorf("param %q: %w", name, err)
		}
		opts = append(opts, graph.WithParameter(name, param))
	}

	switch {
	case spec.WAV != "":
		samples, err := cfg.loader(spec.WAV)
		if err != nil {
			return nil, err
		}
		opts = append(opts, graph.WithSamples(samples))
	case spec.Samples != nil:
		opts = append(opts, graph.WithSamples(spec.Samples))
	}

	return graph.New(ctx, kind, opts...)
}

func resolveParam(spec ParamSpec, built map[string]*graph.Node) (graph.Parameter, error) {
	if spec.Constant() {
		return graph.Constant(spec.Value), nil
	}
	ch, err := spec.channel()
	if err != nil {
		return graph.Parameter{}, err
	}
	return graph.Output(built[spec.Node], ch), nil
}

// LoadWAV reads a WAV file into mono samples.
func LoadWAV(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open samples: %w", err)
	}
	defer f.Close()

	samples, _, err := render.ReadWAV(f)
	return samples, err
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
