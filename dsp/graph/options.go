package graph

// NodeOption configures a node at construction.
type NodeOption func(*nodeConfig)

type nodeConfig struct {
	name    string
	inputs  []*Node
	params  map[string]Parameter
	order   []string
	args    map[string]float64
	samples []float64
}

// WithName sets a human readable label used in logs and errors.
func WithName(name string) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.name = name
	}
}

// WithInput appends upstream nodes whose left output feeds the handle.
func WithInput(nodes ...*Node) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.inputs = append(cfg.inputs, nodes...)
	}
}

// WithParameter sets the initial parameter of a slot.
func WithParameter(slot string, p Parameter) NodeOption {
	return func(cfg *nodeConfig) {
		if cfg.params == nil {
			cfg.params = map[string]Parameter{}
		}
		if _, ok := cfg.params[slot]; !ok {
			cfg.order = append(cfg.order, slot)
		}
		cfg.params[slot] = p
	}
}

// WithArgument sets a construction-only argument such as loopDuration.
func WithArgument(name string, v float64) NodeOption {
	return func(cfg *nodeConfig) {
		if cfg.args == nil {
			cfg.args = map[string]float64{}
		}
		cfg.args[name] = v
	}
}

// WithSamples supplies the buffer of a playback node.
func WithSamples(samples []float64) NodeOption {
	return func(cfg *nodeConfig) {
		cfg.samples = samples
	}
}

func applyNodeOptions(opts []NodeOption) nodeConfig {
	var cfg nodeConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
