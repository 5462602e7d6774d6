package patch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-modgraph/dsp/graph"
)

// Registry maps node type names to graph kinds.
type Registry struct {
	kinds map[string]graph.Kind
}

var errDuplicateType = errors.New("duplicate node type")

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{kinds: make(map[string]graph.Kind)}
}

// DefaultRegistry registers every graph kind under its name plus the long
// aliases used by older patches.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, kind := range graph.Kinds() {
		r.MustRegister(kind.String(), kind)
	}
	r.MustRegister("combfilter", graph.KindCombFilter)
	r.MustRegister("highshelfequalizer", graph.KindHighShelfFilter)
	r.MustRegister("gain", graph.KindMixer)
	return r
}

// Register adds a type name for kind. Names are case-insensitive.
func (r *Registry) Register(name string, kind graph.Kind) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return errors.New("empty node type")
	}

	if _, err := graph.SlotsOf(kind); err != nil {
		return err
	}

	if _, exists := r.kinds[key]; exists {
		return fmt.Errorf("%w: %s", errDuplicateType, name)
	}

	r.kinds[key] = kind
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, kind graph.Kind) {
	if err := r.Register(name, kind); err != nil {
		panic("patch registry: " + err.Error())
	}
}

// Lookup returns the kind registered for name.
func (r *Registry) Lookup(name string) (graph.Kind, bool) {
	kind, ok := r.kinds[strings.ToLower(strings.TrimSpace(name))]
	return kind, ok
}
