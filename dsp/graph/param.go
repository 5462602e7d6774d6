package graph

import (
	"fmt"
	"math"
	"weak"
)

// Channel selects one side of a node's stereo output.
type Channel uint8

const (
	Left Channel = iota
	Right
)

func (c Channel) String() string {
	switch c {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("Channel(%d)", uint8(c))
	}
}

// Parameter is the value source of a node slot: a constant or the cached
// output of another node. The referenced node is held weakly.
type Parameter struct {
	value   float64
	source  weak.Pointer[Node]
	channel Channel
	output  bool
}

// Constant returns a parameter that always resolves to v.
func Constant(v float64) Parameter {
	return Parameter{value: v}
}

// Output returns a parameter that resolves to the cached ch output of n.
func Output(n *Node, ch Channel) Parameter {
	return Parameter{source: weak.Make(n), channel: ch, output: true}
}

// IsConstant reports whether p is a constant.
func (p Parameter) IsConstant() bool { return !p.output }

// Source returns the referenced node, or nil for constants and collected
// nodes.
func (p Parameter) Source() *Node {
	if !p.output {
		return nil
	}
	return p.source.Value()
}

// Channel returns the referenced output channel.
func (p Parameter) Channel() Channel { return p.channel }

// Resolve returns the current value. An output parameter reads the value
// the source cached on its last Compute and never triggers a compute.
func (p Parameter) Resolve() (float64, error) {
	if !p.output {
		return p.value, nil
	}

	src := p.source.Value()
	if src == nil || src.state == TornDown {
		return 0, ErrDanglingReference
	}

	return src.cached(p.channel), nil
}

func (p Parameter) String() string {
	if !p.output {
		return fmt.Sprintf("constant(%g)", p.value)
	}
	if src := p.source.Value(); src != nil {
		return fmt.Sprintf("output(%s, %s)", src.Label(), p.channel)
	}
	return fmt.Sprintf("output(<collected>, %s)", p.channel)
}

// binding ties one declared slot to a handle field.
type binding struct {
	slot  *Slot
	param Parameter
	field *float64
}

// bind associates b with field. Binding the same field twice is a no-op;
// a different field replaces the old one. Constants are written immediately.
func (b *binding) bind(field *float64) {
	if b.field == field {
		return
	}
	b.field = field
	if !b.param.output && field != nil {
		*field = b.param.value
	}
}

// replace swaps the parameter and writes a constant into an already bound
// field.
func (b *binding) replace(p Parameter) {
	b.param = p
	if !p.output && b.field != nil {
		*b.field = p.value
	}
}

// push writes the resolved value of an output parameter into the field.
// Out-of-range values fail in strict mode and are clamped otherwise. A NaN
// leaves the previous value in place in lenient mode.
func (b *binding) push(strict bool) error {
	if !b.param.output || b.field == nil {
		return nil
	}

	v, err := b.param.Resolve()
	if err != nil {
		return fmt.Errorf("slot %q: %w", b.slot.Name, err)
	}

	if !b.slot.Contains(v) {
		if strict {
			return fmt.Errorf("%w: slot %q value %g outside [%g, %g]",
				ErrInvalidParameterRange, b.slot.Name, v, b.slot.Min, b.slot.Max)
		}
		if math.IsNaN(v) {
			return nil
		}
		v = b.slot.clamp(v)
	}

	*b.field = v
	return nil
}
