package graph

import (
	"fmt"
	"log/slog"
	"math"
	"weak"

	"github.com/google/uuid"

	"github.com/cwbudde/algo-modgraph/dsp/core"
	"github.com/cwbudde/algo-modgraph/dsp/processor"
)

// State is the lifecycle state of a node.
type State uint8

const (
	Uninitialized State = iota
	Ready
	Computing
	TornDown
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Ready:
		return "ready"
	case Computing:
		return "computing"
	case TornDown:
		return "torn down"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

// Node is one processing unit of a graph. It owns its processor handle
// exclusively and references upstream nodes weakly.
type Node struct {
	id      uuid.UUID
	name    string
	v       *variant
	ctx     *core.Context
	logger  *slog.Logger
	state   State
	handle  processor.Handle
	args    []float64
	samples []float64
	inputs  []weak.Pointer[Node]
	slots   []*binding

	left, right float64

	// rewired is called after a successful SetParameter.
	rewired func(*Node)
}

// Declare validates the construction of a kind node and returns it in the
// Uninitialized state. Call Setup and BindAll before the first Compute.
func Declare(ctx *core.Context, kind Kind, opts ...NodeOption) (*Node, error) {
	if ctx == nil {
		return nil, fmt.Errorf("graph: %s: nil context", kind)
	}

	v, err := lookupVariant(kind)
	if err != nil {
		return nil, err
	}

	cfg := applyNodeOptions(opts)

	n := &Node{
		id:   uuid.New(),
		name: cfg.name,
		v:    v,
		ctx:  ctx,
	}
	n.logger = ctx.Logger().With("node", n.Label(), "kind", v.name)

	if err := n.declareInputs(cfg.inputs); err != nil {
		return nil, n.fail("declare", err)
	}
	if err := n.declareArgs(cfg.args); err != nil {
		return nil, n.fail("declare", err)
	}
	if err := n.declareSlots(cfg); err != nil {
		return nil, n.fail("declare", err)
	}

	if cfg.samples != nil {
		if !v.samples {
			return nil, n.fail("declare", fmt.Errorf("%w: samples", ErrUnknownSlot))
		}
		n.samples = append([]float64(nil), cfg.samples...)
	}

	return n, nil
}

// New declares a node, creates its handle and binds every slot.
func New(ctx *core.Context, kind Kind, opts ...NodeOption) (*Node, error) {
	n, err := Declare(ctx, kind, opts...)
	if err != nil {
		return nil, err
	}
	if err := n.Setup(); err != nil {
		return nil, err
	}
	if err := n.BindAll(); err != nil {
		n.destroyHandle()
		return nil, err
	}
	return n, nil
}

func (n *Node) declareInputs(inputs []*Node) error {
	if len(inputs) < n.v.minInputs {
		return fmt.Errorf("%w: %s needs %d, got %d", ErrMissingInput, n.v.name, n.v.minInputs, len(inputs))
	}
	if n.v.maxInputs != unbounded && len(inputs) > n.v.maxInputs {
		return fmt.Errorf("%w: %s accepts %d, got %d", ErrTooManyInputs, n.v.name, n.v.maxInputs, len(inputs))
	}

	n.inputs = make([]weak.Pointer[Node], 0, len(inputs))
	for i, in := range inputs {
		if in == nil {
			return fmt.Errorf("%w: input %d is nil", ErrMissingInput, i)
		}
		if !in.isReady() {
			return fmt.Errorf("%w: input %s is %s", ErrUnresolvedDependency, in.Label(), in.state)
		}
		n.inputs = append(n.inputs, weak.Make(in))
	}
	return nil
}

func (n *Node) declareArgs(values map[string]float64) error {
	n.args = make([]float64, len(n.v.args))
	for i, a := range n.v.args {
		n.args[i] = a.Default
	}

	for name, val := range values {
		i, ok := n.v.arg(name)
		if !ok {
			return fmt.Errorf("%w: argument %q of %s", ErrUnknownSlot, name, n.v.name)
		}
		a := n.v.args[i]
		if math.IsNaN(val) || val < a.Min || val > a.Max {
			return fmt.Errorf("%w: argument %q value %g outside [%g, %g]", ErrInvalidParameterRange, name, val, a.Min, a.Max)
		}
		n.args[i] = val
	}
	return nil
}

func (n *Node) declareSlots(cfg nodeConfig) error {
	n.slots = make([]*binding, len(n.v.slots))
	for i := range n.v.slots {
		n.slots[i] = &binding{slot: &n.v.slots[i], param: Constant(n.v.slots[i].Default)}
	}

	for _, name := range cfg.order {
		b, err := n.binding(name)
		if err != nil {
			return err
		}
		p := cfg.params[name]
		if err := n.validate(b.slot, p); err != nil {
			return err
		}
		b.param = p
	}
	return n.checkOrdering("", Parameter{})
}

// Setup creates the processor handle and initializes it with the context
// sample rate and the construction arguments. A handle whose Init fails is
// destroyed before Setup returns.
func (n *Node) Setup() error {
	if n.state == TornDown {
		return n.fail("setup", ErrUseAfterTeardown)
	}
	if n.handle != nil {
		return n.fail("setup", ErrDoubleInit)
	}

	h := n.v.factory(n.samples)
	if err := h.Init(n.ctx, n.args...); err != nil {
		h.Destroy()
		return n.fail("setup", fmt.Errorf("%w: %w", ErrInvalidParameterRange, err))
	}

	n.handle = h
	n.logger.Debug("handle created", "sample_rate", n.ctx.SampleRate())
	return nil
}

// BindAll binds every declared slot to its handle field and moves the node
// to Ready.
func (n *Node) BindAll() error {
	if n.state == TornDown {
		return n.fail("bind", ErrUseAfterTeardown)
	}
	if n.handle == nil {
		return n.fail("bind", ErrNotInitialized)
	}

	fields := make([]*float64, len(n.slots))
	for i, b := range n.slots {
		field, err := n.handle.Field(b.slot.Field)
		if err != nil {
			return n.fail("bind", err)
		}
		fields[i] = field
	}
	for i, b := range n.slots {
		b.bind(fields[i])
	}

	n.state = Ready
	return nil
}

// Reinitialize destroys the handle and creates a new one for the current
// context sample rate, keeping every parameter.
func (n *Node) Reinitialize() error {
	if n.state == TornDown {
		return n.fail("reinitialize", ErrUseAfterTeardown)
	}
	if n.handle == nil {
		return n.fail("reinitialize", ErrNotInitialized)
	}

	n.destroyHandle()
	n.state = Uninitialized
	n.left, n.right = 0, 0

	if err := n.Setup(); err != nil {
		return err
	}
	return n.BindAll()
}

// SetParameter replaces the parameter of slot. The new value source is
// validated first and nothing changes on failure. The next Compute uses the
// new source.
func (n *Node) SetParameter(slot string, p Parameter) error {
	if n.state == TornDown {
		return n.fail("set parameter", ErrUseAfterTeardown)
	}

	b, err := n.binding(slot)
	if err != nil {
		return n.fail("set parameter", err)
	}
	if err := n.validate(b.slot, p); err != nil {
		return n.fail("set parameter", err)
	}
	if err := n.checkOrdering(slot, p); err != nil {
		return n.fail("set parameter", err)
	}

	b.replace(p)
	n.logger.Debug("parameter rebound", "slot", slot, "source", p.String())

	if n.rewired != nil {
		n.rewired(n)
	}
	return nil
}

func (n *Node) validate(slot *Slot, p Parameter) error {
	if p.IsConstant() {
		if !slot.Contains(p.value) {
			return fmt.Errorf("%w: slot %q value %g outside [%g, %g]",
				ErrInvalidParameterRange, slot.Name, p.value, slot.Min, slot.Max)
		}
		return nil
	}

	if p.channel > Right {
		return fmt.Errorf("%w: slot %q channel %s", ErrInvalidParameterRange, slot.Name, p.channel)
	}

	src := p.Source()
	if src == nil {
		return fmt.Errorf("%w: slot %q source is gone", ErrUnresolvedDependency, slot.Name)
	}
	if src == n || src.dependsOn(n) {
		return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, src.Label(), n.Label())
	}
	if !src.isReady() {
		return fmt.Errorf("%w: slot %q source %s is %s", ErrUnresolvedDependency, slot.Name, src.Label(), src.state)
	}
	return nil
}

// checkOrdering verifies the ordered slot pairs whose parameters are both
// constants, with p standing in for the parameter of slot.
func (n *Node) checkOrdering(slot string, p Parameter) error {
	param := func(name string) Parameter {
		if name == slot {
			return p
		}
		b, _ := n.binding(name)
		return b.param
	}

	for _, o := range n.v.ordered {
		lo, hi := param(o.low), param(o.high)
		if lo.IsConstant() && hi.IsConstant() && lo.value > hi.value {
			return fmt.Errorf("%w: %s %g above %s %g", ErrInvalidParameterRange, o.low, lo.value, o.high, hi.value)
		}
	}
	return nil
}

// checkOrderedFields verifies the ordered slot pairs against the values
// currently held by the handle.
func (n *Node) checkOrderedFields() error {
	for _, o := range n.v.ordered {
		lo, _ := n.binding(o.low)
		hi, _ := n.binding(o.high)
		if lo.field == nil || hi.field == nil {
			continue
		}
		if *lo.field > *hi.field {
			return fmt.Errorf("%w: %s %g above %s %g", ErrInvalidParameterRange, o.low, *lo.field, o.high, *hi.field)
		}
	}
	return nil
}

// Compute evaluates the node for one sample: output-backed parameters are
// pushed into the handle, the handle runs on the mean left output of the
// inputs, and the result is cached for downstream readers.
func (n *Node) Compute() (left, right float64, err error) {
	switch n.state {
	case TornDown:
		return 0, 0, n.fail("compute", ErrUseAfterTeardown)
	case Uninitialized:
		return 0, 0, n.fail("compute", ErrNotInitialized)
	}

	strict := n.ctx.Strict()
	for _, b := range n.slots {
		if err := b.push(strict); err != nil {
			return 0, 0, n.fail("compute", err)
		}
	}
	if strict {
		if err := n.checkOrderedFields(); err != nil {
			return 0, 0, n.fail("compute", err)
		}
	}

	in, err := n.input()
	if err != nil {
		return 0, 0, n.fail("compute", err)
	}

	if sh, ok := n.handle.(processor.StereoHandle); ok {
		left, right = sh.ComputeStereo(n.ctx, in)
	} else {
		left = n.handle.Compute(n.ctx, in)
		right = left
	}

	n.left, n.right = left, right
	n.state = Computing
	return left, right, nil
}

func (n *Node) input() (float64, error) {
	if len(n.inputs) == 0 {
		return 0, nil
	}

	var sum float64
	for _, w := range n.inputs {
		src := w.Value()
		if src == nil || src.state == TornDown {
			return 0, fmt.Errorf("%w: input", ErrDanglingReference)
		}
		sum += src.left
	}
	return sum / float64(len(n.inputs)), nil
}

// Teardown destroys the handle. It is terminal; a second call reports
// ErrUseAfterTeardown and never destroys twice.
func (n *Node) Teardown() error {
	if n.state == TornDown {
		return n.fail("teardown", ErrUseAfterTeardown)
	}

	n.destroyHandle()
	for _, b := range n.slots {
		b.field = nil
	}
	n.state = TornDown
	n.logger.Debug("torn down")
	return nil
}

func (n *Node) destroyHandle() {
	if n.handle == nil {
		return
	}
	n.handle.Destroy()
	n.handle = nil
}

func (n *Node) binding(slot string) (*binding, error) {
	for _, b := range n.slots {
		if b.slot.Name == slot {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %q of %s", ErrUnknownSlot, slot, n.v.name)
}

func (n *Node) isReady() bool {
	return n.state == Ready || n.state == Computing
}

// upstream returns the live nodes n reads from: inputs first, then
// parameter sources.
func (n *Node) upstream() []*Node {
	var deps []*Node
	for _, w := range n.inputs {
		if src := w.Value(); src != nil {
			deps = append(deps, src)
		}
	}
	for _, b := range n.slots {
		if src := b.param.Source(); src != nil {
			deps = append(deps, src)
		}
	}
	return deps
}

// dependsOn reports whether target is reachable upstream of n.
func (n *Node) dependsOn(target *Node) bool {
	seen := map[*Node]bool{}
	stack := n.upstream()
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == target {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		stack = append(stack, cur.upstream()...)
	}
	return false
}

func (n *Node) cached(ch Channel) float64 {
	if ch == Right {
		return n.right
	}
	return n.left
}

// ID returns the node identity.
func (n *Node) ID() uuid.UUID { return n.id }

// Name returns the name given with WithName.
func (n *Node) Name() string { return n.name }

// Label returns the name, or the ID when the node is unnamed.
func (n *Node) Label() string {
	if n.name != "" {
		return n.name
	}
	return n.id.String()
}

// Kind returns the node variant.
func (n *Node) Kind() Kind {
	if n.v == nil {
		return 0
	}
	return n.v.kind
}

// State returns the lifecycle state.
func (n *Node) State() State { return n.state }

// Left returns the left sample cached by the last Compute.
func (n *Node) Left() float64 { return n.left }

// Right returns the right sample cached by the last Compute.
func (n *Node) Right() float64 { return n.right }

// Handle returns the processor handle, or nil outside Setup..Teardown.
func (n *Node) Handle() processor.Handle { return n.handle }

// Parameter returns the current parameter of slot.
func (n *Node) Parameter(slot string) (Parameter, error) {
	b, err := n.binding(slot)
	if err != nil {
		return Parameter{}, err
	}
	return b.param, nil
}

// Slots returns the slot names in declaration order.
func (n *Node) Slots() []string {
	names := make([]string, len(n.slots))
	for i, b := range n.slots {
		names[i] = b.slot.Name
	}
	return names
}

// Inputs returns the live upstream inputs.
func (n *Node) Inputs() []*Node {
	out := make([]*Node, 0, len(n.inputs))
	for _, w := range n.inputs {
		if src := w.Value(); src != nil {
			out = append(out, src)
		}
	}
	return out
}

// Arguments returns the construction arguments in declaration order.
func (n *Node) Arguments() []float64 { return append([]float64(nil), n.args...) }
