package graph

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-modgraph/dsp/core"
)

// Graph owns a set of nodes and evaluates them once per tick in
// topological order. The first per-tick error halts the graph; later ticks
// return ErrHalted wrapping that error.
//
// A Graph is driven by a single goroutine. Nodes must not be rewired or
// torn down while a Tick or Render call is running.
type Graph struct {
	ctx    *core.Context
	logger *slog.Logger
	nodes  []*Node
	order  []*Node
	dirty  bool
	out    *Node
	halted error
}

// NewGraph creates an empty graph bound to ctx.
func NewGraph(ctx *core.Context) *Graph {
	if ctx == nil {
		ctx = core.MustContext()
	}
	return &Graph{
		ctx:    ctx,
		logger: ctx.Logger().With("component", "graph"),
	}
}

// Context returns the processing context shared by the graph nodes.
func (g *Graph) Context() *core.Context { return g.ctx }

// Add takes ownership of nodes. Adding a node twice is a no-op.
func (g *Graph) Add(nodes ...*Node) error {
	for _, n := range nodes {
		if n == nil {
			return errors.New("graph: add nil node")
		}
		if n.state == TornDown {
			return n.fail("add", ErrUseAfterTeardown)
		}
		if n.ctx != g.ctx {
			return n.fail("add", errors.New("node belongs to another context"))
		}
		if g.contains(n) {
			continue
		}

		n.rewired = g.invalidate
		g.nodes = append(g.nodes, n)
		g.dirty = true
	}
	return nil
}

// Remove tears down n and releases it. Nodes that still read from n keep it
// from being removed.
func (g *Graph) Remove(n *Node) error {
	idx := g.index(n)
	if idx < 0 {
		return errors.New("graph: remove: node not in graph")
	}

	for _, other := range g.nodes {
		if other == n {
			continue
		}
		for _, dep := range other.upstream() {
			if dep == n {
				return fmt.Errorf("graph: remove %s: %w: still read by %s", n.Label(), ErrDanglingReference, other.Label())
			}
		}
	}

	g.nodes = append(g.nodes[:idx], g.nodes[idx+1:]...)
	if g.out == n {
		g.out = nil
	}
	n.rewired = nil
	g.dirty = true

	if n.state == TornDown {
		return nil
	}
	return n.Teardown()
}

// SetOutput selects the node whose output Tick returns. By default the last
// node in topological order is used.
func (g *Graph) SetOutput(n *Node) error {
	if !g.contains(n) {
		return errors.New("graph: set output: node not in graph")
	}
	g.out = n
	return nil
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []*Node { return append([]*Node(nil), g.nodes...) }

// Lookup returns the node named name.
func (g *Graph) Lookup(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n.name == name {
			return n, true
		}
	}
	return nil, false
}

// Order returns the evaluation order. It is recomputed after nodes are added,
// removed or rewired.
func (g *Graph) Order() ([]*Node, error) {
	if g.dirty || g.order == nil {
		order, err := g.sort()
		if err != nil {
			return nil, err
		}
		g.order = order
		g.dirty = false
	}
	return append([]*Node(nil), g.order...), nil
}

// sort orders nodes with Kahn's algorithm. Ties keep insertion order.
func (g *Graph) sort() ([]*Node, error) {
	indegree := make(map[*Node]int, len(g.nodes))
	outgoing := make(map[*Node][]*Node, len(g.nodes))
	for _, n := range g.nodes {
		indegree[n] = 0
	}

	for _, n := range g.nodes {
		for _, dep := range n.upstream() {
			if _, ok := indegree[dep]; !ok {
				return nil, n.fail("order", fmt.Errorf("%w: %s is not part of the graph", ErrUnresolvedDependency, dep.Label()))
			}
			outgoing[dep] = append(outgoing[dep], n)
			indegree[n]++
		}
	}

	queue := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if indegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		order = append(order, n)
		for _, next := range outgoing[n] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(g.nodes) {
		return nil, fmt.Errorf("graph: order: %w", ErrDependencyCycle)
	}
	return order, nil
}

// Tick evaluates every node once and returns the output node's samples.
func (g *Graph) Tick() (left, right float64, err error) {
	if g.halted != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrHalted, g.halted)
	}

	order, err := g.Order()
	if err != nil {
		return 0, 0, g.halt(err)
	}

	for _, n := range order {
		if _, _, err := n.Compute(); err != nil {
			return 0, 0, g.halt(err)
		}
	}

	g.ctx.Advance()

	out := g.out
	if out == nil && len(order) > 0 {
		out = order[len(order)-1]
	}
	if out == nil {
		return 0, 0, nil
	}
	return out.left, out.right, nil
}

// Render fills left and right with consecutive ticks and returns the number
// of samples written. It stops at the first error.
func (g *Graph) Render(left, right []float64) (int, error) {
	n := min(len(left), len(right))
	for i := range n {
		l, r, err := g.Tick()
		if err != nil {
			return i, err
		}
		left[i], right[i] = l, r
	}
	return n, nil
}

// SetSampleRate changes the context sample rate and reinitializes every node
// in evaluation order.
func (g *Graph) SetSampleRate(sampleRate float64) error {
	if err := g.ctx.SetSampleRate(sampleRate); err != nil {
		return fmt.Errorf("graph: %w", err)
	}

	order, err := g.Order()
	if err != nil {
		return err
	}

	var errs []error
	for _, n := range order {
		if err := n.Reinitialize(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	g.logger.Info("sample rate changed", "sample_rate", sampleRate, "nodes", len(order))
	return nil
}

// Err returns the error that halted the graph, or nil.
func (g *Graph) Err() error { return g.halted }

// Teardown tears every node down in reverse evaluation order and releases
// them. Errors are joined.
func (g *Graph) Teardown() error {
	order, err := g.Order()
	if err != nil {
		order = g.Nodes()
	}

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		n.rewired = nil
		if n.state == TornDown {
			continue
		}
		if err := n.Teardown(); err != nil {
			errs = append(errs, err)
		}
	}

	g.nodes, g.order, g.out = nil, nil, nil
	g.dirty = false
	return errors.Join(errs...)
}

func (g *Graph) halt(err error) error {
	g.halted = err
	g.logger.Error("graph halted", "tick", g.ctx.Tick(), "err", err)
	return fmt.Errorf("%w: %w", ErrHalted, err)
}

func (g *Graph) invalidate(*Node) { g.dirty = true }

func (g *Graph) contains(n *Node) bool { return g.index(n) >= 0 }

func (g *Graph) index(n *Node) int {
	for i, other := range g.nodes {
		if other == n {
			return i
		}
	}
	return -1
}
