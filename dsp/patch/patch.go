package patch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/cwbudde/algo-modgraph/dsp/graph"
)

// Patch is the JSON form of a graph.
type Patch struct {
	Output string     `json:"output,omitempty"`
	Nodes  []NodeSpec `json:"nodes"`
}

// NodeSpec describes one node.
type NodeSpec struct {
	ID      string               `json:"id"`
	Type    string               `json:"type"`
	Inputs  []string             `json:"inputs,omitempty"`
	Args    map[string]float64   `json:"args,omitempty"`
	Params  map[string]ParamSpec `json:"params,omitempty"`
	Samples []float64            `json:"samples,omitempty"`
	WAV     string               `json:"wav,omitempty"`
}

// ParamSpec is a constant value or a node output reference. In JSON it is
// either a number or {"node": "id", "channel": "left|right"}.
type ParamSpec struct {
	Value   float64
	Node    string
	Channel string
}

// Constant reports whether p holds a value instead of a node reference.
func (p ParamSpec) Constant() bool { return p.Node == "" }

type paramRef struct {
	Node    string `json:"node"`
	Channel string `json:"channel,omitempty"`
}

// UnmarshalJSON accepts a number or a node reference object.
func (p *ParamSpec) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var ref paramRef
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		if ref.Node == "" {
			return errors.New("parameter reference without node")
		}
		*p = ParamSpec{Node: ref.Node, Channel: ref.Channel}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("parameter must be a number or a node reference: %w", err)
	}
	*p = ParamSpec{Value: v}
	return nil
}

// MarshalJSON writes the number or reference form.
func (p ParamSpec) MarshalJSON() ([]byte, error) {
	if p.Constant() {
		return json.Marshal(p.Value)
	}
	return json.Marshal(paramRef{Node: p.Node, Channel: p.Channel})
}

func (p ParamSpec) channel() (graph.Channel, error) {
	switch strings.ToLower(p.Channel) {
	case "", "left", "l":
		return graph.Left, nil
	case "right", "r":
		return graph.Right, nil
	default:
		return 0, fmt.Errorf("unknown channel %q", p.Channel)
	}
}

// Parse decodes and validates a JSON patch.
func Parse(data []byte) (*Patch, error) {
	var p Patch
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("invalid patch json: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads and parses a patch file.
func Load(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch: %w", err)
	}
	return Parse(data)
}

// Validate checks IDs, references and the output node.
func (p *Patch) Validate() error {
	ids := make(map[string]bool, len(p.Nodes))
	for i, n := range p.Nodes {
		if n.ID == "" || n.Type == "" {
			return fmt.Errorf("invalid patch: node %d needs id and type", i)
		}
		if ids[n.ID] {
			return fmt.Errorf("invalid patch: duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for _, n := range p.Nodes {
		for _, dep := range n.deps() {
			if !ids[dep] {
				return fmt.Errorf("invalid patch: node %q references unknown node %q", n.ID, dep)
			}
		}
	}

	if p.Output != "" && !ids[p.Output] {
		return fmt.Errorf("invalid patch: unknown output node %q", p.Output)
	}
	return nil
}

// deps returns the IDs n reads from, inputs first.
func (n NodeSpec) deps() []string {
	deps := append([]string(nil), n.Inputs...)
	for _, name := range sortedKeys(n.Params) {
		if ref := n.Params[name]; !ref.Constant() {
			deps = append(deps, ref.Node)
		}
	}
	return deps
}

// Order returns the node IDs in build order (Kahn's algorithm). Ties keep
// listing order.
func (p *Patch) Order() ([]string, error) {
	indegree := make(map[string]int, len(p.Nodes))
	outgoing := make(map[string][]string, len(p.Nodes))
	for _, n := range p.Nodes {
		indegree[n.ID] = 0
	}

	for _, n := range p.Nodes {
		for _, dep := range n.deps() {
			if _, ok := indegree[dep]; !ok {
				continue
			}
			outgoing[dep] = append(outgoing[dep], n.ID)
			indegree[n.ID]++
		}
	}

	queue := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		if indegree[n.ID] == 0 {
			queue = append(queue, n.ID)
		}
	}

	order := make([]string, 0, len(p.Nodes))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		order = append(order, id)
		for _, next := range outgoing[id] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) != len(p.Nodes) {
		return nil, fmt.Errorf("invalid patch: %w", graph.ErrDependencyCycle)
	}
	return order, nil
}

func (p *Patch) node(id string) (NodeSpec, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeSpec{}, false
}
