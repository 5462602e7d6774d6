// Package graph connects processor handles into a modulation graph.
//
// A Node owns exactly one processor handle and a fixed set of named
// parameter slots. Each slot holds a Parameter: either a constant or the
// cached output of another node, which lets one node modulate another at
// audio rate. Upstream references are weak; a Graph holds the strong
// references, evaluates nodes in topological order once per tick, and tears
// them down in reverse order.
//
// Lifecycle of a node:
//
//	Uninitialized --Setup+BindAll--> Ready --Compute--> Computing
//	      any state --Teardown--> TornDown (terminal)
//
// Nodes and graphs are not safe for concurrent use. Parameter replacement,
// rewiring and teardown must happen between ticks on the goroutine that
// evaluates the graph.
package graph
