package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingInput is returned when a node is built without a required input.
	ErrMissingInput = errors.New("graph: missing input")
	// ErrTooManyInputs is returned when a node is given more inputs than its kind accepts.
	ErrTooManyInputs = errors.New("graph: too many inputs")
	// ErrUnresolvedDependency is returned when an input or parameter source is not ready.
	ErrUnresolvedDependency = errors.New("graph: unresolved dependency")
	// ErrDanglingReference is returned when a referenced node was torn down or collected.
	ErrDanglingReference = errors.New("graph: dangling reference")
	// ErrUseAfterTeardown is returned by any operation on a torn down node.
	ErrUseAfterTeardown = errors.New("graph: use after teardown")
	// ErrInvalidParameterRange is returned for values outside a slot or argument range.
	ErrInvalidParameterRange = errors.New("graph: parameter out of range")
	// ErrDoubleInit is returned by Setup on a node that already holds a handle.
	ErrDoubleInit = errors.New("graph: handle already initialized")
	// ErrNotInitialized is returned when a node is used before Setup and BindAll.
	ErrNotInitialized = errors.New("graph: node not initialized")
	// ErrUnknownSlot is returned for slot or argument names a kind does not declare.
	ErrUnknownSlot = errors.New("graph: unknown slot")
	// ErrUnknownKind is returned for kinds outside the closed variant set.
	ErrUnknownKind = errors.New("graph: unknown kind")
	// ErrDependencyCycle is returned when a connection would make a node depend on itself.
	ErrDependencyCycle = errors.New("graph: dependency cycle")
	// ErrHalted is returned by every tick after a graph stopped on an error.
	ErrHalted = errors.New("graph: halted")
)

// NodeError records the node and operation that failed.
type NodeError struct {
	Node string
	Kind Kind
	Op   string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("graph: %s %s (%s): %v", e.Op, e.Node, e.Kind, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

func (n *Node) fail(op string, err error) error {
	return &NodeError{Node: n.Label(), Kind: n.Kind(), Op: op, Err: err}
}
