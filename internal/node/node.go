// Package node defines the intrusive singly-linked node chainvault's
// Chain is built from.
package node

import "github.com/kaelfrost/chainvault/internal/cell"

// Node holds one payload value and a fill-once link to its successor.
// The value is never mutated after construction; next transitions
// empty to filled exactly once, via SetNext.
type Node[T any] struct {
	value T
	next  cell.FillOnce[Node[T]]
}

// New returns a Node wrapping value with an empty next link.
func New[T any](value T) *Node[T] {
	return &Node[T]{value: value}
}

// Value returns the node's payload. Safe to call concurrently from
// any number of goroutines: the value is immutable after New returns
// and the Node is only ever handed out once reachable from a
// published chain.
func (n *Node[T]) Value() T {
	return n.value
}

// SetNext publishes successor as this node's successor. It fails with
// cell.ErrAlreadyFilled if next has already been set — by the chain
// append protocol, at most one goroutine ever calls SetNext on a given
// node (see internal/chain), so failure here indicates a protocol
// violation by the caller, not contention to retry past.
func (n *Node[T]) SetNext(successor *Node[T]) error {
	return n.next.TryStore(successor)
}

// Next returns the node's successor, or nil if none has been
// published yet. An acquire load: if it returns non-nil, the returned
// Node's own fields (value and, transitively, further next links) are
// fully constructed and safe to read.
func (n *Node[T]) Next() *Node[T] {
	return n.next.Load()
}
