// Package chain implements the append-only linked sequence chainvault's
// Container swaps generations of. A Chain is the "Inner" of the
// spec: a head link, a tail pointer, and a length counter, all
// lock-free and safe under concurrent callers.
package chain

import (
	"sync/atomic"

	"github.com/kaelfrost/chainvault/internal/cell"
	"github.com/kaelfrost/chainvault/internal/node"
)

// Chain is an ordered, append-only sequence of Node values. The zero
// value is an empty Chain, ready to use.
//
// Chain exclusively owns its Nodes. Holding a *Chain (whether from a
// Container's current generation or from an Iterator's pinned
// snapshot) is what keeps its Nodes reachable; Go's collector reclaims
// them once nothing holds the Chain anymore, which is the direct
// transliteration of the source's Arc-based shared ownership onto
// Go's GC-backed pointer semantics (see DESIGN.md).
//
// refs additionally tracks, independently of the collector, how many
// holders have explicitly Acquired this generation. Container uses it
// to answer TryUnwrap's "does any iterator still hold this?" question,
// which the collector has no synchronous way to answer.
type Chain[T any] struct {
	head   cell.FillOnce[node.Node[T]]
	tail   cell.Swap[node.Node[T]]
	length atomic.Int64
	refs   atomic.Int32
}

// New returns an empty Chain with one reference already held on behalf
// of its creator.
func New[T any]() *Chain[T] {
	c := &Chain[T]{}
	c.refs.Store(1)
	return c
}

// Acquire records an additional explicit holder of this generation.
func (c *Chain[T]) Acquire() {
	c.refs.Add(1)
}

// Release records that an explicit holder is done with this
// generation. It returns the reference count after the decrement; a
// result of zero means no Container and no Iterator currently claims
// to hold the generation.
func (c *Chain[T]) Release() int32 {
	return c.refs.Add(-1)
}

// RefCount returns the current explicit-holder count.
func (c *Chain[T]) RefCount() int32 {
	return c.refs.Load()
}

// FromSeq builds a Chain from values, in order.
func FromSeq[T any](values []T) *Chain[T] {
	c := New[T]()
	for _, v := range values {
		c.Append(v)
	}
	return c
}

// Head returns the first Node, or nil if the Chain is empty. Acquire
// load.
func (c *Chain[T]) Head() *node.Node[T] {
	return c.head.Load()
}

// Tail returns the last Node, or nil if the Chain is empty. Acquire
// load.
func (c *Chain[T]) Tail() *node.Node[T] {
	return c.tail.Load()
}

// Len returns the current number of Nodes. Acquire load.
func (c *Chain[T]) Len() int {
	return int(c.length.Load())
}

// IsEmpty reports whether the Chain currently has zero Nodes.
func (c *Chain[T]) IsEmpty() bool {
	return c.Len() == 0
}

// Append adds value as the new last Node.
//
// The linearization point is the tail swap: each concurrent appender
// is assigned a unique publication slot (either the head cell, if it
// swapped in from nil, or the previous tail's next link) by that one
// atomic operation, so the subsequent TryStore is guaranteed to
// target a slot no other appender will ever write and therefore
// guaranteed to succeed. This makes Append wait-free up to the
// allocation in node.New.
func (c *Chain[T]) Append(value T) {
	n := node.New(value)
	c.AppendChain(n, n, 1)
}

// AppendChain splices in a prebuilt, already-linked run of n Nodes
// whose first Node is first and whose last is last. Used by the bulk
// path (Extend / FromSeq-over-an-existing-chain) so that a batch of
// values only pays the tail-swap linearization cost once.
func (c *Chain[T]) AppendChain(first, last *node.Node[T], n int) {
	prevTail := c.tail.Swap(last)
	if prevTail == nil {
		// We are the appender that found the Chain empty (or raced
		// everyone else to look empty first): by the tail-swap
		// linearization, exactly one appender ever observes a nil
		// prevTail between two quiescent empty states, so this
		// publish can never collide with another writer of head.
		if err := c.head.TryStore(first); err != nil {
			panic("chain: concurrent append protocol violated: head already set for empty chain")
		}
	} else {
		// prevTail.next is a slot only we were assigned, by the same
		// argument: only the appender that swapped prevTail out of
		// tail ever writes prevTail.next.
		if err := prevTail.SetNext(first); err != nil {
			panic("chain: concurrent append protocol violated: next already set")
		}
	}
	c.length.Add(int64(n))
}

// IntoParts consumes the Chain, returning its length and raw head/tail
// pointers without walking or copying any Node. The caller takes over
// responsibility for the returned chain (e.g. splicing it into another
// Chain via AppendChain); c is left logically empty and must not be
// used again.
func (c *Chain[T]) IntoParts() (length int, first, last *node.Node[T]) {
	length = int(c.length.Swap(0))
	first = c.head.Drain()
	last = c.tail.Take()
	return
}

// Walk iteratively visits every Node from head to tail, calling fn
// with each one's value. It never recurses, regardless of chain
// length: teardown code that must perform O(1)-stack-space cleanup
// per Node (e.g. the FFI façade invoking a caller-supplied destructor
// once per reachable Node) should use this instead of any
// recursive-descent helper.
func (c *Chain[T]) Walk(fn func(T)) {
	for n := c.Head(); n != nil; n = n.Next() {
		fn(n.Value())
	}
}
