// Package cell provides the atomic single-slot primitives the rest of
// chainvault is built from: a plain swap cell and two fill-once
// variants that can only transition from empty to filled.
//
// All three wrap a Go pointer behind atomic.Pointer rather than an
// unsafe raw pointer: the pointee is a normal heap value owned by
// whichever cell currently holds it, so Go's collector reclaims it
// once no cell and no local variable reference it anymore. The
// fill-once contract (single-writer-wins publication, safe concurrent
// reads by reference) is what internal/node and internal/chain build
// their safety arguments on.
package cell

import (
	"errors"
	"sync/atomic"
)

// ErrAlreadyFilled is returned by TryStore when the cell already holds
// a value. It is the only failure mode this package exposes.
var ErrAlreadyFilled = errors.New("cell: already filled")

// Swap holds an owned value or nothing and allows unconditional
// replacement. Used for Chain's tail pointer, where ownership of the
// previous value passes to whoever receives it from Swap.
type Swap[T any] struct {
	p atomic.Pointer[T]
}

// Store installs v, discarding whatever was previously held.
func (c *Swap[T]) Store(v *T) {
	c.p.Store(v)
}

// Swap installs v and returns the previous value.
func (c *Swap[T]) Swap(v *T) *T {
	return c.p.Swap(v)
}

// Take removes and returns the current value, leaving the cell empty.
func (c *Swap[T]) Take() *T {
	return c.p.Swap(nil)
}

// Load returns the current value without removing it.
func (c *Swap[T]) Load() *T {
	return c.p.Load()
}

// FillOnce holds an owned value or nothing and can only transition
// empty to filled exactly once: a second TryStore observes the first
// writer's value and fails with ErrAlreadyFilled. Once filled, the
// pointee is never mutated again, so Load may be handed out to any
// number of concurrent readers without further synchronization.
type FillOnce[T any] struct {
	p atomic.Pointer[T]
}

// TryStore installs v if the cell is empty. It is implemented as a
// single CompareAndSwap from nil to v; the acquire/release pairing
// that atomic.Pointer guarantees means a reader who observes the
// filled state via Load also observes v's fully constructed pointee.
func (c *FillOnce[T]) TryStore(v *T) error {
	if c.p.CompareAndSwap(nil, v) {
		return nil
	}
	return ErrAlreadyFilled
}

// Load returns the current value, or nil if the cell is still empty.
// Safe to call concurrently with TryStore and with other Loads.
func (c *FillOnce[T]) Load() *T {
	return c.p.Load()
}

// Filled reports whether the cell has been written to.
func (c *FillOnce[T]) Filled() bool {
	return c.p.Load() != nil
}

// Drain empties the cell and returns whatever it held, bypassing the
// single-writer-wins contract. Only the cell's owner may call this,
// and only once no concurrent reader can still be observing the old
// value — it exists for iterative chain teardown, not general use.
func (c *FillOnce[T]) Drain() *T {
	return c.p.Swap(nil)
}

// FillOnceRef is a FillOnce cell specialized for values that carry
// their own reference count (see internal/chain's generation
// refcounting). Load acquires a reference on the way out so the
// caller's hold on the pointee outlives a concurrent Release by
// whoever currently owns it.
type FillOnceRef[T interface{ Acquire() }] struct {
	inner FillOnce[T]
}

// TryStore installs v if the cell is empty.
func (c *FillOnceRef[T]) TryStore(v *T) error {
	return c.inner.TryStore(v)
}

// Load returns the current value with an acquired reference, or nil
// if the cell is still empty.
func (c *FillOnceRef[T]) Load() *T {
	v := c.inner.Load()
	if v != nil {
		(*v).Acquire()
	}
	return v
}

// LoadNoRef returns the current value without acquiring a reference.
// Safe only when the caller already holds a reference that covers the
// pointee's lifetime through some other path (e.g. the chain that owns
// the node chain being walked).
func (c *FillOnceRef[T]) LoadNoRef() *T {
	return c.inner.Load()
}

// Filled reports whether the cell has been written to.
func (c *FillOnceRef[T]) Filled() bool {
	return c.inner.Filled()
}
