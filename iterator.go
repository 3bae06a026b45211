package chainvault

import (
	"sync/atomic"

	"github.com/kaelfrost/chainvault/internal/chain"
	"github.com/kaelfrost/chainvault/internal/node"
)

// Iterator is a snapshot view over one generation of a Container's
// chain. It is lock-free: Next never blocks on another goroutine, and
// it never observes a generation swap made on the Container after the
// Iterator was created — only further Appends to the very generation
// it pinned.
//
// The empty/non-empty split is fixed forever at construction:
//
//   - An Iterator created over an empty generation stays empty no
//     matter how many values are appended afterward.
//   - An Iterator created over a non-empty generation keeps growing,
//     picking up newly appended values, right up until it has yielded
//     every value the generation held at the moment Next reached the
//     end of what it had already seen. Once that happens it is frozen
//     too, even if more values land after.
//
// The zero value is not usable; obtain an Iterator from
// Container.Iter or Container.Empty.
type Iterator[T any] struct {
	chain   *chain.Chain[T]
	current *node.Node[T]
	index   int
	closed  atomic.Bool
}

// newIterator pins c's current head. It only registers an explicit
// hold (see chain.Chain.Acquire) when there is something to hold: an
// Iterator over an already-empty generation can never grow into one,
// so it has nothing worth keeping TryUnwrap waiting on.
func newIterator[T any](c *chain.Chain[T]) *Iterator[T] {
	head := c.Head()
	it := &Iterator[T]{chain: c, current: head}
	if head != nil {
		c.Acquire()
	} else {
		it.closed.Store(true)
	}
	return it
}

// Index returns how many values Next has yielded so far.
func (it *Iterator[T]) Index() int {
	return it.index
}

// Len returns the Iterator's current size: the live length of the
// pinned generation while there is still more to yield, or the frozen
// count once the Iterator has been exhausted. It never decreases.
func (it *Iterator[T]) Len() int {
	if it.current == nil {
		return it.index
	}
	return it.chain.Len()
}

// IsEmpty reports whether the Iterator is, and will forever remain,
// empty. An Iterator is empty from the start iff the generation it
// pinned had no elements at the moment of Iter/Empty; it can never
// become empty partway through, and a non-empty Iterator can never
// become empty by being drained (Len simply stops growing).
func (it *Iterator[T]) IsEmpty() bool {
	return it.Len() == 0
}

// Next returns the next value and true, or the zero value and false
// once the Iterator is exhausted. Safe to call concurrently with
// Appends on the same generation and with any other Container
// operation; it is not safe to call Next concurrently with itself on
// the same Iterator, same as any other Go iterator with mutable
// cursor state.
func (it *Iterator[T]) Next() (T, bool) {
	cur := it.current
	if cur == nil {
		var zero T
		return zero, false
	}

	value := cur.Value()
	it.index++
	if it.index < it.chain.Len() {
		// The length bump an Append performs happens after its SetNext,
		// so with a single appender observing it.index < it.chain.Len()
		// here means cur's successor is already published. With several
		// concurrent appenders a later one's length bump can land before
		// an earlier one links cur's successor; cur.Next() is then nil
		// and the Iterator ends here, releasing its hold as on any other
		// exhaustion.
		it.current = cur.Next()
		if it.current == nil {
			it.release()
		}
	} else {
		it.current = nil
		it.release()
	}
	return value, true
}

// Close releases this Iterator's hold on its pinned generation before
// natural exhaustion. It is optional: an exhausted Iterator releases
// its hold automatically, and an abandoned, never-exhausted Iterator
// is reclaimed by the garbage collector like any other unreachable
// value, so omitting Close never leaks memory. Call it when a
// generation is being repeatedly probed with Container.TryUnwrap and
// an early-abandoned Iterator over it would otherwise make every
// probe fail until that Iterator is collected.
func (it *Iterator[T]) Close() {
	it.release()
}

// TryUnwrapAll releases this Iterator's hold and, if that made it the
// last holder of the pinned generation, returns every value the
// generation holds — from its head, not from wherever this Iterator's
// cursor had reached — along with true. If another Container or
// Iterator still holds the generation it returns nil, false, and the
// generation lives on untouched. This is the operation an FFI
// destructor uses to decide whether it is safe to invoke a
// caller-supplied free callback on every element (see ffi package).
func (it *Iterator[T]) TryUnwrapAll() (values []T, ok bool) {
	it.release()
	if it.chain.RefCount() != 0 {
		return nil, false
	}
	values = make([]T, 0, it.chain.Len())
	it.chain.Walk(func(v T) { values = append(values, v) })
	return values, true
}

func (it *Iterator[T]) release() {
	if it.closed.CompareAndSwap(false, true) {
		it.chain.Release()
	}
}
