package chainvault

import (
	"sync"
	"unsafe"

	"go.uber.org/zap"

	"github.com/kaelfrost/chainvault/internal/chain"
)

// Container holds the currently active chain generation behind a
// readers-writer lock. The lock protects the *handle* — which
// generation is current — not the chain's own operations, which are
// lock-free and safe under concurrent access by every holder of a
// handle.
//
// The zero value is an empty, ready-to-use Container, matching the
// convention of sync.Mutex and friends. New, Of, and FromSeq are
// convenience constructors, not requirements.
type Container[T any] struct {
	view    sync.RWMutex // guards visibility of current
	mutex   sync.Mutex   // serializes writers (Clear/Empty/Swap/TryUnwrap)
	current *chain.Chain[T]
	poison  bool
	log     *zap.Logger
}

// New returns an empty Container.
func New[T any]() *Container[T] {
	return &Container[T]{current: chain.New[T]()}
}

// Of returns a Container populated with values, in order — the
// variadic equivalent of the original library's `container![a, b, c]`
// construction macro (Go has no macros, so a function fills the role).
func Of[T any](values ...T) *Container[T] {
	return FromSeq[T](values)
}

// Repeat returns a Container holding value appended n times —
// the equivalent of `container![v; n]`.
func Repeat[T any](value T, n int) *Container[T] {
	c := New[T]()
	for i := 0; i < n; i++ {
		c.Append(value)
	}
	return c
}

// FromSeq returns a Container populated from values, in order.
func FromSeq[T any](values []T) *Container[T] {
	return &Container[T]{current: chain.FromSeq(values)}
}

// WithLogger attaches a structured logger used to report Debug-level
// generation swaps and Warn-level poisoned-writer detections. The
// zero value logs nowhere (a nop logger), matching the teacher
// package's pattern of taking configuration as explicit constructor
// arguments rather than from ambient global state.
func (c *Container[T]) WithLogger(log *zap.Logger) *Container[T] {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.log = log
	return c
}

func (c *Container[T]) logger() *zap.Logger {
	if c.log == nil {
		return zap.NewNop()
	}
	return c.log
}

// ensure lazily installs an empty generation for a Container obtained
// from its zero value. The nil check is repeated under mutex, so of
// two racing callers only the first allocates a generation. It takes
// mutex itself and must be called before, not while, holding it.
func (c *Container[T]) ensure() {
	if c.current == nil {
		c.mutex.Lock()
		if c.current == nil {
			c.view.Lock()
			c.current = chain.New[T]()
			c.view.Unlock()
		}
		c.mutex.Unlock()
	}
}

// Append adds value as the new last element.
func (c *Container[T]) Append(value T) {
	c.ensure()
	c.view.RLock()
	cur := c.current
	c.view.RUnlock()
	cur.Append(value)
}

// Len returns the number of elements currently in the Container.
func (c *Container[T]) Len() int {
	c.ensure()
	c.view.RLock()
	defer c.view.RUnlock()
	return c.current.Len()
}

// IsEmpty reports whether the Container currently has zero elements.
func (c *Container[T]) IsEmpty() bool {
	return c.Len() == 0
}

// Iter returns a snapshot Iterator pinned to the generation that is
// current at the moment of the call. Mutations made to the Container
// afterward — Clear, Swap, further Append calls that replace or
// extend a *different* generation — never affect the returned
// Iterator; Append calls on the *same* generation do extend it, per
// Iterator's growth rule (see Iterator.Next).
func (c *Container[T]) Iter() *Iterator[T] {
	c.ensure()
	c.view.RLock()
	cur := c.current
	c.view.RUnlock()
	return newIterator(cur)
}

// Clear detaches the current chain from the Container and installs a
// fresh, empty generation. Iterators created before the call continue
// to observe the detached chain for as long as they (or something
// else) holds it; the Container itself is empty immediately after.
func (c *Container[T]) Clear() error {
	_, err := c.replace()
	return err
}

// Empty atomically detaches the current chain and returns an Iterator
// over it, leaving the Container empty. It is Clear and Iter fused
// into one write-locked step, so no Append from another goroutine can
// land between "read current" and "swap in empty" the way it could if
// a caller instead called Iter() followed by Clear().
func (c *Container[T]) Empty() (*Iterator[T], error) {
	old, err := c.replace()
	if err != nil {
		return nil, err
	}
	return newIterator(old), nil
}

// replace swaps in a fresh empty generation and returns the one it
// displaced, under the write lock. The caller is responsible for what
// happens to the returned chain (discard it for Clear, wrap it in an
// Iterator for Empty, check its refcount for TryUnwrap).
func (c *Container[T]) replace() (old *chain.Chain[T], err error) {
	c.ensure()
	if err = c.lockWriter(); err != nil {
		return nil, err
	}
	defer c.mutex.Unlock()
	defer c.recoverPoison(&err)

	fresh := chain.New[T]()
	c.view.Lock()
	old, c.current = c.current, fresh
	c.view.Unlock()
	old.Release()

	c.logger().Debug("chainvault: generation replaced", zap.Int("old_len", old.Len()))
	return old, nil
}

// TryUnwrap replaces the current generation with a fresh empty one and
// reports whether the displaced generation was held exclusively by
// the Container — i.e., whether no Iterator (that has not yet been
// closed or exhausted) still references it. On success it returns the
// displaced chain's elements; on failure the displaced generation
// simply lives on for as long as its remaining holders keep it, the
// same as an ordinary Clear.
func (c *Container[T]) TryUnwrap() (values []T, ok bool, err error) {
	old, err := c.replace()
	if err != nil {
		return nil, false, err
	}
	if old.RefCount() != 0 {
		return nil, false, nil
	}
	values = make([]T, 0, old.Len())
	old.Walk(func(v T) { values = append(values, v) })
	return values, true, nil
}

// Swap exchanges the current generations of c and other. Locks are
// taken in a fixed global order derived from the two Containers'
// addresses to avoid deadlocking against a concurrent call to
// other.Swap(c). Iterators created before the call are unaffected:
// they already hold their own reference to whichever generation they
// pinned.
func (c *Container[T]) Swap(other *Container[T]) error {
	if c == other {
		return nil
	}
	c.ensure()
	other.ensure()

	first, second := c, other
	if uintptr(unsafe.Pointer(first)) > uintptr(unsafe.Pointer(second)) {
		first, second = second, first
	}

	first.mutex.Lock()
	defer first.mutex.Unlock()
	second.mutex.Lock()
	defer second.mutex.Unlock()

	var err error
	func() {
		defer c.recoverPoison(&err)
		defer other.recoverPoison(&err)
		if c.poison || other.poison {
			err = ErrPoisoned
			return
		}

		c.view.Lock()
		other.view.Lock()
		c.current, other.current = other.current, c.current
		other.view.Unlock()
		c.view.Unlock()
	}()
	if err != nil {
		return err
	}

	c.logger().Debug("chainvault: containers swapped")
	return nil
}

// Extend appends every value from values, in order, as a single
// generation-extending batch: the fresh sub-chain is built lock-free
// outside any Container lock, and only the final splice takes the
// read lock, so one Extend of N values costs one tail-swap
// linearization instead of N.
func (c *Container[T]) Extend(values []T) {
	if len(values) == 0 {
		return
	}
	sub := chain.FromSeq(values)
	first, last := sub.Head(), sub.Tail()

	c.ensure()
	c.view.RLock()
	cur := c.current
	c.view.RUnlock()
	cur.AppendChain(first, last, len(values))
}

// lockWriter serializes with other writers and reports ErrPoisoned if
// a prior writer panicked without clearing the poison flag.
func (c *Container[T]) lockWriter() error {
	c.mutex.Lock()
	if c.poison {
		c.mutex.Unlock()
		return ErrPoisoned
	}
	return nil
}

// recoverPoison marks the Container poisoned and converts a panic
// into *err, preserving the original panic value in the error message
// rather than letting it propagate and skip this package's lock
// release bookkeeping undetected by later callers.
func (c *Container[T]) recoverPoison(err *error) {
	if r := recover(); r != nil {
		c.poison = true
		c.logger().Warn("chainvault: writer panicked, container poisoned", zap.Any("panic", r))
		*err = ErrPoisoned
	}
}
