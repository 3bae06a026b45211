package chainvault

import (
	"errors"

	"github.com/kaelfrost/chainvault/internal/cell"
)

// The core error taxonomy is intentionally narrow: chainvault's
// mutating operations either complete or panic on allocation failure
// (which Go does not route through an error return), so these two
// sentinels are the only failure modes a caller can observe.
var (
	// ErrAlreadyFilled is returned by the single-slot cells
	// (internal/cell) when a second write is attempted. It should
	// never surface from Container or Iterator in ordinary use: the
	// append protocol guarantees each publication targets a slot no
	// other writer can also target.
	ErrAlreadyFilled = cell.ErrAlreadyFilled

	// ErrPoisoned is returned by Container operations after a writer
	// goroutine has panicked while holding the write lock. Once
	// poisoned, a Container is permanently unusable: every writer
	// critical section in this package is short and panic-free, so
	// poisoning only ever indicates a bug outside the package (a
	// panic raised from within, e.g., by the *zap.Logger attached
	// with WithLogger).
	ErrPoisoned = errors.New("chainvault: container poisoned by panicking writer")
)
