// Package parallelext runs a batch of producer functions concurrently
// and appends their results to a chainvault.Container as they
// complete, grounded on github.com/petenewcomb/psg-go's scatter/gather
// Pool and Job (see that package's Example_hello for the shape this
// mirrors).
package parallelext

import (
	"context"

	psg "github.com/petenewcomb/psg-go"

	"github.com/kaelfrost/chainvault"
)

// Producer computes one value to append to a Container. It is run in
// its own goroutine, same as any psg.TaskFunc, and must be safe to
// call concurrently with the other Producers in the same AppendAll
// call.
type Producer[T any] func(context.Context) (T, error)

// AppendAll runs every producer with up to concurrency of them in
// flight at once, appending each result to c as it completes. The
// append order therefore reflects completion order, not the order
// producers were given, which is the same nondeterminism
// Container.Append already allows under concurrent callers.
//
// AppendAll returns the first error encountered, after every producer
// has either run or been skipped because an earlier one already
// failed; c may hold a partial set of results in that case.
func AppendAll[T any](ctx context.Context, c *chainvault.Container[T], concurrency int, producers []Producer[T]) error {
	pool := psg.NewPool(concurrency)
	job := psg.NewJob(ctx, pool)
	defer job.CancelAndWait()

	var firstErr error
	gather := psg.NewGather(func(ctx context.Context, result T, err error) error {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return nil
		}
		c.Append(result)
		return nil
	})

	for _, produce := range producers {
		if firstErr != nil {
			break
		}
		if err := gather.Scatter(ctx, pool, psg.TaskFunc[T](produce)); err != nil {
			return err
		}
	}

	if err := job.CloseAndGatherAll(ctx); err != nil {
		return err
	}
	return firstErr
}
