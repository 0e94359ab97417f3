package client

import "context"

// Future is the pending result of a call started with Go.
type Future[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	val    T
	err    error
}

// Go runs fn on its own goroutine with a context derived from ctx.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	f := &Future[T]{done: make(chan struct{}), cancel: cancel}

	go func() {
		defer close(f.done)
		defer cancel()
		f.val, f.err = fn(ctx)
	}()

	return f
}

// Done is closed once the call has finished.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Cancel aborts the call. The result then reports the cancellation.
func (f *Future[T]) Cancel() { f.cancel() }

// Await blocks until the call finishes or ctx ends.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
