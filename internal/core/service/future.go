package service

import "context"

// future is a one-shot asynchronous result.
type future[T any] struct {
	done   chan struct{}
	value  T
	cancel context.CancelFunc
}

// goFuture runs fn once on its own goroutine.
func goFuture[T any](parent context.Context, fn func(ctx context.Context) T) *future[T] {
	ctx, cancel := context.WithCancel(parent)
	f := &future[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(f.done)
		defer cancel()
		f.value = fn(ctx)
	}()
	return f
}

// Done is closed once the result is available.
func (f *future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is ready or ctx ends.
func (f *future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// peek returns the result without blocking.
func (f *future[T]) peek() (T, bool) {
	select {
	case <-f.done:
		return f.value, true
	default:
		var zero T
		return zero, false
	}
}

// release cancels an in-flight task.
func (f *future[T]) release() {
	f.cancel()
}
