package editor

import (
	"context"
	"math"
	"sync/atomic"
)

// Job runs one long call off the caller's goroutine and exposes its progress
type Job[T any] struct {
	done     chan struct{}
	cancel   context.CancelFunc
	progress atomic.Uint64
	result   T
	err      error
}

// StartJob runs fn in a new goroutine with a cancelable child of ctx
func StartJob[T any](ctx context.Context, fn func(ctx context.Context, onProgress func(float64)) (T, error)) *Job[T] {
	ctx, cancel := context.WithCancel(ctx)
	j := &Job[T]{done: make(chan struct{}), cancel: cancel}
	go func() {
		defer close(j.done)
		defer cancel()
		j.result, j.err = fn(ctx, j.setProgress)
	}()
	return j
}

func (j *Job[T]) setProgress(f float64) {
	j.progress.Store(math.Float64bits(f))
}

// Progress is the last fraction reported by the job
func (j *Job[T]) Progress() float64 {
	return math.Float64frombits(j.progress.Load())
}

func (j *Job[T]) Done() <-chan struct{} { return j.done }

// Running reports whether the job has not returned yet
func (j *Job[T]) Running() bool {
	select {
	case <-j.done:
		return false
	default:
		return true
	}
}

func (j *Job[T]) Cancel() { j.cancel() }

// Wait blocks until the job returns
func (j *Job[T]) Wait() (T, error) {
	<-j.done
	return j.result, j.err
}
